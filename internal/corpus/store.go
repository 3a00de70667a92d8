// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import "github.com/pdiddy/sage-dat/pkg/types"

// Store groups records by entity key. Keys keep the order in which they
// were first populated; records keep the order in which they were added.
type Store struct {
	records map[string][]types.Record
	keys    []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string][]types.Record)}
}

// Append adds r under types.EntityKey(r).
func (s *Store) Append(r types.Record) {
	s.add(types.EntityKey(r), r)
}

func (s *Store) add(key string, recs ...types.Record) {
	if _, ok := s.records[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.records[key] = append(s.records[key], recs...)
}

// Set replaces the records stored under key.
func (s *Store) Set(key string, recs []types.Record) {
	s.Reset(key)
	if len(recs) == 0 {
		return
	}
	s.add(key, recs...)
}

// Reset drops key and its records.
func (s *Store) Reset(key string) {
	if _, ok := s.records[key]; !ok {
		return
	}
	delete(s.records, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Records returns a copy of the records under key.
func (s *Store) Records(key string) []types.Record {
	recs := s.records[key]
	if recs == nil {
		return nil
	}
	out := make([]types.Record, len(recs))
	copy(out, recs)
	return out
}

// Keys returns the populated entity keys.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the total number of records.
func (s *Store) Len() int {
	n := 0
	for _, recs := range s.records {
		n += len(recs)
	}
	return n
}
