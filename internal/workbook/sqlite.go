// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sage-dat/pkg/types"
)

// SQLiteStore keeps sheets in a SQLite database: one row per sheet holding
// its header, one row per table row holding its cells as a JSON array.
type SQLiteStore struct {
	db   *sql.DB
	path string

	// LastRun is the id stamped on the most recent Save.
	LastRun string
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating workbook directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sheets (
			name TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			header TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			sheet TEXT NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			cells TEXT NOT NULL,
			PRIMARY KEY (sheet, idx)
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			saved_at TEXT NOT NULL,
			sheets TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load returns every sheet ordered by first save.
func (s *SQLiteStore) Load() ([]types.Table, error) {
	rows, err := s.db.Query(`SELECT name, header FROM sheets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying sheets: %w", err)
	}
	var tables []types.Table
	for rows.Next() {
		var name, header string
		if err := rows.Scan(&name, &header); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning sheet: %w", err)
		}
		t := types.Table{Entity: name}
		if err := json.Unmarshal([]byte(header), &t.Header); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decoding header of %s: %w", name, err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range tables {
		if tables[i].Rows, err = s.loadRows(tables[i].Entity); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

func (s *SQLiteStore) loadRows(sheet string) ([][]string, error) {
	rows, err := s.db.Query(`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY idx`, sheet)
	if err != nil {
		return nil, fmt.Errorf("querying rows of %s: %w", sheet, err)
	}
	defer rows.Close()

	out := [][]string{}
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scanning row of %s: %w", sheet, err)
		}
		var row []string
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, fmt.Errorf("decoding row of %s: %w", sheet, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Save replaces the named sheets in one transaction. A sheet keeps its
// position when it already exists. Each call is recorded in the runs table.
func (s *SQLiteStore) Save(tables []types.Table) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var next int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM sheets`).Scan(&next); err != nil {
		return fmt.Errorf("reading sheet positions: %w", err)
	}

	names := make([]string, 0, len(tables))
	for _, t := range tables {
		name := strings.ToLower(t.Entity)
		names = append(names, name)

		pos := next
		switch err := tx.QueryRow(`SELECT position FROM sheets WHERE name = ?`, name).Scan(&pos); err {
		case nil:
		case sql.ErrNoRows:
			next++
		default:
			return fmt.Errorf("looking up sheet %s: %w", name, err)
		}

		if _, err := tx.Exec(`DELETE FROM sheet_rows WHERE sheet = ?`, name); err != nil {
			return fmt.Errorf("clearing sheet %s: %w", name, err)
		}
		header, err := json.Marshal(t.Header)
		if err != nil {
			return fmt.Errorf("encoding header of %s: %w", name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO sheets (name, position, header) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET header = excluded.header`,
			name, pos, string(header),
		); err != nil {
			return fmt.Errorf("writing sheet %s: %w", name, err)
		}

		for i, row := range t.Rows {
			cells, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encoding row %d of %s: %w", i+1, name, err)
			}
			if _, err := tx.Exec(`INSERT INTO sheet_rows (sheet, idx, cells) VALUES (?, ?, ?)`, name, i, string(cells)); err != nil {
				return fmt.Errorf("writing row %d of %s: %w", i+1, name, err)
			}
		}
	}

	runID := uuid.New().String()
	if _, err := tx.Exec(
		`INSERT INTO runs (id, saved_at, sheets) VALUES (?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano), strings.Join(names, ","),
	); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	s.LastRun = runID
	return nil
}

// Runs returns the number of recorded saves.
func (s *SQLiteStore) Runs() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}
