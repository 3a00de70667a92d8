// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sage-dat/internal/corpus"
	"github.com/pdiddy/sage-dat/internal/workbook"
	"github.com/pdiddy/sage-dat/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import [root]",
	Short: "Parse a DAT tree into the workbook",
	Long: `Import walks root for .dat files, parses each one against the vocabulary
of its directory and stores one table per entity in the workbook.

In replace mode (default) every entity that receives records replaces its
table. In update mode the new rows are appended to the existing ones.
Tables of entities not touched by the run are left as they are.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root := cfg.Import.Root
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		return fmt.Errorf("import root is required: pass it as an argument or set import.root")
	}

	wb, err := workbook.Open(cfg.Workbook.Path)
	if err != nil {
		return err
	}
	defer wb.Close()

	var into *corpus.Store
	if cfg.Import.Mode == types.ModeUpdate {
		if into, err = loadStore(wb); err != nil {
			return err
		}
	}

	res, err := corpus.Import(root, corpus.Options{
		Entities: cfg.Import.Entities,
		Mode:     cfg.Import.Mode,
		Include:  cfg.Import.Include,
		Encoding: cfg.Import.Encoding,
		Into:     into,
	})
	if err != nil {
		return err
	}

	tables := workbook.FromStore(res.Store, res.Entities)
	if err := wb.Save(tables); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d file(s) into %s\n", res.Files, cfg.Workbook.Path)
	for _, t := range tables {
		fmt.Fprintf(out, "  %-20s %d row(s)\n", t.Entity, len(t.Rows))
	}
	if res.HasFailures() {
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  error: %v\n", e)
		}
		return fmt.Errorf("%d file(s) could not be read", len(res.Errors))
	}
	return nil
}

// loadStore reads the workbook back into a record store so an update run
// can append to it. Tables missing a structural column are left out.
func loadStore(wb workbook.Workbook) (*corpus.Store, error) {
	tables, err := wb.Load()
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}
	store := corpus.NewStore()
	for _, t := range tables {
		recs, err := workbook.ToRecords(t)
		if err != nil {
			log.Warn().Err(err).Str("entity", t.Entity).Msg("Existing table not merged")
			continue
		}
		store.Set(strings.ToLower(t.Entity), recs)
	}
	return store, nil
}

func init() {
	importCmd.Flags().String("mode", "", "merge mode: replace or update (default replace)")
	importCmd.Flags().String("include", "", "include resolution: literal or recursive (default literal)")
	importCmd.Flags().String("encoding", "", "source encoding: latin1 or utf8 (default latin1)")
	importCmd.Flags().StringSlice("entities", nil, "only import files whose name matches these entities")

	viper.BindPFlag("import.mode", importCmd.Flags().Lookup("mode"))
	viper.BindPFlag("import.include", importCmd.Flags().Lookup("include"))
	viper.BindPFlag("import.encoding", importCmd.Flags().Lookup("encoding"))
	viper.BindPFlag("import.entities", importCmd.Flags().Lookup("entities"))

	rootCmd.AddCommand(importCmd)
}
