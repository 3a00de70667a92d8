// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sage-dat/internal/datfile"
	"github.com/pdiddy/sage-dat/internal/vocab"
	"github.com/pdiddy/sage-dat/internal/workbook"
	"github.com/pdiddy/sage-dat/pkg/types"
)

// --- vocab subcommand ---

var vocabCmd = &cobra.Command{
	Use:   "vocab [dir]",
	Short: "List the entity types a directory recognises",
	Long: `Vocab prints the vocabulary of dir: the upper-cased base names of the
.dat files it contains. Only lines naming one of these types open a block
in files of that directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		out := cmd.OutOrStdout()
		for _, name := range vocab.Build(dir).Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	},
}

// --- parse subcommand ---

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the records parsed from one DAT file",
	Long: `Parse reads a single DAT file against the vocabulary of its directory
and prints one line per record: control code, entity key and content.
Nothing is written to the workbook.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := args[0]
		recs, err := datfile.ParseFile(path, filepath.Base(path), vocab.Build(filepath.Dir(path)), cfg.Import.Encoding)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range recs {
			fmt.Fprintf(out, "%s  %-12s %s\n", r.Kind().Code(), types.EntityKey(r), summarize(r))
		}
		return nil
	},
}

func summarize(r types.Record) string {
	switch v := r.(type) {
	case types.ActiveBlock:
		return formatAttributes(v.Attributes)
	case types.CommentedBlock:
		return formatAttributes(v.Attributes)
	case types.IncludeActive:
		return v.Target
	case types.IncludeCommented:
		return v.Target
	case types.PlainComment:
		return v.Text
	}
	return ""
}

func formatAttributes(a *types.Attributes) string {
	parts := make([]string, 0, a.Len())
	for _, k := range a.Keys() {
		v, _ := a.Get(k)
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

// --- show subcommand ---

var showCmd = &cobra.Command{
	Use:   "show [entities...]",
	Short: "Print workbook tables",
	Long: `Show prints the listed tables of the workbook (all tables when none are
named) as tab-separated text, or as YAML with --yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		wb, err := workbook.Open(cfg.Workbook.Path)
		if err != nil {
			return err
		}
		defer wb.Close()

		tables, err := wb.Load()
		if err != nil {
			return fmt.Errorf("loading workbook: %w", err)
		}
		tables = workbook.Select(tables, args)

		out := cmd.OutOrStdout()
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(tables); err != nil {
				return err
			}
			return enc.Close()
		}

		if len(tables) == 0 {
			fmt.Fprintln(out, "No tables found.")
			return nil
		}
		for i, t := range tables {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "[%s] %d row(s)\n", t.Entity, len(t.Rows))
			fmt.Fprintln(out, strings.Join(t.Header, "\t"))
			for _, row := range t.Rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
		}
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("yaml", false, "output tables as YAML")

	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(showCmd)
}
