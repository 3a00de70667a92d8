// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sage-dat/internal/export"
	"github.com/pdiddy/sage-dat/internal/workbook"
)

var exportCmd = &cobra.Command{
	Use:   "export [dest]",
	Short: "Regenerate DAT files from the workbook",
	Long: `Export reads the workbook tables, groups their rows by origin file and
writes each file under dest, mirroring the original layout. A file that
already exists is kept as <name>.bak; only one backup generation is kept.

Rows whose control code is q are left out. A table missing the Origin,
Control or Aux column is skipped and reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dest := cfg.Export.Dest
	if len(args) > 0 {
		dest = args[0]
	}
	if dest == "" {
		return fmt.Errorf("destination is required: pass it as an argument or set export.dest")
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

	report, err := export.Export(tables, dest, export.Options{
		Entities: cfg.Export.Entities,
		Encoding: cfg.Export.Encoding,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d of %d file(s) to %s\n", len(report.Written), report.Total(), dest)
	if report.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d table(s)\n", report.Skipped)
	}
	if report.HasFailures() {
		for _, e := range report.Errors {
			fmt.Fprintf(out, "  error: %v\n", e)
		}
		return fmt.Errorf("export finished with %d error(s)", len(report.Errors))
	}
	return nil
}

func init() {
	exportCmd.Flags().String("encoding", "", "output encoding: latin1 or utf8 (default utf8)")
	exportCmd.Flags().StringSlice("entities", nil, "only export these entity tables")

	viper.BindPFlag("export.encoding", exportCmd.Flags().Lookup("encoding"))
	viper.BindPFlag("export.entities", exportCmd.Flags().Lookup("entities"))

	rootCmd.AddCommand(exportCmd)
}
