// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sage-dat CLI.
//
// sage-dat moves SAGE DAT configuration trees in and out of an editable
// workbook: import parses a directory tree into entity tables, export writes
// the tables back to DAT files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sage-dat/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sage-dat CLI.
var rootCmd = &cobra.Command{
	Use:   "sage-dat",
	Short: "Convert SAGE DAT configuration trees to and from entity tables",
	Long: `sage-dat reads a directory tree of SAGE DAT files into a workbook with
one table per entity, and regenerates the DAT files from that workbook.

The workbook is a SQLite database by default; a path ending in .yaml or .yml
selects a plain YAML file instead. Settings come from flags, SAGE_DAT_*
environment variables (a .env file is honoured) and sage-dat.yaml.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if viper.GetBool("verbose") {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sage-dat.yaml or ~/.config/sage-dat/config.yaml)")
	rootCmd.PersistentFlags().String("workbook", "", "workbook path: SQLite database, or .yaml/.yml file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("workbook.path", rootCmd.PersistentFlags().Lookup("workbook"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	defaults := types.DefaultConfig()
	viper.SetDefault("import.mode", string(defaults.Import.Mode))
	viper.SetDefault("import.include", string(defaults.Import.Include))
	viper.SetDefault("import.encoding", string(defaults.Import.Encoding))
	viper.SetDefault("export.encoding", string(defaults.Export.Encoding))
	viper.SetDefault("workbook.path", defaults.Workbook.Path)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sage-dat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sage-dat"))
		}
	}

	viper.SetEnvPrefix("SAGE_DAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

// loadConfig assembles the effective settings from viper.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	var err error

	cfg.Import.Root = viper.GetString("import.root")
	cfg.Import.Entities = entityList(viper.GetStringSlice("import.entities"))
	if cfg.Import.Mode, err = types.ParseImportMode(viper.GetString("import.mode")); err != nil {
		return cfg, err
	}
	if cfg.Import.Include, err = types.ParseIncludeResolution(viper.GetString("import.include")); err != nil {
		return cfg, err
	}
	if cfg.Import.Encoding, err = types.ParseEncoding(viper.GetString("import.encoding"), types.EncodingLatin1); err != nil {
		return cfg, err
	}

	cfg.Export.Dest = viper.GetString("export.dest")
	cfg.Export.Entities = entityList(viper.GetStringSlice("export.entities"))
	if cfg.Export.Encoding, err = types.ParseEncoding(viper.GetString("export.encoding"), types.EncodingUTF8); err != nil {
		return cfg, err
	}

	cfg.Workbook.Path = viper.GetString("workbook.path")
	if cfg.Workbook.Path == "" {
		return cfg, fmt.Errorf("workbook path is required: set --workbook or workbook.path")
	}
	return cfg, nil
}

// entityList splits comma-separated items. Values from the environment or
// a config string arrive whitespace-split only, so "pds,cgs" is one item.
func entityList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, name := range strings.Split(item, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
