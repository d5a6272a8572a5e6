// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notes-ingest CLI.
// It extracts notes from the Notes app database, exports them for the
// chunking stage, and keeps a local staging index of extracted records.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notes-ingest/internal/notes"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// rootCmd is the base command for the notes-ingest CLI.
var rootCmd = &cobra.Command{
	Use:   "notes-ingest",
	Short: "Extract Apple Notes into records for a retrieval pipeline",
	Long: `notes-ingest reads the local Apple Notes database (read-only), cleans
note bodies into plain text, and emits one record per note with title,
folder, and timestamp metadata.

Records can be written as YAML, JSON, or JSON Lines for a chunking stage,
or staged in a local SQLite index that is updated incrementally.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notes-ingest.yaml or ~/.config/notes-ingest/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notes-ingest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notes-ingest"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("NOTES_INGEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// printSourceHint explains how to grant access to the notes database when
// err shows it was missing or unreadable. macOS reports a permission
// error, not a missing file, when the terminal lacks Full Disk Access.
func printSourceHint(w io.Writer, err error) bool {
	switch {
	case errors.Is(err, notes.ErrSourceNotFound):
		fmt.Fprintln(w, "Make sure you are on macOS and the Notes app has been used.")
	case errors.Is(err, fs.ErrPermission):
		fmt.Fprintln(w, "The notes database exists but could not be read.")
	default:
		return false
	}
	fmt.Fprintln(w, "Your terminal may need Full Disk Access (System Settings > Privacy & Security).")
	fmt.Fprintln(w, "You can also point to the database with --db.")
	return true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printSourceHint(os.Stderr, err)
		os.Exit(1)
	}
}
