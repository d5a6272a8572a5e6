// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notes-ingest/internal/notes"
	"github.com/pdiddy/notes-ingest/pkg/types"
)

// Config keys. The env form replaces dots with underscores, e.g.
// NOTES_INGEST_NOTES_DB_PATH.
const (
	keyDBPath         = "notes.db_path"
	keySearchPaths    = "notes.search_paths"
	keyMaxCount       = "notes.max_count"
	keyFolderFilter   = "notes.folder_filter"
	keyIncludeFolders = "notes.include_folders"
	keyIncludeDates   = "notes.include_dates"
	keyTimezone       = "notes.timezone"
	keyIndexDir       = "index.dir"
	keyIndexMax       = "index.max_results"
	keyExportFormat   = "export.format"
)

func setDefaults() {
	defaults := types.DefaultNotesConfig()
	viper.SetDefault(keyIncludeFolders, defaults.IncludeFolders)
	viper.SetDefault(keyIncludeDates, defaults.IncludeDates)
	viper.SetDefault(keyIndexDir, "notes-index")
	viper.SetDefault(keyIndexMax, 20)
	viper.SetDefault(keyExportFormat, string(types.FormatJSONL))

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// addNotesFlags registers the extraction flags shared by extract and index.
func addNotesFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", "", "path to the Notes database (auto-detected if empty)")
	cmd.Flags().Int("max-count", 0, "maximum number of notes to read, newest first (0 = all)")
	cmd.Flags().String("folder", "", "only read notes from folders whose name contains this string")
	cmd.Flags().Bool("include-folders", true, "include the folder name in record metadata")
	cmd.Flags().Bool("include-dates", true, "include creation and modification dates in record metadata")
	cmd.Flags().String("timezone", "", "IANA time zone for dates (default: local)")
}

// notesConfig merges config file, environment, and explicitly set flags.
// Flags win only when the user set them.
func notesConfig(cmd *cobra.Command) types.NotesConfig {
	cfg := types.NotesConfig{
		DBPath:         viper.GetString(keyDBPath),
		SearchPaths:    viper.GetStringSlice(keySearchPaths),
		MaxCount:       viper.GetInt(keyMaxCount),
		FolderFilter:   viper.GetString(keyFolderFilter),
		IncludeFolders: viper.GetBool(keyIncludeFolders),
		IncludeDates:   viper.GetBool(keyIncludeDates),
	}

	f := cmd.Flags()
	if f.Changed("db") {
		cfg.DBPath, _ = f.GetString("db")
	}
	if f.Changed("max-count") {
		cfg.MaxCount, _ = f.GetInt("max-count")
	}
	if f.Changed("folder") {
		cfg.FolderFilter, _ = f.GetString("folder")
	}
	if f.Changed("include-folders") {
		cfg.IncludeFolders, _ = f.GetBool("include-folders")
	}
	if f.Changed("include-dates") {
		cfg.IncludeDates, _ = f.GetBool("include-dates")
	}
	return cfg
}

// newReader builds a notes.Reader from the merged configuration.
func newReader(cmd *cobra.Command, cfg types.NotesConfig) (*notes.Reader, error) {
	tz := viper.GetString(keyTimezone)
	if cmd.Flags().Changed("timezone") {
		tz, _ = cmd.Flags().GetString("timezone")
	}

	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("loading time zone %q: %w", tz, err)
		}
		loc = l
	}

	return notes.NewReader(cfg,
		notes.WithLocation(loc),
		notes.WithLogger(slog.Default()),
	), nil
}

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	cfg := types.IndexConfig{
		Dir:        viper.GetString(keyIndexDir),
		MaxResults: viper.GetInt(keyIndexMax),
	}
	if cmd.Flags().Changed("index-dir") {
		cfg.Dir, _ = cmd.Flags().GetString("index-dir")
	}
	return cfg
}
