// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notes-ingest/internal/export"
	"github.com/pdiddy/notes-ingest/internal/notes"
	"github.com/pdiddy/notes-ingest/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract notes and write them as records",
	Long: `Extract reads the Notes database, cleans each note body into plain text,
and writes one record per note. Notes without any text are skipped.

Output goes to stdout unless --output is given. The format defaults to
JSON Lines; --format or the output file extension selects yaml or json.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := notesConfig(cmd)
	res, err := loadNotes(cmd, cfg)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	format, err := exportFormat(cmd, output)
	if err != nil {
		return err
	}

	if output == "" {
		return export.Write(os.Stdout, res.Records, format)
	}
	if err := export.WriteFile(output, res.Records, format); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(res.Records), output)
	return nil
}

// loadNotes runs one extraction and prints its summary to stderr.
func loadNotes(cmd *cobra.Command, cfg types.NotesConfig) (*notes.Result, error) {
	reader, err := newReader(cmd, cfg)
	if err != nil {
		return nil, err
	}

	res, err := reader.Load(context.Background(), cfg.DBPath, notes.LoadOptions{
		MaxCount:     cfg.MaxCount,
		FolderFilter: cfg.FolderFilter,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Read %d notes from %s: %d records, %d empty, %d unreadable bodies\n",
		res.Rows, res.Path, len(res.Records), res.Skipped, len(res.Problems))
	if len(res.Records) == 0 && cfg.FolderFilter != "" {
		fmt.Fprintf(os.Stderr, "No notes matched folder filter %q\n", cfg.FolderFilter)
	}
	return res, nil
}

func exportFormat(cmd *cobra.Command, output string) (types.ExportFormat, error) {
	if cmd.Flags().Changed("format") {
		name, _ := cmd.Flags().GetString("format")
		return export.ParseFormat(name)
	}
	if output != "" {
		return export.FormatFromPath(output), nil
	}
	return export.ParseFormat(viper.GetString(keyExportFormat))
}

func init() {
	addNotesFlags(extractCmd)
	extractCmd.Flags().String("format", "jsonl", "output format: yaml, json, or jsonl")
	extractCmd.Flags().StringP("output", "o", "", "write records to this file instead of stdout")

	rootCmd.AddCommand(extractCmd)
}
