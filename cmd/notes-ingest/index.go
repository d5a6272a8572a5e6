// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notes-ingest/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Extract notes into the local staging index",
	Long: `Index extracts notes and stores the records in a SQLite staging database
(<index-dir>/notes.db). Unchanged notes are skipped on later runs.

When neither --max-count nor --folder is set the run sees every note, so
records of notes that no longer exist are removed from the index.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := notesConfig(cmd)
	res, err := loadNotes(cmd, cfg)
	if err != nil {
		return err
	}

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	summary, err := store.Ingest(ctx, res.Records, os.Stdout)
	if err != nil {
		return err
	}

	if cfg.MaxCount <= 0 && cfg.FolderFilter == "" {
		ids := make([]string, len(res.Records))
		for i, r := range res.Records {
			ids[i] = r.ID
		}
		removed, err := store.Prune(ctx, ids)
		if err != nil {
			return err
		}
		if removed > 0 {
			fmt.Fprintf(os.Stdout, "pruned: %d\n", removed)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

func init() {
	addNotesFlags(indexCmd)
	indexCmd.Flags().String("index-dir", "notes-index", "directory holding the staging database")

	rootCmd.AddCommand(indexCmd)
}
