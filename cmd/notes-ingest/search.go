// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notes-ingest/internal/index"
	"github.com/pdiddy/notes-ingest/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search records in the local staging index",
	Long: `Search looks up records stored by "index". The query is matched as a
case-insensitive substring of the note text; --folder restricts results to
one folder. Results are ordered newest modification first.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	folder, _ := cmd.Flags().GetString("folder")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := index.QueryOptions{
		Query:      strings.Join(args, " "),
		Folder:     folder,
		MaxResults: limit,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --folder")
	}

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []types.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-10s  %-30s  %-15s  %s\n",
		"Rank", "ID", "Title", "Folder", "Modified")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 85))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-10s  %-30s  %-15s  %s\n",
			i+1, r.ID,
			truncate(r.Metadata[types.MetaTitle], 30),
			truncate(r.Metadata[types.MetaFolder], 15),
			r.Metadata[types.MetaModificationDate])
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	searchCmd.Flags().String("index-dir", "notes-index", "directory holding the staging database")
	searchCmd.Flags().String("folder", "", "only return records from this folder")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
