// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/notes-ingest/pkg/types"
)

// QueryOptions holds parameters for Search.
type QueryOptions struct {
	// Query is matched case-insensitively as a substring of the record text.
	Query string

	// Folder keeps only records from this folder (exact match).
	Folder string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search term or filter.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Folder == ""
}

// Search returns stored records matching opts, newest modification first.
// Records without a modification instant sort last.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]types.Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, text, metadata, lossy, modified_at FROM records WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND instr(lower(text), lower(?)) > 0`)
		args = append(args, opts.Query)
	}
	if opts.Folder != "" {
		qb.WriteString(` AND folder = ?`)
		args = append(args, opts.Folder)
	}

	qb.WriteString(` ORDER BY modified_at IS NULL, modified_at DESC, id`)
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []types.Record
	for rows.Next() {
		var (
			rec      types.Record
			metaJSON string
			modified sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &metaJSON, &rec.Lossy, &modified); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %s: %w", rec.ID, err)
		}
		rec.ModifiedAt = fromUnixSeconds(modified)
		results = append(results, rec)
	}

	return results, rows.Err()
}
