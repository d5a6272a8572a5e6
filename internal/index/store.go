// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps extracted note records in a local SQLite staging
// database so the chunking stage can pick them up between runs. Ingest is
// incremental: a record whose content hash is unchanged is skipped.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/notes-ingest/pkg/types"
)

const dbFile = "notes.db"

// Store manages the staging database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates dir/notes.db and its schema.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			note_id TEXT NOT NULL,
			title TEXT,
			folder TEXT,
			text TEXT NOT NULL,
			metadata TEXT NOT NULL,
			modification_date TEXT,
			modified_at REAL,
			lossy INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_folder ON records(folder)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			id TEXT PRIMARY KEY REFERENCES records(id) ON DELETE CASCADE,
			content_hash TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	if err := s.addColumnIfMissing("records", "modified_at", "REAL"); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_records_modified_at ON records(modified_at)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// addColumnIfMissing upgrades stores created before column existed.
func (s *Store) addColumnIfMissing(table, column, decl string) error {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return fmt.Errorf("reading %s columns: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("reading %s columns: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading %s columns: %w", table, err)
	}
	rows.Close()

	if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl)); err != nil {
		return fmt.Errorf("adding %s.%s: %w", table, column, err)
	}
	return nil
}

// IngestSummary holds counts from one Ingest call.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest writes records into the store. Unchanged records are skipped;
// a failure on one record is reported to w and counted, and the
// remaining records are still processed.
func (s *Store) Ingest(ctx context.Context, records []types.Record, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		hash := contentHash(rec)

		var storedHash string
		err := s.db.QueryRowContext(ctx,
			`SELECT content_hash FROM indexing_status WHERE id = ?`, rec.ID,
		).Scan(&storedHash)

		if err == nil && storedHash == hash {
			summary.Skipped++
			continue
		}
		if err != nil && err != sql.ErrNoRows {
			fmt.Fprintf(w, "failed  %s: %v\n", rec.ID, err)
			summary.Failed++
			continue
		}

		isUpdate := err == nil
		if err := s.ingestRecord(ctx, rec, hash); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rec.ID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", rec.ID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", rec.ID)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestRecord(ctx context.Context, rec types.Record, hash string) error {
	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, note_id, title, folder, text, metadata, modification_date, modified_at, lossy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			note_id=excluded.note_id, title=excluded.title, folder=excluded.folder,
			text=excluded.text, metadata=excluded.metadata,
			modification_date=excluded.modification_date, modified_at=excluded.modified_at,
			lossy=excluded.lossy`,
		rec.ID, rec.Metadata[types.MetaNoteID], rec.Metadata[types.MetaTitle],
		nullIfEmpty(rec.Metadata[types.MetaFolder]), rec.Text, string(metaJSON),
		nullIfEmpty(rec.Metadata[types.MetaModificationDate]), unixSeconds(rec.ModifiedAt),
		rec.Lossy,
	)
	if err != nil {
		return fmt.Errorf("upserting record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (id, content_hash) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET content_hash=excluded.content_hash`,
		rec.ID, hash,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// Prune deletes every record whose id is not in keep and returns how
// many were removed. Call it only with the result of a complete
// extraction; a filtered or capped run would drop live notes.
func (s *Store) Prune(ctx context.Context, keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM records`)
	if err != nil {
		return 0, fmt.Errorf("listing records: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning record id: %w", err)
		}
		if !keepSet[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// contentHash fingerprints everything that is stored for a record.
// Metadata keys are sorted so map order does not matter.
func contentHash(rec types.Record) string {
	keys := make([]string, 0, len(rec.Metadata))
	for k := range rec.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%t\x00%v\x00", rec.ID, rec.Text, rec.Lossy, unixSeconds(rec.ModifiedAt))
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\x00", k, rec.Metadata[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// unixSeconds stores an instant as fractional Unix seconds, NULL when zero.
func unixSeconds(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func fromUnixSeconds(v sql.NullFloat64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	sec, frac := math.Modf(v.Float64)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
