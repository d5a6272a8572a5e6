// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes reads the Notes app SQLite database and turns each note
// into a types.Record ready for chunking and embedding.
//
// The database schema is owned by the vendor. Only three tables are read:
// ZICNOTEDATA (note metadata), ZICNOTEBODY (note body) and ZICFOLDER.
// The file is always opened read-only.
package notes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/notes-ingest/pkg/types"
)

const (
	idPrefix      = "note_"
	sourceName    = "Apple Notes"
	defaultFolder = "Notes"
)

// The date columns are declared TIMESTAMP but hold seconds since 2001.
// The casts keep the driver from turning whole-second values into
// time.Time as if they were Unix times.
//
// The body is a subquery rather than a join so that a note with several
// body rows is still one row, and LIMIT counts notes.
const baseQuery = `SELECT
	n.Z_PK, n.ZTITLE, n.ZSNIPPET,
	CAST(n.ZCREATIONDATE AS REAL), CAST(n.ZMODIFICATIONDATE AS REAL),
	(SELECT nb.ZDATA FROM ZICNOTEBODY nb WHERE nb.ZNOTE = n.Z_PK ORDER BY nb.Z_PK LIMIT 1),
	f.ZTITLE
FROM ZICNOTEDATA n
LEFT JOIN ZICFOLDER f ON n.ZFOLDER = f.Z_PK
WHERE COALESCE(n.ZMARKEDFORDELETION, 0) = 0`

// Reader extracts records from a notes database. A Reader holds only
// settings; every Load call is independent.
type Reader struct {
	includeFolders bool
	includeDates   bool
	searchPaths    []string
	loc            *time.Location
	logger         *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for row-level warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLocation sets the time zone used to render timestamps.
func WithLocation(loc *time.Location) Option {
	return func(r *Reader) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewReader creates a Reader from cfg. When cfg.SearchPaths is empty the
// platform defaults under the user's home directory are used.
func NewReader(cfg types.NotesConfig, opts ...Option) *Reader {
	searchPaths := cfg.SearchPaths
	if len(searchPaths) == 0 {
		home, _ := os.UserHomeDir()
		searchPaths = DefaultSearchPaths(home)
	}

	r := &Reader{
		includeFolders: cfg.IncludeFolders,
		includeDates:   cfg.IncludeDates,
		searchPaths:    searchPaths,
		loc:            time.Local,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadOptions narrows a single Load call.
type LoadOptions struct {
	// MaxCount caps the number of notes read. Zero or negative reads all.
	MaxCount int

	// FolderFilter keeps notes whose folder title contains this substring.
	FolderFilter string
}

// Result is the outcome of one Load call.
type Result struct {
	// Path is the database file that was read.
	Path string

	// Records holds one record per note with text, newest modification first.
	Records []types.Record

	// Rows is the number of notes returned by the query.
	Rows int

	// Skipped counts notes that had neither body text nor a snippet.
	Skipped int

	// Problems holds row-level failures. Each wraps ErrProcessing and
	// names the note; the affected note fell back to its snippet.
	Problems []error
}

// Locate resolves the database path: dbPath when given, otherwise the
// first existing search path.
func (r *Reader) Locate(dbPath string) (string, error) {
	if dbPath == "" {
		return FindDatabase(r.searchPaths)
	}
	if err := checkSource(dbPath); err != nil {
		return "", err
	}
	return dbPath, nil
}

// Load reads notes from the database at dbPath (auto-detected when empty)
// and returns the normalized records. It fails with ErrSourceNotFound when
// there is no database and with ErrDatabase when SQLite reports an error.
// Failures confined to one note never abort the run.
func (r *Reader) Load(ctx context.Context, dbPath string, opts LoadOptions) (*Result, error) {
	path, err := r.Locate(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query, args := buildQuery(opts)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: querying %s: %w", ErrDatabase, path, err)
	}
	defer rows.Close()

	res := &Result{Path: path}

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var row sourceRow
		if err := rows.Scan(
			&row.id, &row.title, &row.snippet, &row.created, &row.modified,
			&row.body, &row.folder,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %w", ErrDatabase, err)
		}
		res.Rows++

		rec, ok, problem := r.buildRecord(row)
		if problem != nil {
			r.logger.Warn("note body unreadable, using snippet", "note_id", row.id, "error", problem)
			res.Problems = append(res.Problems, problem)
		}
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading rows: %w", ErrDatabase, err)
	}

	r.logger.Debug("notes loaded",
		"path", path, "rows", res.Rows, "records", len(res.Records),
		"skipped", res.Skipped, "problems", len(res.Problems))

	return res, nil
}

// sourceRow is one row of the notes query.
type sourceRow struct {
	id       int64
	title    sql.NullString
	snippet  sql.NullString
	created  sql.NullFloat64
	modified sql.NullFloat64
	body     []byte
	folder   sql.NullString
}

func buildQuery(opts LoadOptions) (string, []any) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(baseQuery)

	if opts.FolderFilter != "" {
		qb.WriteString(` AND instr(f.ZTITLE, ?) > 0`)
		args = append(args, opts.FolderFilter)
	}

	qb.WriteString(` ORDER BY n.ZMODIFICATIONDATE DESC`)

	if opts.MaxCount > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, opts.MaxCount)
	}
	return qb.String(), args
}

// buildRecord applies the per-note transform. ok is false when the note
// has no text at all. problem is non-nil when the body could not be
// decoded; the record, if any, then carries the snippet.
func (r *Reader) buildRecord(row sourceRow) (rec types.Record, ok bool, problem error) {
	noteID := strconv.FormatInt(row.id, 10)

	title := row.title.String
	if title == "" {
		title = "Note " + noteID
	}
	snippet := row.snippet.String

	content, err := decodeBody(row.body)
	lossy := false
	if err != nil {
		problem = fmt.Errorf("%w: note %s: %w", ErrProcessing, noteID, err)
		content = snippet
		lossy = true
	}
	if content == "" {
		content = snippet
	}
	if content == "" {
		return types.Record{}, false, problem
	}

	meta := map[string]string{
		types.MetaNoteID: noteID,
		types.MetaTitle:  title,
		types.MetaSource: sourceName,
	}
	if r.includeFolders {
		folder := row.folder.String
		if folder == "" {
			folder = defaultFolder
		}
		meta[types.MetaFolder] = folder
	}
	if r.includeDates {
		meta[types.MetaCreationDate] = FormatTimestamp(row.created, r.loc)
		meta[types.MetaModificationDate] = FormatTimestamp(row.modified, r.loc)
	}

	rec = types.Record{
		ID:       idPrefix + noteID,
		Text:     "Title: " + title + "\n\n" + content,
		Metadata: meta,
		Lossy:    lossy,
	}
	if row.modified.Valid {
		if t, valid := referenceTime(row.modified.Float64); valid {
			rec.ModifiedAt = t
		}
	}
	return rec, true, problem
}

// NoteID returns the source note id encoded in a record id.
func NoteID(recordID string) (int64, error) {
	s, found := strings.CutPrefix(recordID, idPrefix)
	if !found {
		return 0, fmt.Errorf("record id %q has no %q prefix", recordID, idPrefix)
	}
	return strconv.ParseInt(s, 10, 64)
}

// openReadOnly opens path through a SQLite URI with mode=ro so the
// database is never written, not even to create a missing file.
func openReadOnly(path string) (*sql.DB, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %w", ErrProcessing, path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	dsn := (&url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}).String()

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrDatabase, path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
