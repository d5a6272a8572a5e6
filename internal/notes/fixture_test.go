// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

// Folder primary keys created by newFixture.
const (
	folderWork         = 1
	folderPersonalWork = 2
	folderHome         = 3
	folderLowerWork    = 4
	folderUntitled     = 5
)

// fixtureNote describes one note row. nil fields are stored as NULL.
type fixtureNote struct {
	id       int64
	title    any
	snippet  any
	created  any
	modified any
	deleted  any
	folder   any
	body     any
}

// newFixture creates a notes database with the vendor tables and a fixed
// set of folders. It returns the open handle and the file path.
func newFixture(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "NoteStore.sqlite")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	statements := []string{
		`CREATE TABLE ZICFOLDER (Z_PK INTEGER PRIMARY KEY, ZTITLE VARCHAR)`,
		`CREATE TABLE ZICNOTEDATA (
			Z_PK INTEGER PRIMARY KEY,
			ZTITLE VARCHAR,
			ZSNIPPET VARCHAR,
			ZCREATIONDATE TIMESTAMP,
			ZMODIFICATIONDATE TIMESTAMP,
			ZMARKEDFORDELETION INTEGER,
			ZFOLDER INTEGER
		)`,
		`CREATE TABLE ZICNOTEBODY (Z_PK INTEGER PRIMARY KEY, ZNOTE INTEGER, ZDATA BLOB)`,
		`INSERT INTO ZICFOLDER (Z_PK, ZTITLE) VALUES
			(1, 'Work'), (2, 'Personal Work'), (3, 'Home'), (4, 'work'), (5, NULL)`,
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db, path
}

func addNotes(t *testing.T, db *sql.DB, notes ...fixtureNote) {
	t.Helper()
	for _, n := range notes {
		deleted := n.deleted
		if deleted == nil {
			deleted = 0
		}
		_, err := db.Exec(
			`INSERT INTO ZICNOTEDATA (Z_PK, ZTITLE, ZSNIPPET, ZCREATIONDATE, ZMODIFICATIONDATE, ZMARKEDFORDELETION, ZFOLDER)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.id, n.title, n.snippet, n.created, n.modified, deleted, n.folder,
		)
		require.NoError(t, err)
		if n.body != nil {
			addBody(t, db, n.id, n.body)
		}
	}
}

func addBody(t *testing.T, db *sql.DB, noteID int64, body any) {
	t.Helper()
	if s, ok := body.(string); ok {
		body = []byte(s)
	}
	_, err := db.Exec(`INSERT INTO ZICNOTEBODY (ZNOTE, ZDATA) VALUES (?, ?)`, noteID, body)
	require.NoError(t, err)
}

// compressedNote builds a gzipped note document holding text.
func compressedNote(t *testing.T, text string) []byte {
	t.Helper()

	var note []byte
	note = protowire.AppendTag(note, 1, protowire.VarintType)
	note = protowire.AppendVarint(note, 7)
	note = protowire.AppendTag(note, fieldNoteText, protowire.BytesType)
	note = protowire.AppendString(note, text)

	var document []byte
	document = protowire.AppendTag(document, 1, protowire.VarintType)
	document = protowire.AppendVarint(document, 0)
	document = protowire.AppendTag(document, fieldNote, protowire.BytesType)
	document = protowire.AppendBytes(document, note)

	var root []byte
	root = protowire.AppendTag(root, fieldDocument, protowire.BytesType)
	root = protowire.AppendBytes(root, document)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(root)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
