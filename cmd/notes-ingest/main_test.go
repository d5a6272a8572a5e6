// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/notes-ingest/internal/notes"
)

func TestPrintSourceHint(t *testing.T) {
	statDenied := &fs.PathError{Op: "stat", Path: "/Users/x/NoteStore.sqlite", Err: fs.ErrPermission}

	tests := []struct {
		name     string
		err      error
		wantHint bool
		wantText string
	}{
		{"not found", fmt.Errorf("%w: /tmp/missing", notes.ErrSourceNotFound), true, "Notes app has been used"},
		{"permission denied", fmt.Errorf("%w: %w", notes.ErrDatabase, statDenied), true, "could not be read"},
		{"other database error", fmt.Errorf("%w: querying: %w", notes.ErrDatabase, errors.New("malformed")), false, ""},
		{"unrelated", errors.New("boom"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			got := printSourceHint(&buf, tt.err)
			assert.Equal(t, tt.wantHint, got)
			if !tt.wantHint {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.wantText)
			assert.Contains(t, buf.String(), "Full Disk Access")
			assert.Contains(t, buf.String(), "--db")
		})
	}
}
