// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notes-ingest/pkg/types"
)

func sampleRecords() []types.Record {
	return []types.Record{
		{
			ID:   "note_2",
			Text: "Title: Trip\n\nPassport\n\nTickets",
			Metadata: map[string]string{
				"note_id": "2", "title": "Trip", "source": "Apple Notes", "folder": "Travel",
			},
		},
		{
			ID:       "note_1",
			Text:     "Title: Note 1\n\npreview",
			Metadata: map[string]string{"note_id": "1", "title": "Note 1", "source": "Apple Notes"},
			Lossy:    true,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    types.ExportFormat
		wantErr bool
	}{
		{"", types.FormatJSONL, false},
		{"yaml", types.FormatYAML, false},
		{"json", types.FormatJSON, false},
		{"jsonl", types.FormatJSONL, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRecords(), types.FormatJSONL); err != nil {
		t.Fatal(err)
	}

	var got []types.Record
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var r types.Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].ID != "note_2" || got[1].ID != "note_1" {
		t.Errorf("order = %s, %s; want note_2, note_1", got[0].ID, got[1].ID)
	}
	if !got[1].Lossy || got[0].Lossy {
		t.Errorf("lossy flags not preserved: %+v", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRecords(), types.FormatJSON); err != nil {
		t.Fatal(err)
	}
	var got []types.Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got[0].Metadata["folder"] != "Travel" {
		t.Errorf("folder = %q, want Travel", got[0].Metadata["folder"])
	}
	if strings.Contains(buf.String(), `"lossy": false`) {
		t.Error("lossy should be omitted when false")
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRecords(), types.FormatYAML); err != nil {
		t.Fatal(err)
	}
	var got []types.Record
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Text != "Title: Trip\n\nPassport\n\nTickets" {
		t.Errorf("unexpected YAML round trip: %+v", got)
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, types.FormatJSON); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty JSON export = %q, want []", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sampleRecords(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "notes.yaml")
	if err := WriteFile(path, sampleRecords(), FormatFromPath(path)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "id: note_2") {
		t.Errorf("YAML output missing record id:\n%s", data)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]types.ExportFormat{
		"a.yaml":  types.FormatYAML,
		"a.yml":   types.FormatYAML,
		"a.json":  types.FormatJSON,
		"a.jsonl": types.FormatJSONL,
		"a":       types.FormatJSONL,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
