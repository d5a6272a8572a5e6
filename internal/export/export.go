// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes extracted records for the chunking stage.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notes-ingest/pkg/types"
)

// ParseFormat validates a format name. An empty name selects JSON Lines.
func ParseFormat(name string) (types.ExportFormat, error) {
	switch f := types.ExportFormat(name); f {
	case "":
		return types.FormatJSONL, nil
	case types.FormatYAML, types.FormatJSON, types.FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use yaml, json, or jsonl", name)
	}
}

// Write encodes records to w in the given format. A nil slice is written
// as an empty list, so downstream readers always get a valid document.
func Write(w io.Writer, records []types.Record, format types.ExportFormat) error {
	if records == nil {
		records = []types.Record{}
	}

	switch format {
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	case types.FormatJSONL, "":
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("marshaling record %s: %w", r.ID, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile writes records to path, creating parent directories.
func WriteFile(path string, records []types.Record, format types.ExportFormat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Write(f, records, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatFromPath guesses the format from a file extension, falling back
// to JSON Lines.
func FormatFromPath(path string) types.ExportFormat {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return types.FormatYAML
	case ".json":
		return types.FormatJSON
	default:
		return types.FormatJSONL
	}
}
