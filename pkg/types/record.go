// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Metadata keys set on every Record.
const (
	MetaNoteID           = "note_id"
	MetaTitle            = "title"
	MetaSource           = "source"
	MetaFolder           = "folder"
	MetaCreationDate     = "creation_date"
	MetaModificationDate = "modification_date"
)

// Record is one extracted note, normalized for the chunking stage.
// A Record is built once per source row and never modified afterwards.
type Record struct {
	// ID is "note_" followed by the source note primary key.
	ID string `json:"id" yaml:"id"`

	// Text is "Title: <title>\n\n<content>". Never empty.
	Text string `json:"text" yaml:"text"`

	// Metadata always carries note_id, title and source. folder,
	// creation_date and modification_date depend on the reader settings.
	Metadata map[string]string `json:"metadata" yaml:"metadata"`

	// Lossy is set when the note body could not be decoded and the
	// preview snippet was used instead.
	Lossy bool `json:"lossy,omitempty" yaml:"lossy,omitempty"`

	// ModifiedAt is the note's modification instant, zero when unknown.
	// It orders records in the staging index; exports carry the rendered
	// modification_date instead.
	ModifiedAt time.Time `json:"-" yaml:"-"`
}
