// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NotesConfig holds settings for reading the notes database.
type NotesConfig struct {
	// DBPath overrides database auto-detection when set.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`

	// SearchPaths replaces the built-in candidate locations used when
	// DBPath is empty. Tried in order; the first existing file wins.
	SearchPaths []string `json:"search_paths,omitempty" yaml:"search_paths,omitempty"`

	// MaxCount caps the number of notes read. Zero or negative means no cap.
	MaxCount int `json:"max_count" yaml:"max_count"`

	// FolderFilter keeps only notes whose folder title contains this
	// substring (case-sensitive).
	FolderFilter string `json:"folder_filter,omitempty" yaml:"folder_filter,omitempty"`

	// IncludeFolders adds the folder name to record metadata.
	IncludeFolders bool `json:"include_folders" yaml:"include_folders"`

	// IncludeDates adds creation_date and modification_date to record metadata.
	IncludeDates bool `json:"include_dates" yaml:"include_dates"`
}

// DefaultNotesConfig returns the settings used when nothing is configured.
func DefaultNotesConfig() NotesConfig {
	return NotesConfig{
		IncludeFolders: true,
		IncludeDates:   true,
	}
}

// ExportFormat selects the serialization used for extracted records.
type ExportFormat string

const (
	FormatYAML  ExportFormat = "yaml"
	FormatJSON  ExportFormat = "json"
	FormatJSONL ExportFormat = "jsonl"
)

// IndexConfig holds settings for the local staging index.
type IndexConfig struct {
	// Dir is the directory that holds notes.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
