// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import "errors"

// Error classes returned by the reader. Callers match them with errors.Is.
var (
	// ErrSourceNotFound means no notes database exists at the given or
	// auto-detected location.
	ErrSourceNotFound = errors.New("notes database not found")

	// ErrDatabase wraps failures reported by the storage layer: opening
	// the file, running the query, or reading rows.
	ErrDatabase = errors.New("notes database access error")

	// ErrProcessing wraps any other failure. Row-level problems carry it
	// too; those are collected in Result.Problems instead of aborting.
	ErrProcessing = errors.New("notes processing error")
)
