// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultSearchPaths returns the locations where the Notes app keeps its
// database under home, in the order they should be tried. Only macOS has
// known locations; other platforms return nil.
func DefaultSearchPaths(home string) []string {
	if runtime.GOOS != "darwin" || home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, "Library", "Group Containers", "group.com.apple.notes", "NoteStore.sqlite"),
		filepath.Join(home, "Library", "Containers", "com.apple.Notes", "Data", "Library", "Notes", "NotesV7.storedata"),
		filepath.Join(home, "Library", "Group Containers", "group.com.apple.notes", "NotesV1.storedata"),
	}
}

// FindDatabase returns the first path in paths that exists as a regular
// file.
func FindDatabase(paths []string) (string, error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w: no default locations on %s", ErrSourceNotFound, runtime.GOOS)
	}
	return "", fmt.Errorf("%w: tried %d default locations", ErrSourceNotFound, len(paths))
}

// checkSource verifies that an explicitly supplied path exists.
func checkSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}
	return nil
}
