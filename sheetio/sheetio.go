// Package sheetio is the text I/O collaborator spec.md keeps out of the
// core: writing a sheet's printable region to a writer or a file, without
// the sheet package itself knowing anything about the filesystem.
package sheetio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-spreadsheet/core/sheet"
)

// WriteValues writes s's computed values to path, exactly as
// sheet.Sheet.PrintValues would to an io.Writer.
func WriteValues(s *sheet.Sheet, path string) error {
	return saveAtomic(path, s.PrintValues)
}

// WriteTexts writes s's stored cell text to path, exactly as
// sheet.Sheet.PrintTexts would to an io.Writer.
func WriteTexts(s *sheet.Sheet, path string) error {
	return saveAtomic(path, s.PrintTexts)
}

// saveAtomic writes through render to a temporary file in the destination
// directory, then renames it into place. A reader opening path never
// observes a partially written file, and a crash mid-write leaves the
// original file (if any) untouched.
func saveAtomic(path string, render func(out io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sheetio-*.tmp")
	if err != nil {
		return fmt.Errorf("sheetio: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if err := render(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("sheetio: writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sheetio: syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sheetio: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("sheetio: renaming into place: %w", err)
	}
	return nil
}
