// Package vault reads note names from, and writes notes into, a vault
// directory.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/bibnote/internal/naming"
	"github.com/matsen/bibnote/internal/note"
)

// ErrNoteExists is returned by Write when the target file already exists.
var ErrNoteExists = errors.New("note already exists")

// Index returns the slugs of the notes directly inside dir: every regular
// file with the note extension, minus that extension. A missing directory
// yields an empty set.
func Index(dir string) (naming.Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return naming.NewSet(), nil
		}
		return nil, fmt.Errorf("reading vault: %w", err)
	}

	slugs := naming.NewSet()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != note.Extension {
			continue
		}
		slugs.Add(strings.TrimSuffix(name, note.Extension))
	}
	return slugs, nil
}

// Write stores n in dir and returns the file path. It refuses to replace an
// existing file unless overwrite is set.
func Write(dir string, n note.Note, overwrite bool) (string, error) {
	if n.Filename == "" {
		return "", fmt.Errorf("note has no filename")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating vault directory: %w", err)
	}

	path := filepath.Join(dir, n.Filename)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoteExists, path)
		}
		return "", fmt.Errorf("opening note: %w", err)
	}

	if _, err := f.WriteString(n.Body()); err != nil {
		f.Close()
		return "", fmt.Errorf("writing note: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing note: %w", err)
	}
	return path, nil
}
