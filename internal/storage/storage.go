// Package storage keeps the persistent employee roster on disk: one
// well-known file under the data directory, with a backup of the previous
// version kept next to it.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned for roster uploads that are neither .xlsx
// nor .csv.
var ErrUnsupportedFile = errors.New("unsupported roster file type")

const rosterBaseName = "employees"

var rosterExtensions = []string{".xlsx", ".csv"}

type Store struct {
	dir string
}

func New(dataDir string) *Store {
	return &Store{dir: filepath.Join(dataDir, "input")}
}

// RosterPath returns the current roster file, if one has been uploaded.
func (s *Store) RosterPath() (string, bool) {
	for _, ext := range rosterExtensions {
		path := filepath.Join(s.dir, rosterBaseName+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// RosterInfo stats the current roster file.
func (s *Store) RosterInfo() (os.FileInfo, error) {
	path, ok := s.RosterPath()
	if !ok {
		return nil, os.ErrNotExist
	}
	return os.Stat(path)
}

// ReplaceRoster swaps in a new roster, backing up the previous file of the
// same type and removing any roster of the other type. The write goes
// through a temp file and rename so a failed upload never corrupts the
// current roster.
func (s *Store) ReplaceRoster(r io.Reader, fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".xlsx" && ext != ".csv" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, fileName)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	target := filepath.Join(s.dir, rosterBaseName+ext)
	if _, err := os.Stat(target); err == nil {
		if err := copyFile(target, target+".backup"); err != nil {
			return fmt.Errorf("backup roster: %w", err)
		}
	}

	tmp, err := os.CreateTemp(s.dir, rosterBaseName+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write roster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return err
	}

	// Only one roster may be current at a time.
	for _, other := range rosterExtensions {
		if other == ext {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, rosterBaseName+other))
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
