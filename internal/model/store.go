package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store resolves model identifiers against a filesystem artifact directory.
type Store struct {
	dir      string
	suffixes []string
}

// NewStore creates a Store over a directory, listing files whose names end in
// one of the given suffixes.
func NewStore(dir string, suffixes []string) *Store {
	return &Store{dir: dir, suffixes: suffixes}
}

// Resolve turns a client-supplied model path into a filesystem path. Relative
// paths resolve against the artifact directory; absolute paths pass through.
func (s *Store) Resolve(modelPath string) string {
	if filepath.IsAbs(modelPath) {
		return filepath.Clean(modelPath)
	}
	return filepath.Join(s.dir, filepath.Clean(modelPath))
}

// Exists reports whether the artifact file is present and a regular file.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// List enumerates artifact filenames in the directory, sorted. The directory
// is re-read on every call so new artifacts appear without a restart.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, suffix := range s.suffixes {
			if strings.HasSuffix(e.Name(), suffix) {
				names = append(names, e.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// CheckAccessible returns nil when the artifact directory can be read.
func (s *Store) CheckAccessible() error {
	if _, err := os.ReadDir(s.dir); err != nil {
		return fmt.Errorf("models directory: %w", err)
	}
	return nil
}
