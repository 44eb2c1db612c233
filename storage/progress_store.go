package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"supportbot/models"
)

// ProgressStore persists the progression table as a single JSON object keyed
// by user ID. The file is also read directly by the external stats surface,
// so the layout is part of the contract.
type ProgressStore struct {
	path string
}

// NewProgressStore creates a store over the given file path.
func NewProgressStore(path string) *ProgressStore {
	return &ProgressStore{path: path}
}

// Load reads the progression table. A missing file is not an error and
// yields an empty table; an unreadable or malformed file is.
func (s *ProgressStore) Load() (map[string]*models.UserProgress, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]*models.UserProgress), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading progression file %s: %w", s.path, err)
	}

	table := make(map[string]*models.UserProgress)
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing progression file %s: %w", s.path, err)
	}
	return table, nil
}

// Save writes the whole table, going through a temp file in the same
// directory so a crash mid-write never leaves a truncated table behind.
func (s *ProgressStore) Save(table map[string]*models.UserProgress) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding progression table: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".progress-*")
	if err != nil {
		return fmt.Errorf("creating temp progression file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progression file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing progression file: %w", err)
	}
	// CreateTemp makes the file 0600; the stats surface reads it directly.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("setting progression file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing progression file: %w", err)
	}
	return nil
}
