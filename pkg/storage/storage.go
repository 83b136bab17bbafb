// Package storage persists the roster snapshot. The layout is a single
// JSON document under one fixed key, fully overwritten on every
// mutation — the Go stand-in for the browser local-storage slot the
// roster originally lived in.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/streetfamily/roster/pkg/models"
)

// File persists the snapshot as a JSON file in a data directory.
type File struct {
	path string
}

// NewFile builds a file persister rooted at dir; the file name is the
// fixed snapshot key.
func NewFile(dir string) *File {
	return &File{path: filepath.Join(dir, models.SnapshotKey+".json")}
}

// Path returns the snapshot file location.
func (f *File) Path() string {
	return f.path
}

// Save overwrites the snapshot atomically (write temp, rename).
func (f *File) Save(snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot back; the second return is false when none
// has been written yet.
func (f *File) Load() (models.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Memory keeps the snapshot in process memory: used by tests and by
// one-shot CLI runs that must not touch the data dir.
type Memory struct {
	snap models.Snapshot
	set  bool
}

// NewMemory returns an empty in-memory persister.
func NewMemory() *Memory {
	return &Memory{}
}

// Save keeps the snapshot in memory.
func (m *Memory) Save(snap models.Snapshot) error {
	m.snap = snap
	m.set = true
	return nil
}

// Load returns the last saved snapshot, if any.
func (m *Memory) Load() (models.Snapshot, bool, error) {
	return m.snap, m.set, nil
}
