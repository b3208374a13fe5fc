package harvest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var ErrMissingSnapshot = os.ErrNotExist

// SnapshotStore persists a normalized collection as a dated, named export.
// Writing the same label twice on the same day overwrites, a later day
// produces an additional file.
type SnapshotStore interface {
	Write(label string, date time.Time, v any) (path string, err error)
	Read(label string, date time.Time, out any) error
	// Path reports where a snapshot for the label and date lives,
	// whether or not it has been written yet.
	Path(label string, date time.Time) string
}

func snapshotName(label string, date time.Time) string {
	return fmt.Sprintf("%s_%s.json", label, date.Format("2006-01-02"))
}

// DirSnapshotStore keeps snapshots as indented JSON files in a single
// directory.
type DirSnapshotStore struct {
	Dir string
}

func NewDirSnapshotStore(dir string) (DirSnapshotStore, error) {
	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return DirSnapshotStore{}, err
	}
	return DirSnapshotStore{Dir: dir}, nil
}

func (s DirSnapshotStore) Path(label string, date time.Time) string {
	return filepath.Join(s.Dir, snapshotName(label, date))
}

func (s DirSnapshotStore) Write(label string, date time.Time, v any) (string, error) {
	contents, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}

	path := s.Path(label, date)
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s DirSnapshotStore) Read(label string, date time.Time, out any) error {
	contents, err := os.ReadFile(s.Path(label, date))
	if err != nil {
		return err
	}
	return json.Unmarshal(contents, out)
}

// MemSnapshotStore is an in-memory SnapshotStore for tests.
type MemSnapshotStore struct {
	files map[string][]byte
}

func NewMemSnapshotStore() *MemSnapshotStore {
	return &MemSnapshotStore{files: map[string][]byte{}}
}

func (s *MemSnapshotStore) Path(label string, date time.Time) string {
	return snapshotName(label, date)
}

func (s *MemSnapshotStore) Write(label string, date time.Time, v any) (string, error) {
	contents, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	path := s.Path(label, date)
	s.files[path] = contents
	return path, nil
}

func (s *MemSnapshotStore) Read(label string, date time.Time, out any) error {
	contents, ok := s.files[s.Path(label, date)]
	if !ok {
		return fmt.Errorf("snapshot %q: %w", s.Path(label, date), ErrMissingSnapshot)
	}
	return json.Unmarshal(contents, out)
}
