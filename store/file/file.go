package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/smallnest/graphwalk/store"
)

const ext = ".json"

// FileRunStore keeps one JSON file per run record in a directory
type FileRunStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileRunStore creates a file store rooted at path, creating the directory if needed
func NewFileRunStore(path string) (store.RunStore, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run store directory: %w", err)
	}
	return &FileRunStore{path: path}, nil
}

func (s *FileRunStore) filename(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid run record ID %q", id)
	}
	return filepath.Join(s.path, id+ext), nil
}

// Save writes the record to <dir>/<id>.json
func (s *FileRunStore) Save(_ context.Context, record *store.RunRecord) error {
	if record == nil {
		return fmt.Errorf("run record must not be nil")
	}
	name, err := s.filename(record.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// Load reads a record by ID
func (s *FileRunStore) Load(_ context.Context, id string) (*store.RunRecord, error) {
	name, err := s.filename(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return readRecord(name, id)
}

// List returns all records of a session, oldest first
func (s *FileRunStore) List(_ context.Context, sessionID string) ([]*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.scan(func(rec *store.RunRecord) bool { return rec.SessionID == sessionID })
	if err != nil {
		return nil, err
	}
	store.SortByTimestamp(records)
	return records, nil
}

// Delete removes a record file
func (s *FileRunStore) Delete(_ context.Context, id string) error {
	name, err := s.filename(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all record files of a session
func (s *FileRunStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.scan(func(rec *store.RunRecord) bool { return rec.SessionID == sessionID })
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := os.Remove(filepath.Join(s.path, rec.ID+ext)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to clear run record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func (s *FileRunStore) scan(keep func(*store.RunRecord) bool) ([]*store.RunRecord, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run store directory: %w", err)
	}

	records := []*store.RunRecord{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		rec, err := readRecord(filepath.Join(s.path, e.Name()), id)
		if err != nil {
			// Skip files that are not run records.
			continue
		}
		if keep(rec) {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readRecord(name, id string) (*store.RunRecord, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var rec store.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record %s: %w", id, err)
	}
	return &rec, nil
}
