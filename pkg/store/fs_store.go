package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// FSStore keeps one JSON file per approved mission under rootDir. Writes go
// through write-then-rename so a crash can never leave a partial mission file
// observable.
type FSStore struct {
	rootDir string
	mu      sync.RWMutex
}

func NewFSStore(rootDir string) *FSStore {
	return &FSStore{rootDir: rootDir}
}

func (s *FSStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.rootDir, 0755); err != nil {
		return fmt.Errorf("failed to create mission directory %s: %w", s.rootDir, err)
	}
	return nil
}

func (s *FSStore) Close() error { return nil }

func (s *FSStore) SaveMission(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mission record: %w", err)
	}
	return s.atomicWrite(filepath.Join(s.rootDir, rec.ID+".json"), data)
}

func (s *FSStore) atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Sync before rename so the rename publishes complete content.
	f, err := os.Open(tmpPath)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	f.Close()

	return os.Rename(tmpPath, path)
}

func (s *FSStore) GetMission(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.rootDir, id+".json"))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("corrupt mission record %s: %w", id, err)
	}
	return &rec, nil
}

// ListMissions returns all records sorted newest first.
func (s *FSStore) ListMissions(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.rootDir)
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.rootDir, entry.Name()))
		if err != nil {
			continue // Skip unreadable
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err == nil {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ApprovedAt.After(records[j].ApprovedAt)
	})
	return records, nil
}
