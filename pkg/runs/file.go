package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/capdrop/capdrop/pkg/errors"
)

// FileStore is a file-based run store for CLI and single-instance usage.
// Runs are stored as JSON files in a data directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based run store.
// If baseDir is empty, defaults to ~/.local/share/capdrop/runs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "capdrop", "runs")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create runs dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) runPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Save stores a run as a JSON file named by its ID.
func (s *FileStore) Save(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(run)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding run %s", run.ID)
	}
	if err := os.WriteFile(s.runPath(run.ID), data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing run %s", run.ID)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.runPath(id))
	if os.IsNotExist(err) {
		return nil, NotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading run %s", id)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding run %s", id)
	}
	return &run, nil
}

// List returns the most recent runs, newest first.
func (s *FileStore) List(ctx context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing runs")
	}

	var result []*Run
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			// Corrupt record: skip rather than failing the listing.
			continue
		}
		result = append(result, &run)
	}

	slices.SortFunc(result, func(a, b *Run) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Delete removes a run file. Unknown IDs are not an error.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.runPath(id))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting run %s", id)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*FileStore)(nil)
