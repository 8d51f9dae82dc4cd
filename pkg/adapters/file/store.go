package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Store implements ports.RunStore using the local filesystem.
// It stores runs as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".turing/runs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".turing", "runs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(runID string) string {
	return filepath.Join(s.BasePath, runID+".json")
}

// Save persists the run record to a JSON file atomically.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := WriteAtomic(s.path(run.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// Load retrieves the run record from a JSON file.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// Delete removes the run file.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	err := os.Remove(s.path(runID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	return nil
}

// List returns all stored run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		runs = append(runs, strings.TrimSuffix(name, ".json"))
	}
	return runs, nil
}
