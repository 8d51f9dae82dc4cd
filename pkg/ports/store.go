package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// RunStore defines the interface for persisting run records.
type RunStore interface {
	// Save persists the record under run.ID, replacing any previous one.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves the record for a run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Run, error)

	// Delete removes the record for a run ID. Deleting a missing run is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of all stored runs.
	List(ctx context.Context) ([]string, error)
}
