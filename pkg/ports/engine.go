package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// Simulator is the engine as seen by driving adapters (HTTP, MCP).
type Simulator interface {
	// Execute runs a machine on an input and returns the persisted record.
	Execute(ctx context.Context, req domain.RunRequest) (*domain.Run, error)
}

// RunService is a Simulator that also manages the records it produces.
type RunService interface {
	Simulator
	Get(ctx context.Context, runID string) (*domain.Run, error)
	Delete(ctx context.Context, runID string) error
	History(ctx context.Context) ([]*domain.Run, error)
}
