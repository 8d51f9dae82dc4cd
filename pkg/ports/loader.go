package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// MachineLoader defines how machine descriptions are retrieved.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type MachineLoader interface {
	// LoadMachine returns the parsed machine with the given ID.
	// Returns domain.ErrMachineNotFound if there is none, or an error matching
	// domain.ErrStructuralInput if the stored document is malformed.
	LoadMachine(ctx context.Context, id string) (*domain.Machine, error)

	// ListMachines returns the IDs of every available machine, sorted.
	ListMachines(ctx context.Context) ([]string, error)
}
