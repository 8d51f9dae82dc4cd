package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the construction of a machine library.
type Builder struct {
	machines map[string]*MachineBuilder
	order    []string
}

// New creates a new library builder.
func New() *Builder {
	return &Builder{
		machines: make(map[string]*MachineBuilder),
	}
}

// Add creates a new machine in the library.
// If the machine already exists, it returns the existing builder.
func (b *Builder) Add(id string) *MachineBuilder {
	if mb, ok := b.machines[id]; ok {
		return mb
	}
	mb := NewMachine(id)
	b.machines[id] = mb
	b.order = append(b.order, id)
	return mb
}

// Build compiles every machine into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	machines := make([]*domain.Machine, 0, len(b.machines))
	for _, id := range b.order {
		m, err := b.machines[id].Build()
		if err != nil {
			return nil, fmt.Errorf("machine %q: %w", id, err)
		}
		machines = append(machines, m)
	}

	loader, err := memory.NewFromMachines(machines...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
