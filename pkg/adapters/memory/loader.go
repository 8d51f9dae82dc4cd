package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Loader implements ports.MachineLoader using an in-memory map.
type Loader struct {
	mu       sync.RWMutex
	machines map[string]*domain.Machine
}

// NewLoader creates a new Loader from domain objects keyed by ID.
func NewLoader(machines map[string]*domain.Machine) *Loader {
	l := &Loader{machines: make(map[string]*domain.Machine, len(machines))}
	for id, m := range machines {
		c := m.Clone()
		c.ID = id
		l.machines[id] = c
	}
	return l
}

// NewFromMachines creates a Loader from machines that carry their own ID.
func NewFromMachines(machines ...*domain.Machine) (*Loader, error) {
	l := &Loader{machines: make(map[string]*domain.Machine, len(machines))}
	for _, m := range machines {
		if m == nil || m.ID == "" {
			return nil, fmt.Errorf("machine missing ID")
		}
		l.machines[m.ID] = m.Clone()
	}
	return l, nil
}

// Register adds or replaces a machine.
func (l *Loader) Register(id string, m *domain.Machine) {
	c := m.Clone()
	c.ID = id
	l.mu.Lock()
	defer l.mu.Unlock()
	l.machines[id] = c
}

// LoadMachine returns a copy of the machine with the given ID.
func (l *Loader) LoadMachine(ctx context.Context, id string) (*domain.Machine, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.machines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, id)
	}
	return m.Clone(), nil
}

// ListMachines returns all available machine IDs.
func (l *Loader) ListMachines(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.machines))
	for k := range l.machines {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
