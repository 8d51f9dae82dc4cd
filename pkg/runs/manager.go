package runs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed run lock is held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates run execution and access to run records.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	engine *runtime.Engine
	store  ports.RunStore
	loader ports.MachineLoader

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active per-run locks

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	newID   func() string
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the lease of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLoader resolves RunRequest.MachineID.
func WithLoader(loader ports.MachineLoader) Option {
	return func(m *Manager) {
		m.loader = loader
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUIDv7 run ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager. A nil store keeps records in memory.
func NewManager(engine *runtime.Engine, store ports.RunStore, opts ...Option) *Manager {
	if engine == nil {
		engine = runtime.NewEngine()
	}
	if store == nil {
		store = memory.NewStore()
	}
	m := &Manager{
		engine:  engine,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying run store.
func (m *Manager) Store() ports.RunStore {
	return m.store
}

// Loader returns the configured machine loader, or nil.
func (m *Manager) Loader() ports.MachineLoader {
	return m.loader
}

// Execute resolves the machine, runs it on the request input, and persists
// the record. Modeled rejects are successful executions; only structural
// problems and infrastructure failures return an error.
func (m *Manager) Execute(ctx context.Context, req domain.RunRequest) (*domain.Run, error) {
	machine, err := m.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	engine := m.engine.With(runtime.WithMaxSteps(m.budget(req.MaxSteps)))
	id := m.newID()
	run := &domain.Run{
		ID:        id,
		MachineID: machine.ID,
		Input:     req.Input,
		MaxSteps:  engine.MaxSteps(),
		StartedAt: m.now(),
	}

	// The ID is fresh, so no other caller can hold its lock yet.
	res, err := engine.RunMachine(domain.ContextWithRunID(ctx, id), machine, domain.ParseTape(req.Input, machine.Blank))
	if err != nil {
		return nil, err
	}
	run.FinishedAt = m.now()
	run.Output = res.Output
	run.Acceptance = res.Acceptance
	run.Status = res.Status
	run.Steps = res.Steps

	if err := m.store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist run %s: %w", id, err)
	}

	m.logger.Debug("run recorded", "run_id", id, "machine_id", run.MachineID, "status", run.Status)
	return run, nil
}

// budget caps a requested step budget at the configured one. Requests can
// only lower it.
func (m *Manager) budget(requested int) int {
	limit := m.engine.MaxSteps()
	if requested <= 0 || requested > limit {
		return limit
	}
	return requested
}

func (m *Manager) resolve(ctx context.Context, req domain.RunRequest) (*domain.Machine, error) {
	if req.Machine != nil {
		return req.Machine, nil
	}
	if req.MachineID == "" {
		return nil, &domain.StructuralError{Path: "machine", Reason: "either machine or machine_id is required"}
	}
	if m.loader == nil {
		return nil, fmt.Errorf("%w: %s (no machine library configured)", domain.ErrMachineNotFound, req.MachineID)
	}
	return m.loader.LoadMachine(ctx, req.MachineID)
}

// Get loads a run record.
func (m *Manager) Get(ctx context.Context, runID string) (*domain.Run, error) {
	var run *domain.Run
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		var err error
		run, err = m.store.Load(ctx, runID)
		return err
	})
	return run, err
}

// Delete removes a run record.
func (m *Manager) Delete(ctx context.Context, runID string) error {
	return m.WithLock(ctx, runID, func(ctx context.Context) error {
		return m.store.Delete(ctx, runID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// History returns every stored run, oldest first. Records that vanish
// between listing and loading are skipped.
func (m *Manager) History(ctx context.Context) ([]*domain.Run, error) {
	ids, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Run, 0, len(ids))
	for _, id := range ids {
		run, err := m.store.Load(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(runID) after unlocking.
func (m *Manager) acquire(runID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[runID]
	if !exists {
		entry = &lockEntry{}
		m.locks[runID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[runID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, runID)
	}
}

// WithLock executes fn while holding the lock for the run.
func (m *Manager) WithLock(ctx context.Context, runID string, fn func(context.Context) error) error {
	entry := m.acquire(runID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(runID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, runID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"run_id", runID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
