package turing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/runtime"
	loamAdapter "github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runs"
)

// Engine is the high-level entry point for the Turing library.
// It wraps the internal runtime and the run manager behind a small API.
type Engine struct {
	runtime *runtime.Engine
	runs    *runs.Manager

	maxSteps   int
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	store      ports.RunStore
	locker     ports.DistributedLocker
	loader     ports.MachineLoader
	libraryDir string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithMaxSteps sets the step budget of every run (default runtime.DefaultMaxSteps).
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore persists run records to store. Runs are kept in memory otherwise.
func WithStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes runs sharing an ID across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLoader injects the machine library used to resolve RunRequest.MachineID.
func WithLoader(l ports.MachineLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLibrary opens a Loam repository at dir as the machine library.
// It is ignored when WithLoader is also given.
func WithLibrary(dir string) Option {
	return func(e *Engine) {
		e.libraryDir = dir
	}
}

// New initializes a new Turing Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil && eng.libraryDir != "" {
		l, err := loamAdapter.Open(eng.libraryDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open machine library: %w", err)
		}
		eng.loader = l
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithMaxSteps(eng.maxSteps),
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)

	runOpts := []runs.Option{runs.WithLogger(eng.logger)}
	if eng.loader != nil {
		runOpts = append(runOpts, runs.WithLoader(eng.loader))
	}
	if eng.locker != nil {
		runOpts = append(runOpts, runs.WithLocker(eng.locker))
	}
	eng.runs = runs.NewManager(eng.runtime, eng.store, runOpts...)

	return eng, nil
}

// Run executes m on tape and returns the result with its canonical output.
// Nothing is persisted.
func (e *Engine) Run(ctx context.Context, m *domain.Machine, tape *domain.Tape) (*domain.Result, error) {
	return e.runtime.RunMachine(ctx, m, tape)
}

// Execute runs a request through the run manager: the run gets an ID and
// its record is saved to the configured store.
func (e *Engine) Execute(ctx context.Context, req domain.RunRequest) (*domain.Run, error) {
	return e.runs.Execute(ctx, req)
}

// Runs exposes the run manager, e.g. to serve it over HTTP or MCP.
func (e *Engine) Runs() *runs.Manager {
	return e.runs
}

// Loader returns the configured machine library, or nil.
func (e *Engine) Loader() ports.MachineLoader {
	return e.loader
}

// MaxSteps returns the effective step budget.
func (e *Engine) MaxSteps() int {
	return e.runtime.MaxSteps()
}
