package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

// DefaultMaxSteps is the step budget used when none is configured.
const DefaultMaxSteps = 10_000_000

// The context is polled every cancelCheckMask+1 steps.
const cancelCheckMask = 1<<12 - 1

// Engine executes machines. It holds configuration only: every run owns its
// tape, head and state, so an Engine may serve sequential or concurrent runs
// as long as they do not share a tape.
type Engine struct {
	maxSteps int
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithMaxSteps sets the step budget. Values <= 0 leave it unchanged.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers run start/halt callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		maxSteps: DefaultMaxSteps,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of e with opts applied on top of its configuration.
func (e *Engine) With(opts ...EngineOption) *Engine {
	c := *e
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// MaxSteps returns the configured step budget.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// RunMachine builds the transition table for m and runs it on tape.
func (e *Engine) RunMachine(ctx context.Context, m *domain.Machine, tape *domain.Tape) (*domain.Result, error) {
	if m == nil {
		return nil, &domain.StructuralError{Path: "machine", Reason: "nil machine description"}
	}
	return e.Run(ctx, m, BuildTable(m.Rules), tape)
}

// Run executes m on tape until it halts or the step budget is spent.
//
// The tape is mutated in place and returned in the result. An empty (or nil)
// tape is first normalized to one blank cell. ctx is passed to lifecycle
// hooks and polled every 4096 steps; once it is done the run stops with
// ctx.Err() wrapped and no result.
func (e *Engine) Run(ctx context.Context, m *domain.Machine, table Table, tape *domain.Tape) (*domain.Result, error) {
	if m == nil {
		return nil, &domain.StructuralError{Path: "machine", Reason: "nil machine description"}
	}
	if tape == nil {
		tape = domain.NewTape()
	}
	blank := m.Blank
	if tape.Len() == 0 {
		tape.PushBack(blank)
	}
	accepting := m.AcceptingSet()

	head := 0
	state := m.Initial
	steps := 0

	e.fire(ctx, e.hooks.OnRunStart, &domain.RunEvent{
		Type:       domain.EventRunStart,
		MachineID:  m.ID,
		State:      state,
		TapeLength: tape.Len(),
	})
	e.logger.Debug("run started", "machine", m.ID, "initial", state, "tape_length", tape.Len(), "max_steps", e.maxSteps)

	status := domain.StatusRunning
	for steps < e.maxSteps {
		if steps&cancelCheckMask == 0 && steps > 0 {
			if err := ctx.Err(); err != nil {
				e.logger.Warn("run canceled", "machine", m.ID, "steps", steps)
				return nil, fmt.Errorf("run canceled after %d steps: %w", steps, err)
			}
		}
		if head < 0 {
			tape.PushFront(blank)
			head = 0
		}
		if head >= tape.Len() {
			tape.PushBack(blank)
		}

		action, ok := table.Lookup(state, tape.At(head))
		if !ok {
			status = domain.StatusHaltedReject
			if _, yes := accepting[state]; yes {
				status = domain.StatusHaltedAccept
			}
			break
		}

		tape.Set(head, action.Write)

		switch action.Dir {
		case domain.Right:
			head++
			if head == tape.Len() {
				tape.PushBack(blank)
			}
		case domain.Left:
			if head == 0 {
				tape.PushFront(blank)
			} else {
				head--
			}
		default:
			// Rejects regardless of the accepting set.
			status = domain.StatusHaltedUndefinedTransition
		}
		if status == domain.StatusHaltedUndefinedTransition {
			e.logger.Debug("invalid direction", "state", state, "dir", string(action.Dir), "steps", steps)
			break
		}

		state = action.To
		steps++
	}

	if status == domain.StatusRunning {
		status = domain.StatusStepLimitExceeded
		e.logger.Warn("step limit exceeded", "machine", m.ID, "max_steps", e.maxSteps, "state", state)
	}

	res := &domain.Result{
		Acceptance: acceptance(status, state, accepting),
		Status:     status,
		Steps:      steps,
		State:      state,
		Head:       head,
		Tape:       tape,
		Output:     Canonicalize(tape, blank),
	}

	e.logger.Debug("run halted", "machine", m.ID, "status", status, "acceptance", res.Acceptance, "steps", steps)
	e.fire(ctx, e.hooks.OnRunHalt, &domain.RunEvent{
		Type:       domain.EventRunHalt,
		MachineID:  m.ID,
		State:      state,
		Steps:      steps,
		TapeLength: tape.Len(),
		Status:     status,
		Acceptance: res.Acceptance,
	})
	return res, nil
}

func acceptance(status domain.Status, state domain.StateID, accepting map[domain.StateID]struct{}) int {
	switch status {
	case domain.StatusHaltedAccept:
		return 1
	case domain.StatusStepLimitExceeded:
		if _, ok := accepting[state]; ok {
			return 1
		}
	}
	return 0
}

func (e *Engine) fire(ctx context.Context, hook func(context.Context, *domain.RunEvent), ev *domain.RunEvent) {
	if hook == nil {
		return
	}
	ev.Timestamp = time.Now()
	ev.RunID = domain.RunIDFromContext(ctx)
	hook(ctx, ev)
}
