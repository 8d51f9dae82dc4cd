package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventRunHalt  EventType = "run_halt"
)

// RunEvent describes a run boundary.
type RunEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	RunID      string    `json:"run_id,omitempty"`
	MachineID  string    `json:"machine_id,omitempty"`
	State      StateID   `json:"state"`
	Steps      int       `json:"steps"`
	TapeLength int       `json:"tape_length"`

	// Status and Acceptance are set on EventRunHalt only.
	Status     Status `json:"status,omitempty"`
	Acceptance int    `json:"acceptance"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks fire at run boundaries only, never per step.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnRunHalt  func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnRunHalt:  chain(h.OnRunHalt, other.OnRunHalt),
	}
}

func chain(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *RunEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}

type runIDKey struct{}

// ContextWithRunID tags ctx with the ID of the run it drives, so hook
// events can be correlated with persisted records.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run ID set by ContextWithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
