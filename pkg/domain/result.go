package domain

import "time"

// Status is the terminal condition of a run.
type Status string

const (
	StatusRunning Status = "running"

	// StatusHaltedAccept: no rule for (state, symbol) in an accepting state.
	StatusHaltedAccept Status = "halted_accept"

	// StatusHaltedReject: no rule for (state, symbol) in a non-accepting state.
	StatusHaltedReject Status = "halted_reject"

	// StatusHaltedUndefinedTransition: a rule matched but its direction is
	// neither L nor R. Always a reject.
	StatusHaltedUndefinedTransition Status = "halted_undefined_transition"

	// StatusStepLimitExceeded: the step budget ran out before a halt.
	StatusStepLimitExceeded Status = "step_limit_exceeded"
)

// Terminal reports whether s ends a run.
func (s Status) Terminal() bool {
	return s != StatusRunning && s != ""
}

// Result is what a run reports back to its caller.
//
// Acceptance is 1 or 0. A run stopped by the step budget reports the same
// flag a halt in the same state would; Status tells the two apart.
type Result struct {
	Acceptance int     `json:"acceptance"`
	Status     Status  `json:"status"`
	Steps      int     `json:"steps"`
	State      StateID `json:"state"`
	Head       int     `json:"head"`

	// Tape is the final tape, owned by the caller once returned.
	Tape *Tape `json:"-"`

	// Output is the canonical form of Tape.
	Output string `json:"output"`
}

// Accepted reports whether the acceptance flag is set.
func (r *Result) Accepted() bool {
	return r.Acceptance == 1
}

// Run is the persisted record of one execution.
type Run struct {
	ID         string    `json:"id"`
	MachineID  string    `json:"machine_id,omitempty"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Acceptance int       `json:"acceptance"`
	Status     Status    `json:"status"`
	Steps      int       `json:"steps"`
	MaxSteps   int       `json:"max_steps"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration is the wall time the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunRequest asks for one execution.
// Machine takes precedence; otherwise MachineID is resolved by a loader.
type RunRequest struct {
	MachineID string   `json:"machine_id,omitempty"`
	Machine   *Machine `json:"machine,omitempty"`
	Input     string   `json:"input"`

	// MaxSteps lowers the engine budget when positive. Larger values are
	// capped at the configured budget.
	MaxSteps int `json:"max_steps,omitempty"`
}
