package domain

import (
	"errors"
	"fmt"
)

// ErrStructuralInput is returned when a machine description or one of its
// rules is missing a required field or has a malformed one. It is detected
// before a run starts and is never recovered internally.
var ErrStructuralInput = errors.New("structural input error")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrMachineNotFound is returned when a loader has no machine with the given ID.
var ErrMachineNotFound = errors.New("machine not found")

// ErrInvalidUTF8 is returned when tape input is not valid UTF-8. Tapes are
// never rewritten to make them decodable.
var ErrInvalidUTF8 = errors.New("input contains invalid UTF-8 sequences")

// StructuralError locates a structural problem inside a machine document.
type StructuralError struct {
	Path   string // e.g. "transitions[2].dir"
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrStructuralInput, e.Path, e.Reason)
}

// Unwrap lets errors.Is match ErrStructuralInput.
func (e *StructuralError) Unwrap() error {
	return ErrStructuralInput
}
