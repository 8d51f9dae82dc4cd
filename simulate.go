package turing

import (
	"context"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
)

// Simulate is the file-to-file flow: it compiles the machine document at
// specPath, runs it on the tape read from inputPath, writes the canonical
// final tape to outputPath and returns the acceptance flag.
//
// A rejected run is not an error. Errors are reserved for unreadable or
// malformed inputs and for failures writing the output.
func (e *Engine) Simulate(ctx context.Context, specPath, inputPath, outputPath string) (int, error) {
	m, err := file.LoadMachineFile(specPath)
	if err != nil {
		return 0, err
	}
	return e.SimulateMachine(ctx, m, inputPath, outputPath)
}

// SimulateMachine is Simulate for a machine that is already compiled, e.g.
// one taken from the machine library.
func (e *Engine) SimulateMachine(ctx context.Context, m *domain.Machine, inputPath, outputPath string) (int, error) {
	tape, err := file.ReadTape(inputPath, m.Blank)
	if err != nil {
		return 0, err
	}

	res, err := e.Run(ctx, m, tape)
	if err != nil {
		return 0, err
	}

	if err := file.WriteAtomic(outputPath, []byte(res.Output), 0o644); err != nil {
		return 0, err
	}

	e.logger.Debug("simulation finished",
		"machine", m.ID,
		"status", res.Status,
		"steps", res.Steps,
		"acceptance", res.Acceptance)
	return res.Acceptance, nil
}
