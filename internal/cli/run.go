package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
)

// RunOptions names the three files of a simulation.
type RunOptions struct {
	Spec   string
	Input  string
	Output string
}

// Run simulates one machine file-to-file and prints the acceptance flag on
// stdout. Spec is a machine document path or an ID in the machine library.
// When the environment has a persistent store the run is recorded there as
// well; the flag and the output file are the same either way.
func Run(ctx context.Context, env *Env, persist bool, opts RunOptions, stdout, stderr io.Writer) (int, error) {
	m, err := resolveMachine(ctx, env.Engine.Loader(), opts.Spec)
	if err != nil {
		return 0, err
	}

	var acceptance int
	if persist {
		acceptance, err = runRecorded(ctx, env, m, opts)
	} else {
		acceptance, err = env.Engine.SimulateMachine(ctx, m, opts.Input, opts.Output)
	}
	if err != nil {
		return 0, err
	}

	fmt.Fprintln(stdout, acceptance)
	if isTerminal(stderr) {
		fmt.Fprintln(stderr, tui.Verdict(acceptance, true))
	}
	return acceptance, nil
}

func runRecorded(ctx context.Context, env *Env, m *domain.Machine, opts RunOptions) (int, error) {
	input, err := file.ReadInput(opts.Input)
	if err != nil {
		return 0, err
	}

	run, err := env.Engine.Execute(ctx, domain.RunRequest{
		MachineID: m.ID,
		Machine:   m,
		Input:     input,
	})
	if err != nil {
		return 0, err
	}

	if err := file.WriteAtomic(opts.Output, []byte(run.Output), 0o644); err != nil {
		return 0, err
	}
	env.Logger.Info("run recorded", "run_id", run.ID, "status", run.Status, "steps", run.Steps)
	return run.Acceptance, nil
}
