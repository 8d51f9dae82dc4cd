package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/turing/internal/presentation/tui"
)

// History prints stored runs, oldest first. asJSON emits one JSON object
// per line instead of a table.
func History(ctx context.Context, env *Env, asJSON bool, w io.Writer) error {
	history, err := env.Engine.Runs().History(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		for _, run := range history {
			if err := enc.Encode(run); err != nil {
				return err
			}
		}
		return nil
	}

	if len(history) == 0 {
		printSystemMessage(w, "No runs recorded.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("| Run | Machine | Verdict | Status | Steps | Started |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, run := range history {
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %d | %s |\n",
			run.ID, run.MachineID, tui.Verdict(run.Acceptance, false), run.Status, run.Steps,
			run.StartedAt.Format(time.RFC3339))
	}

	if !isTerminal(w) {
		_, err = io.WriteString(w, sb.String())
		return err
	}
	render, err := tui.NewRenderer(120)
	if err != nil {
		return err
	}
	out, err := render(sb.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
