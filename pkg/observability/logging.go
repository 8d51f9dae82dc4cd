package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LogHooks returns lifecycle hooks that log run boundaries at info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"run_id", e.RunID,
				"machine_id", e.MachineID,
				"tape_length", e.TapeLength,
			)
		},
		OnRunHalt: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_halt",
				"run_id", e.RunID,
				"machine_id", e.MachineID,
				"status", e.Status,
				"acceptance", e.Acceptance,
				"steps", e.Steps,
				"state", e.State,
			)
		},
	}
}
