package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New creates a configured application logger.
// It writes to Stderr (to keep Stdout for the acceptance flag and JSON-RPC)
// and fans out to every extra writer (e.g. a --log-file).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Leveler, extra ...io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
	for _, w := range extra {
		if w == nil {
			continue
		}
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
