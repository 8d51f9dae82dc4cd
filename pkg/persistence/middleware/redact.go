package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// Mask replaces redacted tape fragments.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.RunStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks every match of the
// patterns in the input and output tapes before a run is stored. The run
// returned to the caller is not modified.
func NewRedactionMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.RunStore) ports.RunStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, run *domain.Run) error {
	cloned := *run
	cloned.Input = m.mask(run.Input)
	cloned.Output = m.mask(run.Output)
	return m.next.Save(ctx, &cloned)
}

func (m *redactionMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllLiteralString(s, Mask)
	}
	return s
}

func (m *redactionMiddleware) Load(ctx context.Context, runID string) (*domain.Run, error) {
	return m.next.Load(ctx, runID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
