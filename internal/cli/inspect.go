package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
)

// Validate compiles the machine named by target and prints lint findings.
// Only a structurally invalid document is an error.
func Validate(ctx context.Context, env *Env, target string, w io.Writer) error {
	m, err := resolveMachine(ctx, env.Engine.Loader(), target)
	if err != nil {
		return err
	}

	findings := validator.Lint(m)
	if len(findings) > 0 {
		fmt.Fprintln(w, validator.Summary(findings))
	}
	fmt.Fprintf(w, "Machine %q is valid (%d states, %d rules).\n", m.ID, len(m.States()), len(m.Rules))
	return nil
}

// Graph prints the machine as a Mermaid state diagram.
func Graph(ctx context.Context, env *Env, target string, w io.Writer) error {
	m, err := resolveMachine(ctx, env.Engine.Loader(), target)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(m))
	return err
}

// Describe prints a Markdown description of the machine, rendered for the
// terminal when w is one.
func Describe(ctx context.Context, env *Env, target string, w io.Writer) error {
	m, err := resolveMachine(ctx, env.Engine.Loader(), target)
	if err != nil {
		return err
	}

	doc := tui.DescribeMarkdown(m)
	if !isTerminal(w) {
		_, err = io.WriteString(w, doc)
		return err
	}

	render, err := tui.NewRenderer(100)
	if err != nil {
		return err
	}
	out, err := render(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
