package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

// DescribeMarkdown summarizes a machine as Markdown: its prose, its
// configuration, the transition table and a Mermaid diagram.
func DescribeMarkdown(m *domain.Machine) string {
	var sb strings.Builder

	title := m.ID
	if title == "" {
		title = "Machine"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if desc := strings.TrimSpace(m.Description); desc != "" {
		sb.WriteString(desc)
		sb.WriteString("\n\n")
	}

	shadowed := runtime.ShadowedRules(m.Rules)
	final := make([]string, len(m.Final))
	for i, s := range m.Final {
		final[i] = code(string(s))
	}
	if len(final) == 0 {
		final = []string{"none"}
	}

	sb.WriteString("| Property | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Blank | %s |\n", code(m.Blank.String()))
	fmt.Fprintf(&sb, "| Initial | %s |\n", code(string(m.Initial)))
	fmt.Fprintf(&sb, "| Accepting | %s |\n", strings.Join(final, ", "))
	fmt.Fprintf(&sb, "| States | %d |\n", len(m.States()))
	fmt.Fprintf(&sb, "| Rules | %d (%d shadowed) |\n\n", len(m.Rules), len(shadowed))

	sb.WriteString("## Transitions\n\n")
	rules := runtime.EffectiveRules(m.Rules)
	if len(rules) == 0 {
		sb.WriteString("No transitions: every input halts immediately.\n\n")
	} else {
		sb.WriteString("| From | Read | To | Write | Dir |\n|---|---|---|---|---|\n")
		for _, r := range rules {
			dir := string(r.Dir)
			if !r.Dir.Valid() {
				dir += " (halts)"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				code(string(r.From)), code(r.Read.String()), code(string(r.To)), code(r.Write.String()), cell(dir))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Diagram\n\n```mermaid\n")
	sb.WriteString(graph.GenerateMermaid(m))
	sb.WriteString("```\n")
	return sb.String()
}

func code(s string) string {
	return "`" + cell(s) + "`"
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
