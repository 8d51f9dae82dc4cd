package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

// GenerateMermaid produces a Mermaid state diagram for a machine:
//   - every state is declared once, in first-seen order, under a
//     positional ID (s0, s1, ...) so arbitrary state names stay valid;
//   - the initial state is entered from [*];
//   - each effective rule is an edge labelled "read/write,dir";
//   - accepting states exit to [*].
//
// Rules shadowed by a later duplicate are not drawn.
func GenerateMermaid(m *domain.Machine) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	states := m.States()
	ids := make(map[domain.StateID]string, len(states))
	for i, s := range states {
		ids[s] = fmt.Sprintf("s%d", i)
		sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", escapeLabel(string(s)), ids[s]))
	}

	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", ids[m.Initial]))

	for _, r := range runtime.EffectiveRules(m.Rules) {
		sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n", ids[r.From], ids[r.To], EdgeLabel(r)))
	}

	emitted := make(map[domain.StateID]bool)
	for _, s := range m.Final {
		if emitted[s] {
			continue
		}
		emitted[s] = true
		sb.WriteString(fmt.Sprintf("    %s --> [*]\n", ids[s]))
	}

	return sb.String()
}

// EdgeLabel renders a rule as "read/write,dir".
func EdgeLabel(r domain.Rule) string {
	return fmt.Sprintf("%s/%s,%s", r.Read, r.Write, r.Dir)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
