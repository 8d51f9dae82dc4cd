package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

// Severity ranks a finding.
type Severity string

const (
	// SeverityWarning marks a machine that runs but probably not as intended.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks a harmless observation.
	SeverityInfo Severity = "info"
)

// Finding is one observation about a machine. Findings never make a machine
// invalid: every structurally valid machine can be run.
type Finding struct {
	Severity Severity
	Path     string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Path, f.Message)
}

// Lint inspects m and reports overridden rules, rules that always reject,
// and states that cannot be reached from the initial state.
func Lint(m *domain.Machine) []Finding {
	var findings []Finding

	for _, i := range runtime.ShadowedRules(m.Rules) {
		r := m.Rules[i]
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Path:     fmt.Sprintf("transitions[%d]", i),
			Message:  fmt.Sprintf("overridden by a later rule for (%s, %q)", r.From, r.Read.String()),
		})
	}

	for i, r := range m.Rules {
		if !r.Dir.Valid() {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transitions[%d].dir", i),
				Message:  fmt.Sprintf("direction %q is neither L nor R; firing this rule rejects", string(r.Dir)),
			})
		}
	}

	reachable := crawl(m)
	for _, s := range m.States() {
		if !reachable[s] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Path:     "states",
				Message:  fmt.Sprintf("state %q is unreachable from %q", s, m.Initial),
			})
		}
	}

	if len(m.Final) == 0 {
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Path:     "final",
			Message:  "no accepting states; every input is rejected",
		})
	}

	return findings
}

// crawl walks the effective rules breadth-first from the initial state.
func crawl(m *domain.Machine) map[domain.StateID]bool {
	edges := make(map[domain.StateID][]domain.StateID)
	for _, r := range runtime.EffectiveRules(m.Rules) {
		if r.Dir.Valid() {
			edges[r.From] = append(edges[r.From], r.To)
		}
	}

	visited := map[domain.StateID]bool{}
	queue := []domain.StateID{m.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, edges[current]...)
	}
	return visited
}

// Summary joins findings into a printable report.
func Summary(findings []Finding) string {
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}
