package runtime

import "github.com/aretw0/turing/pkg/domain"

type tableKey struct {
	state  domain.StateID
	symbol domain.Symbol
}

// Action is the right-hand side of a rule: what to do once (state, symbol)
// matched.
type Action struct {
	To    domain.StateID
	Write domain.Symbol
	Dir   domain.Direction
}

// Table is the transition lookup structure keyed by (state, symbol).
// It is built once and only read during a run.
type Table struct {
	actions map[tableKey]Action
}

// BuildTable indexes rules by (From, Read) in the given order.
//
// Duplicate keys are not an error: a later rule overwrites an earlier one,
// so only the last rule for a given (From, Read) is effective.
func BuildTable(rules []domain.Rule) Table {
	actions := make(map[tableKey]Action, len(rules))
	for _, r := range rules {
		actions[tableKey{r.From, r.Read}] = Action{To: r.To, Write: r.Write, Dir: r.Dir}
	}
	return Table{actions: actions}
}

// Lookup returns the action for (state, symbol), if any.
func (t Table) Lookup(state domain.StateID, symbol domain.Symbol) (Action, bool) {
	a, ok := t.actions[tableKey{state, symbol}]
	return a, ok
}

// Len returns the number of distinct (state, symbol) keys.
func (t Table) Len() int {
	return len(t.actions)
}

// EffectiveRules returns rules in document order without the ones that a
// later rule with the same (From, Read) overrides.
func EffectiveRules(rules []domain.Rule) []domain.Rule {
	last := make(map[tableKey]int, len(rules))
	for i, r := range rules {
		last[tableKey{r.From, r.Read}] = i
	}
	out := make([]domain.Rule, 0, len(last))
	for i, r := range rules {
		if last[tableKey{r.From, r.Read}] == i {
			out = append(out, r)
		}
	}
	return out
}

// ShadowedRules returns the indexes of rules that are overridden by a later
// rule with the same (From, Read).
func ShadowedRules(rules []domain.Rule) []int {
	last := make(map[tableKey]int, len(rules))
	for i, r := range rules {
		last[tableKey{r.From, r.Read}] = i
	}
	var out []int
	for i, r := range rules {
		if last[tableKey{r.From, r.Read}] != i {
			out = append(out, i)
		}
	}
	return out
}
