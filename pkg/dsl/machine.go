package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// MachineBuilder provides a fluent API for configuring a machine.
type MachineBuilder struct {
	m domain.Machine
}

// NewMachine starts a machine with the document defaults: blank "_",
// initial state "0", no accepting states.
func NewMachine(id string) *MachineBuilder {
	return &MachineBuilder{m: domain.Machine{
		ID:      id,
		Blank:   domain.DefaultBlank,
		Initial: domain.DefaultInitial,
		Final:   []domain.StateID{},
	}}
}

// Blank sets the blank symbol.
func (mb *MachineBuilder) Blank(s rune) *MachineBuilder {
	mb.m.Blank = domain.Symbol(s)
	return mb
}

// Initial sets the initial state.
func (mb *MachineBuilder) Initial(state string) *MachineBuilder {
	mb.m.Initial = domain.StateID(state)
	return mb
}

// Accept adds accepting states.
func (mb *MachineBuilder) Accept(states ...string) *MachineBuilder {
	for _, s := range states {
		mb.m.Final = append(mb.m.Final, domain.StateID(s))
	}
	return mb
}

// Describe sets the prose description.
func (mb *MachineBuilder) Describe(text string) *MachineBuilder {
	mb.m.Description = text
	return mb
}

// State scopes the following rules to a source state.
func (mb *MachineBuilder) State(id string) *StateBuilder {
	return &StateBuilder{machine: mb, from: domain.StateID(id)}
}

// Rule appends a complete rule. Later rules override earlier ones with the
// same (from, read).
func (mb *MachineBuilder) Rule(from string, read rune, to string, write rune, dir domain.Direction) *MachineBuilder {
	mb.m.Rules = append(mb.m.Rules, domain.Rule{
		From:  domain.StateID(from),
		Read:  domain.Symbol(read),
		To:    domain.StateID(to),
		Write: domain.Symbol(write),
		Dir:   dir,
	})
	return mb
}

// Build returns a copy of the machine. Every rule must have a direction;
// a direction other than L or R is kept and rejects at run time.
func (mb *MachineBuilder) Build() (*domain.Machine, error) {
	for i, r := range mb.m.Rules {
		if r.Dir == "" {
			return nil, &domain.StructuralError{
				Path:   fmt.Sprintf("transitions[%d].dir", i),
				Reason: "direction not set",
			}
		}
	}
	return mb.m.Clone(), nil
}

// StateBuilder adds rules leaving one state.
type StateBuilder struct {
	machine *MachineBuilder
	from    domain.StateID
}

// On starts a rule for the symbol under the head. The written symbol
// defaults to the one read.
func (sb *StateBuilder) On(read rune) *RuleBuilder {
	return &RuleBuilder{state: sb, read: domain.Symbol(read), write: domain.Symbol(read)}
}

// Machine returns to the machine scope.
func (sb *StateBuilder) Machine() *MachineBuilder {
	return sb.machine
}

// RuleBuilder configures one rule until Goto commits it.
type RuleBuilder struct {
	state *StateBuilder
	read  domain.Symbol
	write domain.Symbol
	dir   domain.Direction
}

// Write sets the symbol written under the head.
func (rb *RuleBuilder) Write(s rune) *RuleBuilder {
	rb.write = domain.Symbol(s)
	return rb
}

// Left moves the head left.
func (rb *RuleBuilder) Left() *RuleBuilder { return rb.Move(domain.Left) }

// Right moves the head right.
func (rb *RuleBuilder) Right() *RuleBuilder { return rb.Move(domain.Right) }

// Move sets an arbitrary direction.
func (rb *RuleBuilder) Move(dir domain.Direction) *RuleBuilder {
	rb.dir = dir
	return rb
}

// Goto commits the rule with its target state.
func (rb *RuleBuilder) Goto(to string) *StateBuilder {
	sb := rb.state
	sb.machine.Rule(string(sb.from), rune(rb.read), to, rune(rb.write), rb.dir)
	return sb
}
