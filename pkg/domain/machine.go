package domain

import (
	"fmt"
	"unicode/utf8"
)

// StateID identifies a machine state. Identifiers are opaque: the engine only
// compares them for equality. Numeric identifiers from documents are
// normalized to their decimal string form ("0" and 0 are the same state).
type StateID string

// Symbol is the content of a single tape cell.
type Symbol rune

// String returns the symbol as a one-character string.
func (s Symbol) String() string { return string(rune(s)) }

// MarshalText encodes the symbol as its one-character string.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts exactly one character.
func (s *Symbol) UnmarshalText(text []byte) error {
	r, size := utf8.DecodeRune(text)
	if size != len(text) || (r == utf8.RuneError && size <= 1) {
		return fmt.Errorf("symbol must be exactly one character, got %q", text)
	}
	*s = Symbol(r)
	return nil
}

// Direction is the head movement of a rule. Only Left and Right move the
// head; any other value is kept verbatim and halts the run with a reject.
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
)

// Valid reports whether d is a recognized motion.
func (d Direction) Valid() bool {
	return d == Left || d == Right
}

const (
	// DefaultBlank is the blank symbol used when a document omits "white".
	DefaultBlank Symbol = '_'

	// DefaultInitial is the initial state used when a document omits "initial".
	DefaultInitial StateID = "0"
)

// Rule maps (From, Read) to (To, Write, Dir).
type Rule struct {
	From  StateID   `json:"from" yaml:"from"`
	Read  Symbol    `json:"read" yaml:"read"`
	To    StateID   `json:"to" yaml:"to"`
	Write Symbol    `json:"write" yaml:"write"`
	Dir   Direction `json:"dir" yaml:"dir"`
}

// Machine is an immutable machine description.
// Rules keep their document order: when two rules share (From, Read) the
// later one wins.
type Machine struct {
	// ID names the machine inside a library (file name, loam document ID).
	// Empty for machines that were not loaded from a library.
	ID      string    `json:"id,omitempty"`
	Blank   Symbol    `json:"white"`
	Initial StateID   `json:"initial"`
	Final   []StateID `json:"final"`
	Rules   []Rule    `json:"transitions"`

	// Description is free prose attached to the machine (Markdown body of
	// library documents). It has no effect on execution.
	Description string `json:"description,omitempty"`
}

// NewMachine returns a machine with the document defaults applied.
func NewMachine(rules ...Rule) *Machine {
	return &Machine{
		Blank:   DefaultBlank,
		Initial: DefaultInitial,
		Final:   []StateID{},
		Rules:   rules,
	}
}

// AcceptingSet returns the accepting states as a set.
func (m *Machine) AcceptingSet() map[StateID]struct{} {
	set := make(map[StateID]struct{}, len(m.Final))
	for _, s := range m.Final {
		set[s] = struct{}{}
	}
	return set
}

// States returns every state mentioned by the machine in first-seen order:
// initial, rule endpoints, then accepting states.
func (m *Machine) States() []StateID {
	seen := make(map[StateID]bool)
	var out []StateID
	add := func(s StateID) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(m.Initial)
	for _, r := range m.Rules {
		add(r.From)
		add(r.To)
	}
	for _, s := range m.Final {
		add(s)
	}
	return out
}

// Clone returns a deep copy of the machine.
func (m *Machine) Clone() *Machine {
	if m == nil {
		return nil
	}
	c := *m
	c.Final = append([]StateID{}, m.Final...)
	c.Rules = append([]Rule(nil), m.Rules...)
	return &c
}
