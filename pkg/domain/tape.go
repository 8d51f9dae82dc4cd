package domain

import "strings"

// Tape is the materialized part of an unbounded tape. It grows at both ends
// in amortized constant time: cells left of the origin live reversed in
// front, the rest in back.
//
// A Tape is not safe for concurrent use; a run owns its tape exclusively.
type Tape struct {
	front []Symbol
	back  []Symbol
}

// NewTape creates a tape holding the given cells in order.
func NewTape(cells ...Symbol) *Tape {
	back := make([]Symbol, len(cells))
	copy(back, cells)
	return &Tape{back: back}
}

// TapeFromString creates a tape with one cell per character of s.
func TapeFromString(s string) *Tape {
	runes := []rune(s)
	back := make([]Symbol, len(runes))
	for i, r := range runes {
		back[i] = Symbol(r)
	}
	return &Tape{back: back}
}

// ParseTape turns raw input text into an initial tape. A single trailing
// line terminator is stripped and empty input yields one blank cell.
func ParseTape(text string, blank Symbol) *Tape {
	if strings.HasSuffix(text, "\r\n") {
		text = text[:len(text)-2]
	} else {
		text = strings.TrimSuffix(text, "\n")
	}
	if text == "" {
		return NewTape(blank)
	}
	return TapeFromString(text)
}

// Len returns the number of materialized cells.
func (t *Tape) Len() int {
	return len(t.front) + len(t.back)
}

// At returns the cell at index i, 0 <= i < Len().
func (t *Tape) At(i int) Symbol {
	if i < len(t.front) {
		return t.front[len(t.front)-1-i]
	}
	return t.back[i-len(t.front)]
}

// Set overwrites the cell at index i, 0 <= i < Len().
func (t *Tape) Set(i int, s Symbol) {
	if i < len(t.front) {
		t.front[len(t.front)-1-i] = s
		return
	}
	t.back[i-len(t.front)] = s
}

// PushFront materializes one cell before the first one. Existing indexes
// shift right by one.
func (t *Tape) PushFront(s Symbol) {
	t.front = append(t.front, s)
}

// PushBack materializes one cell after the last one.
func (t *Tape) PushBack(s Symbol) {
	t.back = append(t.back, s)
}

// Cells returns a copy of the materialized cells in order.
func (t *Tape) Cells() []Symbol {
	out := make([]Symbol, 0, t.Len())
	for i := len(t.front) - 1; i >= 0; i-- {
		out = append(out, t.front[i])
	}
	return append(out, t.back...)
}

// String concatenates every materialized cell, blanks included.
func (t *Tape) String() string {
	var sb strings.Builder
	sb.Grow(t.Len())
	for i := len(t.front) - 1; i >= 0; i-- {
		sb.WriteRune(rune(t.front[i]))
	}
	for _, s := range t.back {
		sb.WriteRune(rune(s))
	}
	return sb.String()
}
