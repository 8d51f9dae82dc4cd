/*
Package turing is a deterministic, single-tape Turing machine simulator.

A machine is described by a small document (JSON or YAML) naming the blank
symbol, the initial state, the accepting states and a list of transitions.
The engine builds a transition table from it, runs it on an input tape and
reports an acceptance flag together with the canonical final tape.

# Concept

The simulator follows a Hexagonal Architecture. The core (internal/runtime)
only knows machines and tapes. Loading machine libraries, persisting run
records and exposing runs over HTTP or MCP are adapters behind the ports in
pkg/ports, so the same engine can be embedded in a CLI, a server or a test.

# Semantics

  - A run halts when no rule matches the current (state, symbol) pair. It
    accepts iff the halting state is accepting.
  - A matching rule whose direction is neither "L" nor "R" halts the run
    with a reject, whatever the state.
  - The tape grows with blanks on demand in both directions.
  - Runs are bounded by a step budget (runtime.DefaultMaxSteps unless
    configured).
  - The output tape is canonical: leading and trailing blanks are trimmed,
    and an all-blank tape is a single blank.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/turing"
	)

	func main() {
		eng, err := turing.New(turing.WithMaxSteps(1000))
		if err != nil {
			log.Fatal(err)
		}

		acceptance, err := eng.Simulate(context.Background(), "machine.json", "input.txt", "output.txt")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(acceptance)
	}
*/
package turing
