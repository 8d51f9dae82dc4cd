/*
Package domain contains the core domain models of the Turing engine.

It defines the fundamental entities of a single-tape deterministic machine
and is kept free of I/O and persistence concerns.

# Key Entities

  - Machine: blank symbol, initial state, accepting states and ordered Rules.
  - Rule: (from, read) -> (to, write, dir).
  - Tape: the materialized window of an unbounded tape, growable at both ends.
  - Result: acceptance flag, terminal Status and final tape of a run.
  - Run: the persisted record of one execution.
*/
package domain
