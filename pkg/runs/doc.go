/*
Package runs executes machines and manages the resulting run records.

A Manager resolves the machine for a request, runs it, and persists the
record. Access to a run ID is serialized with a local reference-counted
mutex and, when configured, a distributed lock shared across replicas.
*/
package runs
