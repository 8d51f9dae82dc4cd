/*
Package ports defines the driven ports (interfaces) of the Turing engine.

These interfaces decouple the simulation core from external implementations,
allowing runs to be fed from and persisted to various backends.

# Key Interfaces

  - MachineLoader: Resolves machine descriptions by ID (files, Loam, memory).
  - RunStore: Persists run records (file, memory, Redis, SQLite).
  - DistributedLocker: Serializes work on the same run ID across replicas.
  - Simulator, RunService: The engine as seen by driving adapters (HTTP, MCP).
*/
package ports
