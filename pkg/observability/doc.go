/*
Package observability provides tools for monitoring the Turing engine.

Metrics turns run lifecycle events into Prometheus series; LogHooks turns
them into structured log records. Both are plain domain.LifecycleHooks and
can be merged with any other hooks.
*/
package observability
