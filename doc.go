// Package queuectl provides a single-node, persistent, command-line
// operated background job queue.
//
// # Overview
//
// queuectl models a durable queue of shell commands with explicit state
// transitions. It separates the caller-facing job specification (job.Spec)
// from delivery state (job.Job) and defines a Store interface covering
// enqueue, atomic claim, completion, retry, dead-lettering, worker
// liveness, and typed configuration.
//
// The package does not mandate a particular storage backend; package store
// provides a SQLite implementation via github.com/uptrace/bun. Other
// backends may implement Store directly.
//
// # Delivery Semantics
//
// queuectl provides at-least-once processing guarantees. A job may be
// executed more than once if:
//
//   - a worker crashes mid-execution and is later detected as stale
//   - a worker is killed and restarted while holding a claim
//
// Commands are therefore expected to be idempotent.
//
// # State Machine
//
// Jobs follow this lifecycle:
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending   (retry, via the failure handler)
//	Processing -> Dead      (DLQ, via the failure handler)
//
// Completed and Dead are terminal.
//
// # Retry Policy
//
// Retry behavior is controlled by the backoff_base and max_retries
// configuration keys (package config). When a job's execution fails:
//
//   - if attempts+1 exceeds max_retries, the job is moved to the DLQ
//   - otherwise it is rescheduled after backoff_base^(attempts+1) seconds
//
// # Worker Runtime and Supervisor
//
// Worker coordinates a single worker process's claim-execute-resolve loop,
// heartbeat emission, and graceful shutdown. Supervisor spawns a fixed pool
// of worker processes, forwards termination signals, and reaps exits.
//
// # Concurrency Model
//
// Multiple independent worker processes concurrently access the shared
// Store. The atomic claim operation (Store.ClaimNext) guarantees at most
// one worker observes success for any given job at any time. Within a
// worker process, execution is single-threaded: a worker claims and
// resolves one job before claiming the next.
//
// # Orphan Recovery
//
// A worker whose heartbeat has gone stale relinquishes its claims: any job
// it was processing returns to Pending with its attempt counted as
// consumed. This bounds how long a job can remain stuck behind a crashed
// worker.
package queuectl
