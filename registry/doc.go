// Package registry defines the liveness record for a running worker
// process.
//
// A Record is inserted when a worker starts, has its LastHeartbeatAt
// refreshed on a fixed cadence while the worker runs, and is removed on
// graceful shutdown. A worker whose LastHeartbeatAt falls further behind
// than the configured staleness threshold is a stale worker: any job it
// holds a claim on is eligible for orphan recovery.
package registry
