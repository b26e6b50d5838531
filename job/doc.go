// Package job defines the durable representation of a unit of work managed
// by the queue engine.
//
// A Job augments a caller-supplied Spec with the scheduling and delivery
// metadata a store needs to enforce the claim/retry/dead-letter lifecycle:
// Status, Attempts, WorkerID, and the two scheduling timestamps RunAt and
// NextRunAt.
//
// Job values returned by a store are snapshots. Mutating a returned Job does
// not change persisted state; transitions are performed by calling back into
// the store's operations (claim, complete, fail-and-retry,
// fail-and-deadletter).
package job
