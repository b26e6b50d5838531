// Package dlq defines the frozen record of a job that exhausted its retry
// budget.
//
// A DLQEntry is created by a Store's fail-and-deadletter operation in the
// same transaction that transitions the originating Job to job.Dead, and is
// destroyed either by an explicit purge or by a retry that creates a new
// Job in its place. A DLQEntry never transitions in place; "retrying" it is
// always a delete-and-insert.
package dlq
