package registry

import "time"

// Record is a worker's liveness registration.
type Record struct {
	WorkerID string
	PID      int
	Hostname string

	StartedAt       time.Time
	LastHeartbeatAt time.Time
}

// Stale reports whether the record's last heartbeat is older than timeout,
// measured against now. The comparison is strict: a worker is either
// stale or it isn't at the instant of the check, with no intermediate
// "suspect" state.
func (r Record) Stale(now time.Time, timeout time.Duration) bool {
	return now.Sub(r.LastHeartbeatAt) > timeout
}
