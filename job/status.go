package job

import "fmt"

// Status represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending   (retry)
//	Processing -> Dead      (DLQ)
//
// Failed is reserved for the transient instant between a Processing job's
// execution outcome and the failure handler's retry-or-deadletter decision.
// It is never the value of a persisted row: the failure handler always
// writes either Pending (retry) or Dead (deadletter) in the same
// transaction that observes the failure, so callers of a Store never read
// Failed back. It exists as a named state because spec section 3 enumerates
// it among the Job states; no code path in this module assigns it, and it
// is kept so that "failed" parses and renders like the other states.
type Status uint8

const (
	// Unknown is the zero value, reserved for unset or invalid status.
	Unknown Status = iota

	// Pending indicates the job is eligible for claiming once NextRunAt
	// has elapsed.
	Pending

	// Processing indicates the job is claimed by exactly one worker,
	// identified by its WorkerID.
	Processing

	// Completed indicates the job's command exited zero. Terminal.
	Completed

	// Failed is the transient state described in the Status doc comment.
	Failed

	// Dead indicates the job exhausted its retry budget and was moved to
	// the DLQ. Terminal.
	Dead
)

func statusToString(s Status) string {
	switch s {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func statusFromString(s string) (Status, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "failed":
		return Failed, nil
	case "dead":
		return Dead, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("job: unknown status %q", s)
	}
}

// ParseStatus converts a string representation of a status into a Status
// value. An error is returned for unrecognized strings.
func ParseStatus(s string) (Status, error) {
	return statusFromString(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(statusToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := statusFromString(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Terminal reports whether s is a terminal state (Completed or Dead).
func (s Status) Terminal() bool {
	return s == Completed || s == Dead
}

// String returns the canonical lower-case name of the status.
func (s Status) String() string {
	return statusToString(s)
}
