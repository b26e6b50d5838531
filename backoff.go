package queuectl

import (
	"math"
	"time"
)

// computeBackoff returns the delay before a job that has just failed its
// nextAttempt-th attempt becomes eligible again: base^nextAttempt seconds.
// nextAttempt is attempts+1, the attempt number about to be consumed.
func computeBackoff(base int, nextAttempt uint32) time.Duration {
	if base < 1 {
		base = 1
	}
	seconds := math.Pow(float64(base), float64(nextAttempt))
	return time.Duration(seconds * float64(time.Second))
}
