package queue

import "time"

const (
	backoffBase = 200 * time.Millisecond
	backoffCap  = 5 * time.Second
)

// Backoff returns the deterministic delay before retry attempt n (1-based):
// 200ms doubling per attempt, capped. Pure function, so retry pacing is
// unit-testable without timers.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := backoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= backoffCap {
			return backoffCap
		}
	}
	return d
}
