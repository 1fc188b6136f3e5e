package queue

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Runner drives periodic sync passes while connectivity is reported
// available. The timer is suspended entirely while offline; regaining
// connectivity triggers one immediate pass before the interval resumes.
type Runner struct {
	queue    *Queue
	handlers map[string]Handler
	interval time.Duration

	online atomic.Bool
	kick   chan struct{}
}

func NewRunner(q *Queue, handlers map[string]Handler, interval time.Duration) *Runner {
	r := &Runner{
		queue:    q,
		handlers: handlers,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
	r.online.Store(true)
	return r
}

// SetOnline reports a connectivity change. Coming back online fires a
// sync pass immediately rather than waiting for the next tick.
func (r *Runner) SetOnline(online bool) {
	was := r.online.Swap(online)
	if online && !was {
		select {
		case r.kick <- struct{}{}:
		default:
		}
	}
}

func (r *Runner) Online() bool {
	return r.online.Load()
}

// Run blocks until ctx is cancelled. Passes that leave failures behind
// delay the next attempt by the deterministic backoff for the number of
// consecutive failed passes.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	failedPasses := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.kick:
		case <-ticker.C:
			if !r.online.Load() {
				continue
			}
		}

		report, err := r.queue.Sync(ctx, r.handlers)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Warn("sync pass aborted")
		}

		log.WithFields(log.Fields{
			"attempted": report.Attempted,
			"succeeded": report.Succeeded,
			"retried":   report.Retried,
			"exhausted": report.Exhausted,
		}).Debug("sync pass finished")

		if !report.Failures() {
			failedPasses = 0
			continue
		}

		failedPasses++
		delay := Backoff(failedPasses)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-r.kick:
			timer.Stop()
			// Reconnect kick overrides the backoff wait; the pass runs
			// on the next loop iteration.
			select {
			case r.kick <- struct{}{}:
			default:
			}
		case <-timer.C:
		}
	}
}
