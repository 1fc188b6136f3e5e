// Package queue implements the durable offline action queue: at-least-once
// delivery of field actions from a device that may be disconnected, without
// blocking the caller on network availability.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/ports"
)

const (
	// DefaultMaxRetries bounds how many sync passes may attempt an action
	// before it is marked terminally failed.
	DefaultMaxRetries = 3

	// retentionPeriod is how long completed/failed entries survive before
	// the sweep removes them. Pending entries are exempt regardless of age.
	retentionPeriod = 7 * 24 * time.Hour
)

// ErrRetriesExhausted marks an action that consumed all its attempts.
// The entry is retained in failed state for operator attention; it is
// never silently dropped.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Handler synchronizes one action payload with the backend of record.
// Supplied by the caller; the queue itself has no network dependency.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Queue is the device-local outbound action queue. Enqueue may be called
// concurrently; sync passes are serialized so the store sees exactly one
// pass at a time.
type Queue struct {
	store      ports.ActionStore
	maxRetries int

	syncMu sync.Mutex

	now func() time.Time
}

type Option func(*Queue)

// WithMaxRetries overrides the per-action retry budget.
func WithMaxRetries(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxRetries = n
		}
	}
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

func New(store ports.ActionStore, opts ...Option) *Queue {
	q := &Queue{
		store:      store,
		maxRetries: DefaultMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue durably appends a pending action and returns immediately.
// It never touches the network.
func (q *Queue) Enqueue(ctx context.Context, actionType string, payload json.RawMessage) (domain.QueuedAction, error) {
	if strings.TrimSpace(actionType) == "" {
		return domain.QueuedAction{}, errors.New("enqueue: actionType must be non-empty")
	}

	a := domain.QueuedAction{
		ActionType: actionType,
		Payload:    payload,
		Timestamp:  q.now().UnixMilli(),
		Status:     domain.ActionPending,
		MaxRetries: q.maxRetries,
	}

	id, err := q.store.Append(ctx, a)
	if err != nil {
		return domain.QueuedAction{}, fmt.Errorf("enqueue: append %q: %w", actionType, err)
	}

	a.ID = id
	return a, nil
}

// ListPending returns all pending entries, oldest first.
func (q *Queue) ListPending(ctx context.Context) ([]domain.QueuedAction, error) {
	actions, err := q.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return actions, nil
}

// Outcome of one sync pass.
type SyncReport struct {
	Attempted int
	Succeeded int
	Retried   int
	Exhausted int
}

// Failures reports whether the pass left any entry unsynchronized.
func (r SyncReport) Failures() bool {
	return r.Retried+r.Exhausted > 0
}

// Sync replays pending actions in timestamp order through the supplied
// handlers. A successful handler call deletes the entry: the queue is a
// work list, not an audit log. A failure increments the retry count; at
// the retry budget the entry becomes terminally failed. A failing entry
// never blocks attempts on subsequent entries in the same pass.
//
// Transient (network) and permanent (business-rule) handler failures are
// deliberately treated identically; both consume one attempt.
func (q *Queue) Sync(ctx context.Context, handlers map[string]Handler) (SyncReport, error) {
	q.syncMu.Lock()
	defer q.syncMu.Unlock()

	var report SyncReport

	pending, err := q.store.ListPending(ctx)
	if err != nil {
		return report, fmt.Errorf("sync: list pending: %w", err)
	}

	for _, a := range pending {
		// Cancellation granularity is the entry boundary: an invocation
		// already in flight fails naturally and is retried next pass.
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Attempted++

		herr := q.dispatch(ctx, handlers, a)
		if herr == nil {
			if err := q.store.Delete(ctx, a.ID); err != nil {
				return report, fmt.Errorf("sync: delete action %d: %w", a.ID, err)
			}
			report.Succeeded++
			continue
		}

		a.Retries++
		a.Error = herr.Error()
		if a.Retries >= a.MaxRetries {
			a.Status = domain.ActionFailed
			report.Exhausted++
		} else {
			report.Retried++
		}

		if err := q.store.Update(ctx, a); err != nil {
			return report, fmt.Errorf("sync: update action %d: %w", a.ID, err)
		}
	}

	return report, nil
}

func (q *Queue) dispatch(ctx context.Context, handlers map[string]Handler, a domain.QueuedAction) error {
	h, ok := handlers[a.ActionType]
	if !ok {
		// A typo'd action type surfaces as a terminal failed entry
		// instead of cycling forever.
		return fmt.Errorf("no handler registered for action type %q", a.ActionType)
	}
	return h(ctx, a.Payload)
}

// PurgeExpired removes completed/failed entries older than the retention
// period. Pending entries are never aged out.
func (q *Queue) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := q.now().Add(-retentionPeriod).UnixMilli()
	n, err := q.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	return n, nil
}
