package ports

import (
	"context"

	"lab-dispatch-service/internal/domain"
)

// Port: the durable local store behind the offline action queue.
//
// Implementations must provide atomic per-record create/update so that a
// concurrent Enqueue and a sync-pass delete of different records never
// lose updates. Ordering guarantees are limited to ListPending returning
// entries oldest-first by timestamp (id as tie-breaker).
type ActionStore interface {
	// Append persists a new action and returns its assigned id.
	Append(ctx context.Context, a domain.QueuedAction) (int64, error)

	// ListPending returns all pending entries, oldest first.
	ListPending(ctx context.Context) ([]domain.QueuedAction, error)

	// Update overwrites the mutable fields (status, retries, error,
	// completedAt) of an existing entry.
	Update(ctx context.Context, a domain.QueuedAction) error

	// Delete removes an entry after confirmed synchronization.
	Delete(ctx context.Context, id int64) error

	// PurgeOlderThan removes completed and failed entries whose timestamp
	// precedes cutoff (epoch millis). Pending entries are never purged.
	PurgeOlderThan(ctx context.Context, cutoff int64) (int64, error)
}
