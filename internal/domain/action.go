package domain

import "encoding/json"

// ActionStatus is the lifecycle of a queued field action. Distinct from
// dispatch Status: a queue entry tracks delivery of the action itself,
// not the state of the stop or pickup it mutates.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
)

// One durable record of a mutating field action awaiting synchronization
// with the backend of record. Owned solely by the originating device.
// The payload is opaque to the queue; only the registered handler for
// ActionType interprets it.
type QueuedAction struct {
	ID         int64
	ActionType string
	Payload    json.RawMessage
	Timestamp  int64 // epoch millis
	Status     ActionStatus
	Retries    int
	MaxRetries int
	Error      string
	CompletedAt *int64
}
