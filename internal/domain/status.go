package domain

// Status is the closed set of dispatch states shared by route stops and
// pickup requests. Which transitions are legal for each flavor is decided
// by the dispatch package; the set itself is fixed here so no unchecked
// string keys leak into transition tables.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusEnRoute    Status = "en_route"    // stop flavor only
	StatusInProgress Status = "in_progress" // pickup flavor only
	StatusArrived    Status = "arrived"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
	StatusCancelled  Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Terminal reports whether no outgoing transition is legal from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusSkipped:
		return true
	}
	return false
}
