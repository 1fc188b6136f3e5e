package domain

import (
	"fmt"
	"time"
)

type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

// Represents a single pickup or delivery task assigned a position within
// a route. A stop is created when a task is assigned to a route and is
// mutated only through dispatch-validated transitions; once its status is
// terminal the stop is treated as immutable.
type RouteStop struct {
	ID          string
	RouteID     string
	Sequence    int
	Type        StopType
	ClinicID    string
	Coordinates Coordinates
	Status      Status

	// Populated by the optimizer.
	LegDistanceKm    float64
	EstimatedArrival *time.Time

	// Populated by field transitions.
	DesiredArrival *time.Time
	ActualArrival  *time.Time
	CompletedAt    *time.Time
	Proof          string
}

// Aggregate figures derived from an ordered stop list. Metrics are never
// hand-edited; they are recomputed whenever stops are reordered, inserted,
// or removed.
type RouteMetrics struct {
	TotalDistanceKm      float64
	EstimatedDurationMin int
	StopsTotal           int
}

type RouteStatus string

const (
	RouteDraft     RouteStatus = "draft"
	RouteActive    RouteStatus = "active"
	RouteCompleted RouteStatus = "completed"
)

// A driver's planned run for the day. The route owns its stops.
type Route struct {
	ID        string
	DriverID  string
	VehicleID string
	Status    RouteStatus
	Stops     []*RouteStop
	Metrics   RouteMetrics
}

// ApplyPlan replaces the route's stops with an optimized ordering and
// records the derived metrics. The stop list must already carry a
// contiguous 1..n sequence.
func (r *Route) ApplyPlan(stops []*RouteStop, metrics RouteMetrics) error {
	for i, s := range stops {
		if s.Sequence != i+1 {
			return fmt.Errorf("apply plan: route %s: stop %s has sequence %d, want %d",
				r.ID, s.ID, s.Sequence, i+1)
		}
		s.RouteID = r.ID
	}
	if metrics.StopsTotal != len(stops) {
		return fmt.Errorf("apply plan: route %s: metrics count %d does not match %d stops",
			r.ID, metrics.StopsTotal, len(stops))
	}

	r.Stops = stops
	r.Metrics = metrics
	return nil
}
