package services

import (
	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/geo"
)

// Routing assumptions shared by the optimizer heuristics. Straight-line
// distance padded by a traffic factor stands in for road routing, which
// is a deliberate non-goal of this core.
const (
	avgSpeedKmh    = 40.0
	trafficFactor  = 1.2
	serviceTimeMin = 10
)

// NearestNeighborRoute orders stops with a greedy O(n^2) heuristic: from
// the current position, repeatedly visit the closest unvisited stop.
//
// The algorithm minimizes immediate travel distance at each step. It does
// not attempt global optimization (e.g., VRP solvers); determinism and
// simplicity are preferred over optimality. Ties are broken by input
// order. Each returned stop carries its leg distance from the previous
// position and a contiguous 1..n sequence.
func NearestNeighborRoute(stops []*domain.RouteStop, start domain.Coordinates) []*domain.RouteStop {
	if len(stops) == 0 {
		return []*domain.RouteStop{}
	}

	remaining := make([]*domain.RouteStop, len(stops))
	copy(remaining, stops)

	ordered := make([]*domain.RouteStop, 0, len(stops))
	current := start

	for len(remaining) > 0 {
		best := 0
		bestDist := geo.Distance(current, remaining[0].Coordinates)

		// Strict < keeps the earliest candidate on equal distances.
		for i := 1; i < len(remaining); i++ {
			if d := geo.Distance(current, remaining[i].Coordinates); d < bestDist {
				best, bestDist = i, d
			}
		}

		next := remaining[best]
		next.LegDistanceKm = bestDist
		ordered = append(ordered, next)
		current = next.Coordinates

		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	resequence(ordered)
	return ordered
}

// resequence renumbers sequence fields to a contiguous 1..n run preserving
// relative order.
func resequence(stops []*domain.RouteStop) {
	for i, s := range stops {
		s.Sequence = i + 1
	}
}
