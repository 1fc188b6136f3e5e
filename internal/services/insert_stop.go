package services

import (
	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/geo"
)

// InsertStop places newStop into an already-ordered route at the position
// of minimum marginal cost:
//
//	cost(i) = d(prev, new) + d(new, next) - d(prev, next)
//
// with start standing in for prev at position 0, and no displaced leg when
// appending at the end. Ties resolve to the lowest index. All stops are
// resequenced 1..n+1 afterward and the legs adjacent to the insertion
// point are refreshed.
func InsertStop(stops []*domain.RouteStop, newStop *domain.RouteStop, start domain.Coordinates) []*domain.RouteStop {
	bestPos := 0
	bestCost := -1.0

	for i := 0; i <= len(stops); i++ {
		prev := start
		if i > 0 {
			prev = stops[i-1].Coordinates
		}

		var cost float64
		if i == len(stops) {
			cost = geo.Distance(prev, newStop.Coordinates)
		} else {
			next := stops[i].Coordinates
			cost = geo.Distance(prev, newStop.Coordinates) +
				geo.Distance(newStop.Coordinates, next) -
				geo.Distance(prev, next)
		}

		if bestCost < 0 || cost < bestCost {
			bestPos, bestCost = i, cost
		}
	}

	out := make([]*domain.RouteStop, 0, len(stops)+1)
	out = append(out, stops[:bestPos]...)
	out = append(out, newStop)
	out = append(out, stops[bestPos:]...)

	prev := start
	if bestPos > 0 {
		prev = out[bestPos-1].Coordinates
	}
	newStop.LegDistanceKm = geo.Distance(prev, newStop.Coordinates)
	if bestPos+1 < len(out) {
		out[bestPos+1].LegDistanceKm = geo.Distance(newStop.Coordinates, out[bestPos+1].Coordinates)
	}

	resequence(out)
	return out
}

// RemoveStop filters out the stop with the given id and renumbers the
// remainder to a contiguous 1..n run preserving relative order.
func RemoveStop(stops []*domain.RouteStop, stopID string) []*domain.RouteStop {
	out := make([]*domain.RouteStop, 0, len(stops))
	for _, s := range stops {
		if s.ID != stopID {
			out = append(out, s)
		}
	}
	resequence(out)
	return out
}

// ResequenceStops renumbers sequence fields in place and returns the slice.
func ResequenceStops(stops []*domain.RouteStop) []*domain.RouteStop {
	resequence(stops)
	return stops
}
