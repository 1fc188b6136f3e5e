package services

import (
	"time"

	"lab-dispatch-service/internal/domain"
)

type timeBucket int

// Fixed-precedence buckets. The 12:00 and 17:00 boundaries are carried
// over from the existing dispatch rules.
const (
	bucketMorning timeBucket = iota
	bucketAfternoon
	bucketEvening
	bucketCount
)

func bucketFor(stop *domain.RouteStop) timeBucket {
	if stop.DesiredArrival == nil {
		// Unscheduled stops default into the afternoon run.
		return bucketAfternoon
	}

	switch h := stop.DesiredArrival.Hour(); {
	case h < 12:
		return bucketMorning
	case h < 17:
		return bucketAfternoon
	default:
		return bucketEvening
	}
}

// OptimizeByTimeWindows sorts stops into Morning/Afternoon/Evening buckets
// by desired arrival hour, then runs the nearest-neighbor heuristic within
// each bucket, continuing from the position and clock where the previous
// bucket ended. Each stop receives an estimated arrival (travel at
// avgSpeedKmh padded by the traffic factor); the running clock then
// advances by a flat per-stop service time.
func OptimizeByTimeWindows(stops []*domain.RouteStop, start domain.Coordinates, now time.Time) []*domain.RouteStop {
	if len(stops) == 0 {
		return []*domain.RouteStop{}
	}

	var buckets [bucketCount][]*domain.RouteStop
	for _, s := range stops {
		b := bucketFor(s)
		buckets[b] = append(buckets[b], s)
	}

	ordered := make([]*domain.RouteStop, 0, len(stops))
	position := start
	clock := now

	for _, group := range buckets {
		if len(group) == 0 {
			continue
		}

		for _, s := range NearestNeighborRoute(group, position) {
			clock = clock.Add(travelTime(s.LegDistanceKm))
			eta := clock
			s.EstimatedArrival = &eta
			clock = clock.Add(serviceTimeMin * time.Minute)

			ordered = append(ordered, s)
			position = s.Coordinates
		}
	}

	resequence(ordered)
	return ordered
}

func travelTime(distanceKm float64) time.Duration {
	hours := distanceKm / avgSpeedKmh * trafficFactor
	return time.Duration(hours * float64(time.Hour))
}
