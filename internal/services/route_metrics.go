package services

import (
	"fmt"
	"math"

	"lab-dispatch-service/internal/domain"
)

// RouteMetrics derives aggregate figures from an optimized stop list.
// Total distance is the sum of the per-leg distances already attached to
// each stop; duration assumes avgSpeedKmh travel plus the flat per-stop
// service time, rounded up to whole minutes.
func RouteMetrics(stops []*domain.RouteStop) domain.RouteMetrics {
	total := 0.0
	for _, s := range stops {
		total += s.LegDistanceKm
	}

	duration := int(math.Ceil(total/avgSpeedKmh*60 + serviceTimeMin*float64(len(stops))))

	return domain.RouteMetrics{
		TotalDistanceKm:      total,
		EstimatedDurationMin: duration,
		StopsTotal:           len(stops),
	}
}

type SequenceValidation struct {
	Valid  bool
	Errors []string
}

// ValidateStopSequence flags duplicate sequence numbers and gaps in the
// expected 1..n run. A legal sequence is exactly a permutation of 1..n.
// All violations are collected, not just the first.
func ValidateStopSequence(stops []*domain.RouteStop) SequenceValidation {
	errs := []string{}
	counts := make(map[int]int, len(stops))
	for _, s := range stops {
		counts[s.Sequence]++
	}

	for seq := 1; seq <= len(stops); seq++ {
		switch n := counts[seq]; {
		case n == 0:
			errs = append(errs, fmt.Sprintf("missing sequence %d", seq))
		case n > 1:
			errs = append(errs, fmt.Sprintf("duplicate sequence %d (%d stops)", seq, n))
		}
	}

	for _, s := range stops {
		if s.Sequence < 1 || s.Sequence > len(stops) {
			errs = append(errs, fmt.Sprintf("stop %s sequence %d outside 1..%d", s.ID, s.Sequence, len(stops)))
		}
	}

	return SequenceValidation{Valid: len(errs) == 0, Errors: errs}
}
