package services

import (
	"testing"
	"time"

	"lab-dispatch-service/internal/domain"
)

func scheduledStop(id string, lat, lng float64, hour int) *domain.RouteStop {
	s := stopAt(id, lat, lng)
	at := time.Date(2026, 8, 31, hour, 0, 0, 0, time.UTC)
	s.DesiredArrival = &at
	return s
}

func TestOptimizeByTimeWindowsBucketOrder(t *testing.T) {
	stops := []*domain.RouteStop{
		scheduledStop("evening", 0.01, 0, 18),
		scheduledStop("morning", 0.05, 0, 9),
		scheduledStop("afternoon", 0.02, 0, 14),
	}
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	got := OptimizeByTimeWindows(stops, domain.Coordinates{}, now)

	wantOrder := []string{"morning", "afternoon", "evening"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestOptimizeByTimeWindowsUnscheduledDefaultsToAfternoon(t *testing.T) {
	stops := []*domain.RouteStop{
		scheduledStop("evening", 0.01, 0, 19),
		stopAt("unscheduled", 0.02, 0),
		scheduledStop("morning", 0.03, 0, 10),
	}
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	got := OptimizeByTimeWindows(stops, domain.Coordinates{}, now)

	wantOrder := []string{"morning", "unscheduled", "evening"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestOptimizeByTimeWindowsBoundaries(t *testing.T) {
	// 11:59 is morning, 12:00 afternoon, 16:59 afternoon, 17:00 evening.
	at := func(hour, min int) *time.Time {
		v := time.Date(2026, 8, 31, hour, min, 0, 0, time.UTC)
		return &v
	}

	cases := []struct {
		arrival *time.Time
		want    timeBucket
	}{
		{at(11, 59), bucketMorning},
		{at(12, 0), bucketAfternoon},
		{at(16, 59), bucketAfternoon},
		{at(17, 0), bucketEvening},
		{nil, bucketAfternoon},
	}

	for _, tc := range cases {
		s := stopAt("x", 0, 0)
		s.DesiredArrival = tc.arrival
		if got := bucketFor(s); got != tc.want {
			t.Errorf("bucketFor(%v) = %d, want %d", tc.arrival, got, tc.want)
		}
	}
}

func TestOptimizeByTimeWindowsEstimatedArrivals(t *testing.T) {
	stops := []*domain.RouteStop{
		scheduledStop("a", 0.1, 0, 9),
		scheduledStop("b", 0.2, 0, 9),
	}
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	got := OptimizeByTimeWindows(stops, domain.Coordinates{}, now)

	var prev time.Time = now
	for _, s := range got {
		if s.EstimatedArrival == nil {
			t.Fatalf("stop %q has no estimated arrival", s.ID)
		}
		if !s.EstimatedArrival.After(prev) {
			t.Fatalf("stop %q ETA %v not after %v", s.ID, s.EstimatedArrival, prev)
		}
		prev = *s.EstimatedArrival
	}

	// First leg is ~11.1km; at 40km/h padded 1.2x that is ~20 minutes.
	firstETA := got[0].EstimatedArrival.Sub(now)
	if firstETA < 15*time.Minute || firstETA > 25*time.Minute {
		t.Errorf("first ETA offset = %v, want ~20m", firstETA)
	}
}
