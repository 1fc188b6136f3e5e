package services

import (
	"math"
	"strings"
	"testing"

	"lab-dispatch-service/internal/domain"
)

func TestRouteMetrics(t *testing.T) {
	a := stopAt("a", 0, 0.1)
	a.LegDistanceKm = 2.0
	b := stopAt("b", 0, 0.2)
	b.LegDistanceKm = 3.0

	got := RouteMetrics([]*domain.RouteStop{a, b})

	if math.Abs(got.TotalDistanceKm-5.0) > 1e-9 {
		t.Errorf("TotalDistanceKm = %.4f, want 5.0", got.TotalDistanceKm)
	}
	// 5km at 40km/h is 7.5 minutes plus 2x10 minutes service, ceiled.
	if got.EstimatedDurationMin != 28 {
		t.Errorf("EstimatedDurationMin = %d, want 28", got.EstimatedDurationMin)
	}
	if got.StopsTotal != 2 {
		t.Errorf("StopsTotal = %d, want 2", got.StopsTotal)
	}
}

func TestRouteMetricsEmpty(t *testing.T) {
	got := RouteMetrics(nil)
	if got.TotalDistanceKm != 0 || got.EstimatedDurationMin != 0 || got.StopsTotal != 0 {
		t.Fatalf("empty metrics = %+v, want zeroes", got)
	}
}

func TestValidateStopSequence(t *testing.T) {
	valid := ResequenceStops([]*domain.RouteStop{
		stopAt("a", 0, 0.1),
		stopAt("b", 0, 0.2),
		stopAt("c", 0, 0.3),
	})
	if v := ValidateStopSequence(valid); !v.Valid {
		t.Fatalf("contiguous 1..3 flagged invalid: %v", v.Errors)
	}

	if v := ValidateStopSequence(nil); !v.Valid {
		t.Fatalf("empty list flagged invalid: %v", v.Errors)
	}
}

func TestValidateStopSequenceCollectsAllViolations(t *testing.T) {
	a := stopAt("a", 0, 0.1)
	a.Sequence = 1
	b := stopAt("b", 0, 0.2)
	b.Sequence = 1
	c := stopAt("c", 0, 0.3)
	c.Sequence = 5

	v := ValidateStopSequence([]*domain.RouteStop{a, b, c})
	if v.Valid {
		t.Fatal("broken sequence reported valid")
	}

	joined := strings.Join(v.Errors, "; ")
	for _, want := range []string{"duplicate sequence 1", "missing sequence 2", "missing sequence 3", "outside 1..3"} {
		if !strings.Contains(joined, want) {
			t.Errorf("errors %q missing %q", joined, want)
		}
	}
}
