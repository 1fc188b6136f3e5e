package ports

import (
	"context"

	"lab-dispatch-service/internal/domain"
)

// One hit from a proximity lookup, sorted nearest-first.
type ProximityHit struct {
	ClinicID   string
	DistanceKm float64
}

// Port: a geospatial index for answering "which clinics are near here".
// The index holds derived data only; it is always recomputable from the
// clinic repository.
type ProximityIndex interface {
	Register(ctx context.Context, clinicID string, c domain.Coordinates) error
	Remove(ctx context.Context, clinicID string) error
	Nearby(ctx context.Context, center domain.Coordinates, radiusKm float64) ([]ProximityHit, error)
}
