// Package geo contains pure geospatial computation: great-circle distance,
// centroid, radius containment, and geohash encoding. Everything here is
// synchronous, allocation-light, and safe for concurrent use.
package geo

import (
	"errors"
	"fmt"
	"math"

	"lab-dispatch-service/internal/domain"
)

const earthRadiusKm = 6371.0

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidGeohash     = errors.New("invalid geohash")
	ErrEmptyPointSet      = errors.New("empty point set")
)

// Distance returns the Haversine great-circle distance in kilometres.
// This is straight-line geodesic distance, not road distance: symmetric,
// zero for identical points.
func Distance(a, b domain.Coordinates) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Centroid returns the arithmetic mean of the given points.
func Centroid(points []domain.Coordinates) (domain.Coordinates, error) {
	if len(points) == 0 {
		return domain.Coordinates{}, fmt.Errorf("centroid: %w", ErrEmptyPointSet)
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}

	n := float64(len(points))
	return domain.Coordinates{Lat: sumLat / n, Lng: sumLng / n}, nil
}

// WithinRadius reports whether point lies within radiusKm of center.
func WithinRadius(point, center domain.Coordinates, radiusKm float64) bool {
	return Distance(point, center) <= radiusKm
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
