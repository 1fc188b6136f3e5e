// Package proximity provides a Redis-backed geospatial index over clinics,
// keyed by geohash cells. The index is derived data: it can always be
// rebuilt from the clinic repository.
package proximity

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/geo"
	"lab-dispatch-service/internal/ports"
)

const (
	// cellPrecision 4 gives cells of roughly 39km x 20km; together with
	// the 8-cell neighbor ring, lookups are exhaustive for radii up to
	// about 19km, which covers a metro courier territory.
	cellPrecision = 4

	cellKeyPrefix  = "proximity:cell:"
	coordsKey      = "proximity:clinics"
	clinicCellsKey = "proximity:clinic_cells"
)

// RedisProximityIndex implements the ProximityIndex port on Redis sets.
// Clinics are members of the set for their geohash cell; a lookup unions
// the center cell with its neighbors and distance-filters the candidates.
type RedisProximityIndex struct {
	client *redis.Client
}

func NewRedisProximityIndex(client *redis.Client) *RedisProximityIndex {
	return &RedisProximityIndex{client: client}
}

func (r *RedisProximityIndex) Register(ctx context.Context, clinicID string, c domain.Coordinates) error {
	if strings.TrimSpace(clinicID) == "" {
		return fmt.Errorf("proximity register: clinic id must be non-empty")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("proximity register: %w", err)
	}

	cell, err := geo.EncodeGeohash(c.Lat, c.Lng, cellPrecision)
	if err != nil {
		return fmt.Errorf("proximity register: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, cellKeyPrefix+cell, clinicID)
	pipe.HSet(ctx, coordsKey, clinicID, encodeCoords(c))
	pipe.HSet(ctx, clinicCellsKey, clinicID, cell)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("proximity register %q: %w", clinicID, err)
	}

	return nil
}

func (r *RedisProximityIndex) Remove(ctx context.Context, clinicID string) error {
	cell, err := r.client.HGet(ctx, clinicCellsKey, clinicID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("proximity remove %q: %w", clinicID, err)
	}

	pipe := r.client.Pipeline()
	pipe.SRem(ctx, cellKeyPrefix+cell, clinicID)
	pipe.HDel(ctx, coordsKey, clinicID)
	pipe.HDel(ctx, clinicCellsKey, clinicID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("proximity remove %q: %w", clinicID, err)
	}

	return nil
}

func (r *RedisProximityIndex) Nearby(ctx context.Context, center domain.Coordinates, radiusKm float64) ([]ports.ProximityHit, error) {
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("proximity nearby: %w", err)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("proximity nearby: radius %.3f must be positive", radiusKm)
	}

	cell, err := geo.EncodeGeohash(center.Lat, center.Lng, cellPrecision)
	if err != nil {
		return nil, fmt.Errorf("proximity nearby: %w", err)
	}
	neighbors, err := geo.Neighbors(cell)
	if err != nil {
		return nil, fmt.Errorf("proximity nearby: %w", err)
	}

	keys := make([]string, 0, len(neighbors)+1)
	keys = append(keys, cellKeyPrefix+cell)
	for _, n := range neighbors {
		keys = append(keys, cellKeyPrefix+n)
	}

	ids, err := r.client.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("proximity nearby: union cells: %w", err)
	}
	if len(ids) == 0 {
		return []ports.ProximityHit{}, nil
	}

	coords, err := r.client.HMGet(ctx, coordsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("proximity nearby: fetch coordinates: %w", err)
	}

	hits := make([]ports.ProximityHit, 0, len(ids))
	for i, id := range ids {
		raw, ok := coords[i].(string)
		if !ok {
			// Cell membership without coordinates means a half-applied
			// registration; skip rather than fail the lookup.
			continue
		}

		c, err := decodeCoords(raw)
		if err != nil {
			return nil, fmt.Errorf("proximity nearby: clinic %q: %w", id, err)
		}

		if d := geo.Distance(center, c); d <= radiusKm {
			hits = append(hits, ports.ProximityHit{ClinicID: id, DistanceKm: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].DistanceKm < hits[j].DistanceKm })

	return hits, nil
}

func encodeCoords(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func decodeCoords(s string) (domain.Coordinates, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("malformed coordinates %q", s)
	}

	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("malformed latitude %q: %w", lat, err)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("malformed longitude %q: %w", lng, err)
	}

	return domain.Coordinates{Lat: latF, Lng: lngF}, nil
}
