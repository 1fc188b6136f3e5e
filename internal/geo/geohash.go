package geo

import (
	"fmt"
	"strings"

	"lab-dispatch-service/internal/domain"
)

// Geohash base-32 alphabet. Note i, l, o are absent.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// DefaultPrecision (9 characters) resolves to a cell of roughly 5m x 5m,
// plenty for clinic-level proximity indexing.
const DefaultPrecision = 9

// EncodeGeohash encodes a point by iterative binary subdivision of the
// lat/lng bounding box, alternating longitude and latitude bits, packed
// five bits per output character. precision <= 0 selects DefaultPrecision.
func EncodeGeohash(lat, lng float64, precision int) (string, error) {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	if err := (domain.Coordinates{Lat: lat, Lng: lng}).Validate(); err != nil {
		return "", fmt.Errorf("encode geohash: %w: %v", ErrInvalidCoordinates, err)
	}

	latMin, latMax := -90.0, 90.0
	lngMin, lngMax := -180.0, 180.0

	var sb strings.Builder
	sb.Grow(precision)

	ch, bit := 0, 0
	evenBit := true

	for sb.Len() < precision {
		if evenBit {
			mid := (lngMin + lngMax) / 2
			if lng >= mid {
				ch = ch<<1 | 1
				lngMin = mid
			} else {
				ch <<= 1
				lngMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat >= mid {
				ch = ch<<1 | 1
				latMin = mid
			} else {
				ch <<= 1
				latMax = mid
			}
		}
		evenBit = !evenBit

		bit++
		if bit == 5 {
			sb.WriteByte(base32[ch])
			ch, bit = 0, 0
		}
	}

	return sb.String(), nil
}

// DecodeGeohash returns the midpoint of the bounding box a hash denotes.
func DecodeGeohash(hash string) (domain.Coordinates, error) {
	latMin, latMax, lngMin, lngMax, err := decodeBounds(hash)
	if err != nil {
		return domain.Coordinates{}, err
	}

	return domain.Coordinates{
		Lat: (latMin + latMax) / 2,
		Lng: (lngMin + lngMax) / 2,
	}, nil
}

func decodeBounds(hash string) (latMin, latMax, lngMin, lngMax float64, err error) {
	if hash == "" {
		return 0, 0, 0, 0, fmt.Errorf("decode geohash: %w: empty hash", ErrInvalidGeohash)
	}

	latMin, latMax = -90.0, 90.0
	lngMin, lngMax = -180.0, 180.0
	evenBit := true

	for i := 0; i < len(hash); i++ {
		idx := strings.IndexByte(base32, hash[i])
		if idx < 0 {
			return 0, 0, 0, 0, fmt.Errorf("decode geohash: %w: character %q at position %d",
				ErrInvalidGeohash, hash[i], i)
		}

		for mask := 16; mask > 0; mask >>= 1 {
			if evenBit {
				mid := (lngMin + lngMax) / 2
				if idx&mask != 0 {
					lngMin = mid
				} else {
					lngMax = mid
				}
			} else {
				mid := (latMin + latMax) / 2
				if idx&mask != 0 {
					latMin = mid
				} else {
					latMax = mid
				}
			}
			evenBit = !evenBit
		}
	}

	return latMin, latMax, lngMin, lngMax, nil
}

type direction int

const (
	north direction = iota
	south
	east
	west
)

// Directional character remapping and border detection tables, indexed by
// the parity of the hash length (index 0: even length, index 1: odd).
// Crossing a cell border propagates the step into the parent hash.
var neighborTable = map[direction][2]string{
	north: {"p0r21436x8zb9dcf5h7kjnmqesgutwvy", "bc01fg45238967deuvhjyznpkmstqrwx"},
	south: {"14365h7k9dcfesgujnmqp0r2twvyx8zb", "238967debc01fg45kmstqrwxuvhjyznp"},
	east:  {"bc01fg45238967deuvhjyznpkmstqrwx", "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
	west:  {"238967debc01fg45kmstqrwxuvhjyznp", "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
}

var borderTable = map[direction][2]string{
	north: {"prxz", "bcfguvyz"},
	south: {"028b", "0145hjnp"},
	east:  {"bcfguvyz", "prxz"},
	west:  {"0145hjnp", "028b"},
}

// adjacent returns the same-precision neighbor in the given direction.
// ok is false when no such cell exists (stepping north/south off a pole).
func adjacent(hash string, d direction) (neighbor string, ok bool) {
	if hash == "" {
		return "", false
	}

	last := hash[len(hash)-1]
	parent := hash[:len(hash)-1]
	parity := len(hash) % 2

	if strings.IndexByte(borderTable[d][parity], last) >= 0 {
		parent, ok = adjacent(parent, d)
		if !ok {
			return "", false
		}
	}

	idx := strings.IndexByte(neighborTable[d][parity], last)
	if idx < 0 {
		return "", false
	}
	return parent + string(base32[idx]), true
}

// Neighbors returns up to eight adjacent cells of the same precision,
// clockwise from north. Cells that do not exist (poles) are omitted.
func Neighbors(hash string) ([]string, error) {
	if _, err := DecodeGeohash(hash); err != nil {
		return nil, err
	}

	out := make([]string, 0, 8)
	add := func(h string, ok bool) {
		if ok {
			out = append(out, h)
		}
	}

	n, nOK := adjacent(hash, north)
	s, sOK := adjacent(hash, south)

	add(n, nOK)
	if nOK {
		add(adjacent(n, east)) // NE
	}
	add(adjacent(hash, east))
	if sOK {
		add(adjacent(s, east)) // SE
	}
	add(s, sOK)
	if sOK {
		add(adjacent(s, west)) // SW
	}
	add(adjacent(hash, west))
	if nOK {
		add(adjacent(n, west)) // NW
	}

	return out, nil
}
