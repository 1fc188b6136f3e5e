package geo

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeGeohashKnownValue(t *testing.T) {
	// Reference point from the original geohash write-up.
	got, err := EncodeGeohash(42.6, -5.6, 5)
	if err != nil {
		t.Fatalf("EncodeGeohash: unexpected error: %v", err)
	}
	if got != "ezs42" {
		t.Fatalf("EncodeGeohash(42.6, -5.6, 5) = %q, want %q", got, "ezs42")
	}
}

func TestEncodeGeohashDefaultPrecision(t *testing.T) {
	got, err := EncodeGeohash(33.4484, -112.074, 0)
	if err != nil {
		t.Fatalf("EncodeGeohash: unexpected error: %v", err)
	}
	if len(got) != DefaultPrecision {
		t.Fatalf("default precision hash length = %d, want %d", len(got), DefaultPrecision)
	}
}

func TestEncodeGeohashInvalidCoordinates(t *testing.T) {
	if _, err := EncodeGeohash(91, 0, 5); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("EncodeGeohash(91, 0) error = %v, want ErrInvalidCoordinates", err)
	}
}

func TestGeohashRoundTrip(t *testing.T) {
	cases := []struct {
		lat, lng float64
	}{
		{33.4484, -112.074},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
		{0, 0},
	}

	for _, tc := range cases {
		hash, err := EncodeGeohash(tc.lat, tc.lng, 9)
		if err != nil {
			t.Fatalf("EncodeGeohash(%.4f, %.4f): %v", tc.lat, tc.lng, err)
		}

		c, err := DecodeGeohash(hash)
		if err != nil {
			t.Fatalf("DecodeGeohash(%q): %v", hash, err)
		}

		// 9 characters resolve to a cell under 5m across, so the decoded
		// midpoint must land within 1e-4 degrees of the input.
		if math.Abs(c.Lat-tc.lat) > 1e-4 || math.Abs(c.Lng-tc.lng) > 1e-4 {
			t.Errorf("round trip (%.4f, %.4f) -> %q -> (%.6f, %.6f)",
				tc.lat, tc.lng, hash, c.Lat, c.Lng)
		}
	}
}

func TestDecodeGeohashInvalid(t *testing.T) {
	if _, err := DecodeGeohash(""); !errors.Is(err, ErrInvalidGeohash) {
		t.Errorf("DecodeGeohash(\"\") error = %v, want ErrInvalidGeohash", err)
	}
	// 'a' is not in the geohash alphabet.
	if _, err := DecodeGeohash("ezsa2"); !errors.Is(err, ErrInvalidGeohash) {
		t.Errorf("DecodeGeohash(\"ezsa2\") error = %v, want ErrInvalidGeohash", err)
	}
}

func TestNeighborsKnownCell(t *testing.T) {
	got, err := Neighbors("ezs42")
	if err != nil {
		t.Fatalf("Neighbors: unexpected error: %v", err)
	}

	want := []string{"ezs48", "ezs49", "ezs43", "ezs41", "ezs40", "ezefp", "ezefr", "ezefx"}
	if len(got) != len(want) {
		t.Fatalf("Neighbors returned %d cells, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNeighborsDistinct(t *testing.T) {
	hash, err := EncodeGeohash(33.4484, -112.074, 4)
	if err != nil {
		t.Fatalf("EncodeGeohash: %v", err)
	}

	got, err := Neighbors(hash)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}

	seen := map[string]bool{hash: true}
	for _, n := range got {
		if seen[n] {
			t.Errorf("duplicate or self neighbor %q", n)
		}
		seen[n] = true
		if len(n) != len(hash) {
			t.Errorf("neighbor %q has precision %d, want %d", n, len(n), len(hash))
		}
	}
}

func TestNeighborsInvalidHash(t *testing.T) {
	if _, err := Neighbors("ez!"); !errors.Is(err, ErrInvalidGeohash) {
		t.Fatalf("Neighbors(\"ez!\") error = %v, want ErrInvalidGeohash", err)
	}
}
