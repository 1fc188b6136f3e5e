package domain

import "fmt"

// Geographic point in decimal degrees (WGS 84).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Validate rejects coordinates outside the valid latitude/longitude ranges.
// Every boundary entry point that accepts coordinates must call this before
// doing any geospatial math.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("coordinates: latitude %.6f out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("coordinates: longitude %.6f out of range [-180, 180]", c.Lng)
	}
	return nil
}
