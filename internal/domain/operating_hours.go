package domain

import (
	"fmt"
	"strings"
	"time"
)

// One contiguous open interval within a day, as wall-clock "HH:MM" strings.
// A day with a lunch break lists two ranges.
type OpenRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Minutes returns the range boundaries as minutes from midnight.
func (r OpenRange) Minutes() (openMin, closeMin int, err error) {
	openMin, err = parseClock(r.Open)
	if err != nil {
		return 0, 0, fmt.Errorf("open %q: %w", r.Open, err)
	}
	closeMin, err = parseClock(r.Close)
	if err != nil {
		return 0, 0, fmt.Errorf("close %q: %w", r.Close, err)
	}
	if openMin >= closeMin {
		return 0, 0, fmt.Errorf("range %s-%s: open must precede close", r.Open, r.Close)
	}
	return openMin, closeMin, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock: %w", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Weekly operating-hours schedule. Days absent from the map are closed.
type OperatingHours map[time.Weekday][]OpenRange

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseOperatingHours converts the persisted day-name keyed form into the
// weekday-keyed schedule. Unknown day names fail fast.
func ParseOperatingHours(raw map[string][]OpenRange) (OperatingHours, error) {
	hours := make(OperatingHours, len(raw))
	for name, ranges := range raw {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("operating hours: unknown day %q", name)
		}
		for _, r := range ranges {
			if _, _, err := r.Minutes(); err != nil {
				return nil, fmt.Errorf("operating hours: %s: %w", name, err)
			}
		}
		hours[day] = ranges
	}
	return hours, nil
}
