package services

import (
	"time"

	"lab-dispatch-service/internal/domain"
)

// Grace period applied when judging SLA compliance of an actual arrival.
const slaGrace = 15 * time.Minute

type WindowValidation struct {
	Valid  bool
	Reason string
}

// ValidateWindow checks a requested window against a clinic's weekly
// schedule. The window is valid only when fully contained in exactly one
// contiguous open range: a window spanning a lunch-break gap between two
// ranges is invalid even if the union of the ranges would cover it.
func ValidateWindow(w domain.TimeWindow, hours domain.OperatingHours) WindowValidation {
	if err := w.Validate(); err != nil {
		return WindowValidation{Valid: false, Reason: "start must precede end"}
	}

	y1, m1, d1 := w.Start.Date()
	y2, m2, d2 := w.End.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return WindowValidation{Valid: false, Reason: "window spans multiple days"}
	}

	ranges := hours[w.Start.Weekday()]
	if len(ranges) == 0 {
		return WindowValidation{Valid: false, Reason: "closed"}
	}

	startMin := w.Start.Hour()*60 + w.Start.Minute()
	endMin := w.End.Hour()*60 + w.End.Minute()

	for _, r := range ranges {
		openMin, closeMin, err := r.Minutes()
		if err != nil {
			return WindowValidation{Valid: false, Reason: "malformed operating hours"}
		}
		if startMin >= openMin && endMin <= closeMin {
			return WindowValidation{Valid: true}
		}
	}

	return WindowValidation{Valid: false, Reason: "outside operating hours"}
}

// WindowsOverlap reports strict half-open interval intersection.
func WindowsOverlap(a, b domain.TimeWindow) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// AvailableWindows tiles each open range of the date's weekday into
// consecutive windows of the given duration, starting at the range's open
// time. A window that would extend past the range's close time is dropped,
// not truncated.
func AvailableWindows(date time.Time, hours domain.OperatingHours, duration time.Duration) []domain.TimeWindow {
	windows := []domain.TimeWindow{}
	if duration <= 0 {
		return windows
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	durMin := int(duration / time.Minute)

	for _, r := range hours[date.Weekday()] {
		openMin, closeMin, err := r.Minutes()
		if err != nil {
			continue
		}
		for t := openMin; t+durMin <= closeMin; t += durMin {
			windows = append(windows, domain.TimeWindow{
				Start: midnight.Add(time.Duration(t) * time.Minute),
				End:   midnight.Add(time.Duration(t+durMin) * time.Minute),
			})
		}
	}

	return windows
}

type SLAResult struct {
	Compliant       bool
	VarianceMinutes int
	ActualRecorded  bool
}

// SLACompliance judges an actual event time against its expected time.
// Compliant iff actual is no later than expected plus the grace period.
// A missing actual is always non-compliant.
func SLACompliance(expected time.Time, actual *time.Time) SLAResult {
	if actual == nil {
		return SLAResult{Compliant: false}
	}

	return SLAResult{
		Compliant:       !actual.After(expected.Add(slaGrace)),
		VarianceMinutes: int(actual.Sub(expected) / time.Minute),
		ActualRecorded:  true,
	}
}
