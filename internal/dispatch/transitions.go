// Package dispatch validates status transitions for route stops and pickup
// requests. Transition tables are explicit and closed: every legal
// (from, to) pair is enumerated per flavor, and evidence requirements are
// checked collecting all missing fields rather than failing on the first.
package dispatch

import (
	"fmt"
	"time"

	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/geo"
	"lab-dispatch-service/internal/services"
)

type Flavor string

const (
	FlavorPickup Flavor = "pickup"
	FlavorStop   Flavor = "stop"
)

// DefaultGeofenceRadiusM is how far reported coordinates may sit from the
// stop's expected location before the variance is flagged.
const DefaultGeofenceRadiusM = 100.0

type transition struct {
	from, to domain.Status
}

func buildTable(pairs ...transition) map[transition]struct{} {
	t := make(map[transition]struct{}, len(pairs))
	for _, p := range pairs {
		t[p] = struct{}{}
	}
	return t
}

// escapes returns the Skipped/Cancelled/Rescheduled exits for a set of
// non-terminal states.
func escapes(from ...domain.Status) []transition {
	out := make([]transition, 0, len(from)*3)
	for _, f := range from {
		out = append(out,
			transition{f, domain.StatusSkipped},
			transition{f, domain.StatusCancelled},
			transition{f, domain.StatusRescheduled},
		)
	}
	return out
}

var stopTransitions = buildTable(append([]transition{
	{domain.StatusPending, domain.StatusAssigned},
	{domain.StatusAssigned, domain.StatusEnRoute},
	{domain.StatusEnRoute, domain.StatusArrived},
	{domain.StatusArrived, domain.StatusCompleted},
	{domain.StatusRescheduled, domain.StatusPending},
	{domain.StatusRescheduled, domain.StatusAssigned},
	{domain.StatusRescheduled, domain.StatusCancelled},
}, escapes(
	domain.StatusPending,
	domain.StatusAssigned,
	domain.StatusEnRoute,
	domain.StatusArrived,
)...)...)

var pickupTransitions = buildTable(append([]transition{
	{domain.StatusPending, domain.StatusAssigned},
	{domain.StatusAssigned, domain.StatusInProgress},
	{domain.StatusInProgress, domain.StatusArrived},
	{domain.StatusArrived, domain.StatusCompleted},
	{domain.StatusRescheduled, domain.StatusPending},
	{domain.StatusRescheduled, domain.StatusAssigned},
	{domain.StatusRescheduled, domain.StatusCancelled},
}, escapes(
	domain.StatusPending,
	domain.StatusAssigned,
	domain.StatusInProgress,
	domain.StatusArrived,
)...)...)

// Evidence carries the proof fields a field transition may require.
// Absent fields are zero values.
type Evidence struct {
	DriverID           string
	ActualArrival      *time.Time
	Coordinates        *domain.Coordinates
	CompletedAt        *time.Time
	SignatureURL       string
	VerificationCode   string
	SkipReason         string
	CancellationReason string
	NewWindow          *domain.TimeWindow
}

type TransitionRequest struct {
	Flavor  Flavor
	Current domain.Status
	Target  domain.Status

	// StopType distinguishes delivery stops (signature proof) from pickup
	// stops (verification code) for the stop flavor.
	StopType domain.StopType

	// Expected is the stop's planned location, used for geofencing when
	// the evidence includes coordinates.
	Expected *domain.Coordinates

	// Hours, when present, lets a Rescheduled target validate its new
	// window against the clinic schedule.
	Hours domain.OperatingHours

	Evidence Evidence
}

type TransitionResult struct {
	Valid  bool
	Errors []string

	// DistanceVarianceM is set whenever evidence coordinates and an
	// expected location are both present. Exceeding the geofence radius
	// is recorded here but never blocks the transition.
	DistanceVarianceM *float64
}

// ValidateTransition checks the (current, target) pair against the
// flavor's allow-list, then collects every missing piece of required
// evidence for the target state.
func ValidateTransition(req TransitionRequest) TransitionResult {
	table, ok := tableFor(req.Flavor)
	if !ok {
		return TransitionResult{Errors: []string{fmt.Sprintf("unknown flavor %q", req.Flavor)}}
	}

	if _, legal := table[transition{req.Current, req.Target}]; !legal {
		return TransitionResult{Errors: []string{
			fmt.Sprintf("illegal transition %s -> %s for flavor %s", req.Current, req.Target, req.Flavor),
		}}
	}

	errs := requiredEvidence(req)
	res := TransitionResult{Valid: len(errs) == 0, Errors: errs}

	if req.Evidence.Coordinates != nil && req.Expected != nil {
		variance := geo.Distance(*req.Evidence.Coordinates, *req.Expected) * 1000
		res.DistanceVarianceM = &variance
	}

	return res
}

func tableFor(f Flavor) (map[transition]struct{}, bool) {
	switch f {
	case FlavorPickup:
		return pickupTransitions, true
	case FlavorStop:
		return stopTransitions, true
	}
	return nil, false
}

func requiredEvidence(req TransitionRequest) []string {
	ev := req.Evidence
	errs := []string{}

	switch req.Target {
	case domain.StatusAssigned:
		if ev.DriverID == "" {
			errs = append(errs, "missing driverId")
		}

	case domain.StatusArrived:
		if ev.ActualArrival == nil {
			errs = append(errs, "missing actualArrival")
		}
		if ev.Coordinates == nil {
			errs = append(errs, "missing coordinates")
		} else if err := ev.Coordinates.Validate(); err != nil {
			errs = append(errs, err.Error())
		}

	case domain.StatusCompleted:
		if ev.CompletedAt == nil {
			errs = append(errs, "missing completedAt")
		}
		if needsVerificationCode(req) && ev.VerificationCode == "" {
			errs = append(errs, "missing verificationCode")
		}
		if needsSignature(req) && ev.SignatureURL == "" {
			errs = append(errs, "missing signatureUrl")
		}

	case domain.StatusSkipped:
		if ev.SkipReason == "" {
			errs = append(errs, "missing skipReason")
		}

	case domain.StatusCancelled:
		if ev.CancellationReason == "" {
			errs = append(errs, "missing cancellationReason")
		}

	case domain.StatusRescheduled:
		if ev.NewWindow == nil {
			errs = append(errs, "missing new time window")
			break
		}
		if err := ev.NewWindow.Validate(); err != nil {
			errs = append(errs, err.Error())
			break
		}
		if req.Hours != nil {
			if v := services.ValidateWindow(*ev.NewWindow, req.Hours); !v.Valid {
				errs = append(errs, fmt.Sprintf("new time window rejected: %s", v.Reason))
			}
		}
	}

	return errs
}

// Completing a pickup (either a pickup request or a pickup-type stop)
// requires the clinic's verification code.
func needsVerificationCode(req TransitionRequest) bool {
	if req.Flavor == FlavorPickup {
		return true
	}
	return req.StopType == domain.StopPickup
}

// Delivery stops require the recipient's signature instead.
func needsSignature(req TransitionRequest) bool {
	return req.Flavor == FlavorStop && req.StopType == domain.StopDelivery
}
