package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-dispatch-service/internal/domain"
)

func ts(hour int) *time.Time {
	v := time.Date(2026, 8, 31, hour, 0, 0, 0, time.UTC)
	return &v
}

func TestValidateTransitionHappyPathStop(t *testing.T) {
	res := ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusPending,
		Target:   domain.StatusAssigned,
		Evidence: Evidence{DriverID: "drv-7"},
	})

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateTransitionIllegalPair(t *testing.T) {
	res := ValidateTransition(TransitionRequest{
		Flavor:  FlavorStop,
		Current: domain.StatusPending,
		Target:  domain.StatusCompleted,
	})

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "illegal transition")
}

func TestValidateTransitionUnknownFlavor(t *testing.T) {
	res := ValidateTransition(TransitionRequest{
		Flavor:  Flavor("truck"),
		Current: domain.StatusPending,
		Target:  domain.StatusAssigned,
	})

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "unknown flavor")
}

func TestValidateTransitionTerminalStatesHaveNoExits(t *testing.T) {
	all := []domain.Status{
		domain.StatusPending, domain.StatusAssigned, domain.StatusEnRoute,
		domain.StatusInProgress, domain.StatusArrived, domain.StatusCompleted,
		domain.StatusSkipped, domain.StatusCancelled, domain.StatusRescheduled,
	}
	terminal := []domain.Status{domain.StatusCompleted, domain.StatusSkipped, domain.StatusCancelled}

	for _, flavor := range []Flavor{FlavorStop, FlavorPickup} {
		for _, from := range terminal {
			for _, to := range all {
				res := ValidateTransition(TransitionRequest{Flavor: flavor, Current: from, Target: to})
				assert.Falsef(t, res.Valid, "%s: %s -> %s should be illegal", flavor, from, to)
			}
		}
	}
}

func TestValidateTransitionStopVersusPickupLegs(t *testing.T) {
	// en_route belongs to the stop lifecycle, in_progress to the pickup one.
	res := ValidateTransition(TransitionRequest{
		Flavor: FlavorPickup, Current: domain.StatusAssigned, Target: domain.StatusEnRoute,
	})
	assert.False(t, res.Valid)

	res = ValidateTransition(TransitionRequest{
		Flavor: FlavorStop, Current: domain.StatusAssigned, Target: domain.StatusInProgress,
	})
	assert.False(t, res.Valid)

	res = ValidateTransition(TransitionRequest{
		Flavor: FlavorPickup, Current: domain.StatusAssigned, Target: domain.StatusInProgress,
	})
	assert.True(t, res.Valid)
}

func TestValidateTransitionArrivedEvidence(t *testing.T) {
	res := ValidateTransition(TransitionRequest{
		Flavor:  FlavorStop,
		Current: domain.StatusEnRoute,
		Target:  domain.StatusArrived,
	})

	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "missing actualArrival")
	assert.Contains(t, res.Errors, "missing coordinates")
}

func TestValidateTransitionCompletedCollectsAllMissingEvidence(t *testing.T) {
	res := ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusArrived,
		Target:   domain.StatusCompleted,
		StopType: domain.StopDelivery,
	})

	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "missing completedAt")
	assert.Contains(t, res.Errors, "missing signatureUrl")
	assert.NotContains(t, res.Errors, "missing verificationCode")
}

func TestValidateTransitionCompletedProofByKind(t *testing.T) {
	// Pickup requests and pickup-type stops need the verification code.
	res := ValidateTransition(TransitionRequest{
		Flavor:   FlavorPickup,
		Current:  domain.StatusArrived,
		Target:   domain.StatusCompleted,
		Evidence: Evidence{CompletedAt: ts(11)},
	})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "missing verificationCode")

	res = ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusArrived,
		Target:   domain.StatusCompleted,
		StopType: domain.StopPickup,
		Evidence: Evidence{CompletedAt: ts(11), VerificationCode: "4821"},
	})
	assert.True(t, res.Valid)

	// Delivery stops need the signature instead.
	res = ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusArrived,
		Target:   domain.StatusCompleted,
		StopType: domain.StopDelivery,
		Evidence: Evidence{CompletedAt: ts(11), SignatureURL: "https://cdn.example/sig/991.png"},
	})
	assert.True(t, res.Valid)
}

func TestValidateTransitionGeofenceVarianceNeverBlocks(t *testing.T) {
	expected := domain.Coordinates{Lat: 33.4484, Lng: -112.074}
	reported := domain.Coordinates{Lat: 33.4512, Lng: -112.074} // ~310m north

	res := ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusEnRoute,
		Target:   domain.StatusArrived,
		Expected: &expected,
		Evidence: Evidence{ActualArrival: ts(10), Coordinates: &reported},
	})

	assert.True(t, res.Valid, "out-of-geofence arrival must not be blocked")
	require.NotNil(t, res.DistanceVarianceM)
	assert.Greater(t, *res.DistanceVarianceM, DefaultGeofenceRadiusM)
	assert.InDelta(t, 310, *res.DistanceVarianceM, 30)
}

func TestValidateTransitionGeofenceVarianceWithinRadius(t *testing.T) {
	expected := domain.Coordinates{Lat: 33.4484, Lng: -112.074}
	reported := domain.Coordinates{Lat: 33.44845, Lng: -112.07405} // a few metres off

	res := ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusEnRoute,
		Target:   domain.StatusArrived,
		Expected: &expected,
		Evidence: Evidence{ActualArrival: ts(10), Coordinates: &reported},
	})

	assert.True(t, res.Valid)
	require.NotNil(t, res.DistanceVarianceM)
	assert.Less(t, *res.DistanceVarianceM, DefaultGeofenceRadiusM)
}

func TestValidateTransitionSkipAndCancelReasons(t *testing.T) {
	res := ValidateTransition(TransitionRequest{
		Flavor: FlavorStop, Current: domain.StatusEnRoute, Target: domain.StatusSkipped,
	})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "missing skipReason")

	res = ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusEnRoute,
		Target:   domain.StatusCancelled,
		Evidence: Evidence{CancellationReason: "clinic closed early"},
	})
	assert.True(t, res.Valid)
}

func TestValidateTransitionRescheduledWindow(t *testing.T) {
	hours, err := domain.ParseOperatingHours(map[string][]domain.OpenRange{
		"monday": {{Open: "08:00", Close: "17:00"}},
	})
	require.NoError(t, err)

	res := ValidateTransition(TransitionRequest{
		Flavor: FlavorStop, Current: domain.StatusPending, Target: domain.StatusRescheduled,
	})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "missing new time window")

	// Monday 18:00-19:00 falls outside the clinic schedule.
	badWindow := &domain.TimeWindow{Start: *ts(18), End: *ts(19)}
	res = ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusPending,
		Target:   domain.StatusRescheduled,
		Hours:    hours,
		Evidence: Evidence{NewWindow: badWindow},
	})
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "new time window rejected")

	goodWindow := &domain.TimeWindow{Start: *ts(9), End: *ts(11)}
	res = ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusPending,
		Target:   domain.StatusRescheduled,
		Hours:    hours,
		Evidence: Evidence{NewWindow: goodWindow},
	})
	assert.True(t, res.Valid)

	// Without a schedule the window only needs internal consistency.
	res = ValidateTransition(TransitionRequest{
		Flavor:   FlavorStop,
		Current:  domain.StatusPending,
		Target:   domain.StatusRescheduled,
		Evidence: Evidence{NewWindow: badWindow},
	})
	assert.True(t, res.Valid)
}

func TestValidateTransitionRescheduledReentry(t *testing.T) {
	res := ValidateTransition(TransitionRequest{
		Flavor: FlavorStop, Current: domain.StatusRescheduled, Target: domain.StatusPending,
	})
	assert.True(t, res.Valid)

	res = ValidateTransition(TransitionRequest{
		Flavor: FlavorStop, Current: domain.StatusRescheduled, Target: domain.StatusArrived,
	})
	assert.False(t, res.Valid)
}
