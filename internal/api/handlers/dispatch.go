package handlers

import (
	"log"
	"net/http"

	"lab-dispatch-service/internal/api/dto"
	"lab-dispatch-service/internal/dispatch"
	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/ports"
)

// DispatchHandler validates status transitions for stops and pickups.
type DispatchHandler struct {
	Clinics ports.ClinicRepository
}

func (h *DispatchHandler) ValidateTransition(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.TransitionRequest
	defer r.Body.Close()
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	treq := dispatch.TransitionRequest{
		Flavor:   dispatch.Flavor(req.Flavor),
		Current:  domain.Status(req.Current),
		Target:   domain.Status(req.Target),
		StopType: domain.StopType(req.StopType),
		Evidence: toEvidence(req.Evidence),
	}

	if req.Expected != nil {
		c := domain.Coordinates{Lat: req.Expected.Lat, Lng: req.Expected.Lng}
		if err := c.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, "expected: "+err.Error())
			return
		}
		treq.Expected = &c
	}

	// A rescheduled window is validated against the clinic schedule when
	// the clinic is known.
	if req.ClinicID != "" && h.Clinics != nil {
		clinic, err := h.Clinics.GetClinic(r.Context(), req.ClinicID)
		if err != nil {
			log.Printf("transition validate: clinic lookup failed: %v", err)
			writeError(w, r, http.StatusBadRequest, "unknown clinic")
			return
		}
		treq.Hours = clinic.Hours
	}

	res := dispatch.ValidateTransition(treq)

	writeJSON(w, r, http.StatusOK, dto.TransitionResponse{
		Valid:             res.Valid,
		Errors:            res.Errors,
		DistanceVarianceM: res.DistanceVarianceM,
	})
}

func toEvidence(ev dto.TransitionEvidence) dispatch.Evidence {
	out := dispatch.Evidence{
		DriverID:           ev.DriverID,
		ActualArrival:      ev.ActualArrival,
		CompletedAt:        ev.CompletedAt,
		SignatureURL:       ev.SignatureURL,
		VerificationCode:   ev.VerificationCode,
		SkipReason:         ev.SkipReason,
		CancellationReason: ev.CancellationReason,
	}

	if ev.Coordinates != nil {
		out.Coordinates = &domain.Coordinates{Lat: ev.Coordinates.Lat, Lng: ev.Coordinates.Lng}
	}
	if ev.NewWindowStart != nil && ev.NewWindowEnd != nil {
		out.NewWindow = &domain.TimeWindow{Start: *ev.NewWindowStart, End: *ev.NewWindowEnd}
	}

	return out
}
