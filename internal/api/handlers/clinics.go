package handlers

import (
	"log"
	"net/http"
	"strconv"

	"lab-dispatch-service/internal/api/dto"
	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/ports"
)

const defaultNearbyRadiusKm = 10.0

// ClinicHandler answers proximity queries against the clinic index.
type ClinicHandler struct {
	Index ports.ProximityIndex
}

func (h *ClinicHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	if h.Index == nil {
		writeError(w, r, http.StatusServiceUnavailable, "proximity index not configured")
		return
	}

	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lat must be a number")
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lng must be a number")
		return
	}

	center := domain.Coordinates{Lat: lat, Lng: lng}
	if err := center.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	radiusKm := defaultNearbyRadiusKm
	if v := q.Get("radius_km"); v != "" {
		radiusKm, err = strconv.ParseFloat(v, 64)
		if err != nil || radiusKm <= 0 {
			writeError(w, r, http.StatusBadRequest, "radius_km must be a positive number")
			return
		}
	}

	hits, err := h.Index.Nearby(r.Context(), center, radiusKm)
	if err != nil {
		log.Printf("nearby clinics failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.NearbyClinicsResponse{Clinics: make([]dto.NearbyClinicResponse, 0, len(hits))}
	for _, hit := range hits {
		res.Clinics = append(res.Clinics, dto.NearbyClinicResponse{
			ClinicID:   hit.ClinicID,
			DistanceKm: hit.DistanceKm,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
