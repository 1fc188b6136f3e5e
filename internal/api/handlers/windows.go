package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"lab-dispatch-service/internal/api/dto"
	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/ports"
	"lab-dispatch-service/internal/services"
)

// WindowHandler exposes time-window validation and candidate generation
// against clinic operating hours.
type WindowHandler struct {
	Clinics ports.ClinicRepository
}

func (h *WindowHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.WindowValidateRequest
	defer r.Body.Close()
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	clinic, err := h.Clinics.GetClinic(r.Context(), req.ClinicID)
	if err != nil {
		log.Printf("window validate: clinic lookup failed: %v", err)
		writeError(w, r, http.StatusBadRequest, "unknown clinic")
		return
	}

	res := services.ValidateWindow(domain.TimeWindow{Start: req.Start, End: req.End}, clinic.Hours)

	writeJSON(w, r, http.StatusOK, dto.WindowValidateResponse{
		Valid:  res.Valid,
		Reason: res.Reason,
	})
}

func (h *WindowHandler) Available(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	q := r.URL.Query()

	clinicID := q.Get("clinic_id")
	if clinicID == "" {
		writeError(w, r, http.StatusBadRequest, "clinic_id is required")
		return
	}

	date, err := time.Parse("2006-01-02", q.Get("date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	durationMin := 60
	if v := q.Get("duration_min"); v != "" {
		durationMin, err = strconv.Atoi(v)
		if err != nil || durationMin < 1 {
			writeError(w, r, http.StatusBadRequest, "duration_min must be a positive integer")
			return
		}
	}

	clinic, err := h.Clinics.GetClinic(r.Context(), clinicID)
	if err != nil {
		log.Printf("available windows: clinic lookup failed: %v", err)
		writeError(w, r, http.StatusBadRequest, "unknown clinic")
		return
	}

	windows := services.AvailableWindows(date, clinic.Hours, time.Duration(durationMin)*time.Minute)

	res := dto.AvailableWindowsResponse{Windows: make([]dto.WindowResponse, 0, len(windows))}
	for _, win := range windows {
		res.Windows = append(res.Windows, dto.WindowResponse{Start: win.Start, End: win.End})
	}

	writeJSON(w, r, http.StatusOK, res)
}
