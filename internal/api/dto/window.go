package dto

import "time"

type WindowValidateRequest struct {
	ClinicID string    `json:"clinic_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type WindowValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailableWindowsResponse struct {
	Windows []WindowResponse `json:"windows"`
}
