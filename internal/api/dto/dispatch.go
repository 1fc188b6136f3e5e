package dto

import "time"

type TransitionEvidence struct {
	DriverID           string       `json:"driver_id,omitempty"`
	ActualArrival      *time.Time   `json:"actual_arrival,omitempty"`
	Coordinates        *Coordinates `json:"coordinates,omitempty"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty"`
	SignatureURL       string       `json:"signature_url,omitempty"`
	VerificationCode   string       `json:"verification_code,omitempty"`
	SkipReason         string       `json:"skip_reason,omitempty"`
	CancellationReason string       `json:"cancellation_reason,omitempty"`
	NewWindowStart     *time.Time   `json:"new_window_start,omitempty"`
	NewWindowEnd       *time.Time   `json:"new_window_end,omitempty"`
}

type TransitionRequest struct {
	Flavor   string             `json:"flavor"`
	Current  string             `json:"current"`
	Target   string             `json:"target"`
	StopType string             `json:"stop_type,omitempty"`
	ClinicID string             `json:"clinic_id,omitempty"`
	Expected *Coordinates       `json:"expected,omitempty"`
	Evidence TransitionEvidence `json:"evidence"`
}

type TransitionResponse struct {
	Valid             bool     `json:"valid"`
	Errors            []string `json:"errors"`
	DistanceVarianceM *float64 `json:"distance_variance_m,omitempty"`
}
