package dto

import "time"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type StopRequest struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	ClinicID       string     `json:"clinic_id"`
	Lat            float64    `json:"lat"`
	Lng            float64    `json:"lng"`
	DesiredArrival *time.Time `json:"desired_arrival"`
}

type OptimizeRequest struct {
	Start    Coordinates   `json:"start"`
	Strategy string        `json:"strategy"`
	Now      *time.Time    `json:"now"`
	Stops    []StopRequest `json:"stops"`
}

type StopResponse struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	ClinicID         string     `json:"clinic_id"`
	Sequence         int        `json:"sequence"`
	Lat              float64    `json:"lat"`
	Lng              float64    `json:"lng"`
	LegDistanceKm    float64    `json:"leg_distance_km"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
}

type RouteMetricsResponse struct {
	TotalDistanceKm      float64 `json:"total_distance_km"`
	EstimatedDurationMin int     `json:"estimated_duration_min"`
	StopsTotal           int     `json:"stops_total"`
}

type OptimizeResponse struct {
	Stops   []StopResponse       `json:"stops"`
	Metrics RouteMetricsResponse `json:"metrics"`
}

type InsertRequest struct {
	Start   Coordinates   `json:"start"`
	Stops   []StopRequest `json:"stops"`
	NewStop StopRequest   `json:"new_stop"`
}

type InsertResponse struct {
	Stops    []StopResponse       `json:"stops"`
	Position int                  `json:"position"`
	Metrics  RouteMetricsResponse `json:"metrics"`
}
