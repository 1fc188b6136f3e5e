package dto

type NearbyClinicResponse struct {
	ClinicID   string  `json:"clinic_id"`
	DistanceKm float64 `json:"distance_km"`
}

type NearbyClinicsResponse struct {
	Clinics []NearbyClinicResponse `json:"clinics"`
}
