package domain

// A clinic's request to have cases collected by the lab courier.
// A PickupRequest is independent until assigned to a route, at which point
// a RouteStop referencing it is created. The two are kept in sync but stay
// distinct entities: the stop can be skipped while the request remains
// outstanding.
type PickupRequest struct {
	ID           string
	ClinicID     string
	LabID        string
	Window       TimeWindow
	PackageCount int
	Status       Status
}

func (p *PickupRequest) Validate() error {
	return p.Window.Validate()
}
