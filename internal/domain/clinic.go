package domain

// A dental practice served by the lab's courier network.
type Clinic struct {
	ID          string
	Name        string
	Coordinates Coordinates
	Hours       OperatingHours
}
