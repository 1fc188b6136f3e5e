package ports

import (
	"context"

	"lab-dispatch-service/internal/domain"
)

// Port: a boundary for retrieving clinic records and their schedules.
type ClinicRepository interface {
	GetClinic(ctx context.Context, id string) (*domain.Clinic, error)
	ListClinics(ctx context.Context) ([]*domain.Clinic, error)
}
