package ports

import (
	"context"

	"lab-dispatch-service/internal/domain"
)

// Port: a boundary for retrieving and updating pickup requests.
type PickupRepository interface {
	// ListPickupRequests returns all requests available for routing.
	ListPickupRequests(ctx context.Context) ([]*domain.PickupRequest, error)

	// UpdateStatus records a dispatch-validated status change.
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}
