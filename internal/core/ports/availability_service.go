package ports

import (
	"context"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// ListAvailabilityInput is the raw listing query; Sort is "field" or "-field".
type ListAvailabilityInput struct {
	PropertyID *int64
	Sort       string
	Limit      int
}

// CreateAvailabilityInput blocks one date for one property.
type CreateAvailabilityInput struct {
	PropertyID int64
	Date       string
	Reason     string
}

type AvailabilityService interface {
	List(ctx context.Context, input ListAvailabilityInput) ([]*domain.Availability, error)
	Filter(ctx context.Context, filter AvailabilityFilter) ([]*domain.Availability, error)
	Create(ctx context.Context, input CreateAvailabilityInput, caller domain.Identity) (*domain.Availability, error)
	Delete(ctx context.Context, id int64, caller domain.Identity) error
}
