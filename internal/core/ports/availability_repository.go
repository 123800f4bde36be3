package ports

import (
	"context"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// ListAvailabilityFilter carries the listing query for the availability ledger.
type ListAvailabilityFilter struct {
	PropertyID *int64
	Sort       domain.AvailabilitySort
	Limit      int // 0 = unlimited
}

// AvailabilityFilter is an exact-match lookup. Nil fields are ignored.
type AvailabilityFilter struct {
	PropertyID *int64
	Date       *domain.Date
}

// AvailabilityRepository defines persistence operations for blocked dates.
type AvailabilityRepository interface {
	List(ctx context.Context, filter ListAvailabilityFilter) ([]*domain.Availability, error)
	Filter(ctx context.Context, filter AvailabilityFilter) ([]*domain.Availability, error)
	FindByID(ctx context.Context, id int64) (*domain.Availability, error)
	// Create returns domain.ErrDateAlreadyBlocked when (property, date) exists and
	// domain.ErrPropertyNotFound when the property row is gone.
	Create(ctx context.Context, a *domain.Availability) (*domain.Availability, error)
	Delete(ctx context.Context, id int64) error
}
