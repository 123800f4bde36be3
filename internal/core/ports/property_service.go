package ports

import (
	"context"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// ListPropertiesInput is the raw catalog query; the service clamps paging.
type ListPropertiesInput struct {
	Page        int
	PageSize    int
	Location    string
	MinCapacity *int
}

// PropertyPage is one page of the catalog.
type PropertyPage struct {
	Items      []*domain.Property
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// CreatePropertyInput carries the fields of a new listing.
type CreatePropertyInput struct {
	Title         string
	Description   string
	Location      string
	PricePerNight *float64
	Capacity      *int
	CoverImage    string
	Images        []string
	Amenities     []string
	OwnerEmail    string // defaults to the caller's email when empty
}

// PropertyService defines use-case operations for the catalog.
type PropertyService interface {
	List(ctx context.Context, input ListPropertiesInput) (*PropertyPage, error)
	Filter(ctx context.Context, filter PropertyFilter) ([]*domain.Property, error)
	Get(ctx context.Context, id int64) (*domain.Property, error)
	Create(ctx context.Context, input CreatePropertyInput, caller domain.Identity) (*domain.Property, error)
	Update(ctx context.Context, id int64, patch domain.PropertyPatch, caller domain.Identity) (*domain.Property, error)
	Delete(ctx context.Context, id int64, caller domain.Identity) error
}
