package ports

import (
	"context"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// ListPropertiesFilter carries the catalog query after paging has been clamped.
type ListPropertiesFilter struct {
	Location    string // case-insensitive substring; empty = no filter
	MinCapacity *int   // capacity >= MinCapacity when set
	Page        int    // 1-based
	PageSize    int
}

// PropertyFilter is an exact-match lookup. Zero values are ignored.
type PropertyFilter struct {
	ID         *int64
	OwnerEmail string
}

// PropertyRepository defines persistence operations for properties.
type PropertyRepository interface {
	// List returns one page ordered newest first, plus the total match count.
	List(ctx context.Context, filter ListPropertiesFilter) ([]*domain.Property, int64, error)
	Filter(ctx context.Context, filter PropertyFilter) ([]*domain.Property, error)
	FindByID(ctx context.Context, id int64) (*domain.Property, error)
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) (*domain.Property, error)
	// Delete removes the property and every availability block that references it.
	Delete(ctx context.Context, id int64) error
}

// PropertyCache is a read-through cache for single property lookups.
type PropertyCache interface {
	Get(ctx context.Context, id int64) (*domain.Property, bool)
	Set(ctx context.Context, p *domain.Property)
	Invalidate(ctx context.Context, id int64)
}
