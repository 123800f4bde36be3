package ports

import (
	"context"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// AuthRepository defines the interface for user account persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateCredentials(ctx context.Context, id int64, passwordHash, role string) error
	Count(ctx context.Context) (int64, error)
}
