package ports

import (
	"context"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}
