package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/alquilercordoba/rental-system/internal/pkg/metrics"
	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return "", nil, fmt.Errorf("%w: email and password required", domain.ErrInvalidInput)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// The unique index still wins a race between two registrations.
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		} else {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		}
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.logger.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return "", nil, fmt.Errorf("%w: email and password required", domain.ErrInvalidInput)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return token, user, nil
}

// Me re-reads the profile of an authenticated caller. Tokens are not revoked,
// so the account may have disappeared since the token was issued.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// SeedAdmin creates the admin account when the users table is empty. With
// overwrite set it also creates the admin when other users exist, or resets the
// password and role of an existing account with that email.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string, overwrite bool) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: admin email and password required", domain.ErrInvalidInput)
	}

	if !overwrite {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if n > 0 {
			return nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.repo.UpdateCredentials(ctx, existing.ID, string(hash), domain.RoleAdmin); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		s.logger.Info().Str("email", email).Msg("admin credentials reset")
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("seed admin: %w", err)
	}

	if _, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("admin user created")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
