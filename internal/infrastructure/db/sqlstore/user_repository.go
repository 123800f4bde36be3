package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at`

type userRow struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Role         string `db:"role"`
	CreatedAt    dbTime `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt.Time(),
	}
}

// UserRepository implements ports.AuthRepository.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var row userRow
	if err := sqlx.GetContext(ctx, r.store.db, &row, r.store.rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}

	id, err := r.store.insertReturningID(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, role, createdAt,
	)
	if err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, id int64, passwordHash, role string) error {
	res, err := r.store.db.ExecContext(ctx,
		r.store.rebind(`UPDATE users SET password_hash = ?, role = ? WHERE id = ?`),
		passwordHash, role, id,
	)
	if err != nil {
		return fmt.Errorf("update user credentials: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.store.db, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
