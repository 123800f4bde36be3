package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

const availabilityColumns = `id, property_id, date, reason, created_at`

// availabilityOrderColumns whitelists the columns a listing may be sorted by.
var availabilityOrderColumns = map[string]string{
	"date":        "date",
	"created_at":  "created_at",
	"id":          "id",
	"property_id": "property_id",
}

type availabilityRow struct {
	ID         int64      `db:"id"`
	PropertyID int64      `db:"property_id"`
	Date       dateColumn `db:"date"`
	Reason     string     `db:"reason"`
	CreatedAt  dbTime     `db:"created_at"`
}

func (r availabilityRow) toDomain() *domain.Availability {
	return &domain.Availability{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		Date:       domain.Date(r.Date),
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt.Time(),
	}
}

func toAvailability(rows []availabilityRow) []*domain.Availability {
	out := make([]*domain.Availability, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// AvailabilityRepository implements ports.AvailabilityRepository.
type AvailabilityRepository struct {
	store *Store
}

func NewAvailabilityRepository(store *Store) *AvailabilityRepository {
	return &AvailabilityRepository{store: store}
}

func (r *AvailabilityRepository) List(ctx context.Context, f ports.ListAvailabilityFilter) ([]*domain.Availability, error) {
	sort := f.Sort
	if sort.Field == "" {
		sort = domain.DefaultAvailabilitySort
	}
	column, ok := availabilityOrderColumns[sort.Field]
	if !ok {
		return nil, fmt.Errorf("%w: cannot sort by %q", domain.ErrInvalidInput, sort.Field)
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	query := `SELECT ` + availabilityColumns + ` FROM availability`
	var args []any
	if f.PropertyID != nil {
		query += ` WHERE property_id = ?`
		args = append(args, *f.PropertyID)
	}
	query += fmt.Sprintf(` ORDER BY %s %s, id %s`, column, dir, dir)
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var rows []availabilityRow
	if err := sqlx.SelectContext(ctx, r.store.db, &rows, r.store.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return toAvailability(rows), nil
}

func (r *AvailabilityRepository) Filter(ctx context.Context, f ports.AvailabilityFilter) ([]*domain.Availability, error) {
	var (
		where []string
		args  []any
	)
	if f.PropertyID != nil {
		where = append(where, `property_id = ?`)
		args = append(args, *f.PropertyID)
	}
	if f.Date != nil {
		where = append(where, `date = ?`)
		args = append(args, f.Date.String())
	}

	query := `SELECT ` + availabilityColumns + ` FROM availability`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date ASC, id ASC`

	var rows []availabilityRow
	if err := sqlx.SelectContext(ctx, r.store.db, &rows, r.store.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("filter availability: %w", err)
	}
	return toAvailability(rows), nil
}

func (r *AvailabilityRepository) FindByID(ctx context.Context, id int64) (*domain.Availability, error) {
	var row availabilityRow
	err := sqlx.GetContext(ctx, r.store.db, &row,
		r.store.rebind(`SELECT `+availabilityColumns+` FROM availability WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAvailabilityNotFound
		}
		return nil, fmt.Errorf("find availability: %w", err)
	}
	return row.toDomain(), nil
}

func (r *AvailabilityRepository) Create(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	id, err := r.store.insertReturningID(ctx, `
		INSERT INTO availability (property_id, date, reason, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		a.PropertyID, a.Date.String(), a.Reason, createdAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrUniqueViolation):
			return nil, domain.ErrDateAlreadyBlocked
		case errors.Is(err, ErrForeignKeyViolation):
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("insert availability: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind(`DELETE FROM availability WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAvailabilityNotFound
	}
	return nil
}
