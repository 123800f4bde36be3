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

const propertyColumns = `id, title, description, location, price_per_night, capacity,
	cover_image, images, amenities, owner_email, created_at, updated_at`

type propertyRow struct {
	ID            int64      `db:"id"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	Location      string     `db:"location"`
	PricePerNight float64    `db:"price_per_night"`
	Capacity      int        `db:"capacity"`
	CoverImage    string     `db:"cover_image"`
	Images        listColumn `db:"images"`
	Amenities     listColumn `db:"amenities"`
	OwnerEmail    string     `db:"owner_email"`
	CreatedAt     dbTime     `db:"created_at"`
	UpdatedAt     dbTime     `db:"updated_at"`
}

func (r propertyRow) toDomain() *domain.Property {
	return &domain.Property{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Location:      r.Location,
		PricePerNight: r.PricePerNight,
		Capacity:      r.Capacity,
		CoverImage:    r.CoverImage,
		Images:        domain.NormalizeList([]string(r.Images)),
		Amenities:     domain.NormalizeList([]string(r.Amenities)),
		OwnerEmail:    r.OwnerEmail,
		CreatedAt:     r.CreatedAt.Time(),
		UpdatedAt:     r.UpdatedAt.Time(),
	}
}

func toProperties(rows []propertyRow) []*domain.Property {
	out := make([]*domain.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// PropertyRepository implements ports.PropertyRepository.
type PropertyRepository struct {
	store *Store
}

func NewPropertyRepository(store *Store) *PropertyRepository {
	return &PropertyRepository{store: store}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PropertyRepository) List(ctx context.Context, f ports.ListPropertiesFilter) ([]*domain.Property, int64, error) {
	var (
		where []string
		args  []any
	)
	if f.Location != "" {
		where = append(where, `LOWER(location) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(f.Location))+"%")
	}
	if f.MinCapacity != nil {
		where = append(where, `capacity >= ?`)
		args = append(args, *f.MinCapacity)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := sqlx.GetContext(ctx, r.store.db, &total,
		r.store.rebind(`SELECT COUNT(*) FROM properties`+clause), args...); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties` + clause +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), f.PageSize, domain.PageOffset(f.Page, f.PageSize))

	var rows []propertyRow
	if err := sqlx.SelectContext(ctx, r.store.db, &rows, r.store.rebind(query), pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	return toProperties(rows), total, nil
}

func (r *PropertyRepository) Filter(ctx context.Context, f ports.PropertyFilter) ([]*domain.Property, error) {
	var (
		where []string
		args  []any
	)
	if f.ID != nil {
		where = append(where, `id = ?`)
		args = append(args, *f.ID)
	}
	if f.OwnerEmail != "" {
		where = append(where, `owner_email = ?`)
		args = append(args, f.OwnerEmail)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var rows []propertyRow
	if err := sqlx.SelectContext(ctx, r.store.db, &rows, r.store.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("filter properties: %w", err)
	}
	return toProperties(rows), nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id int64) (*domain.Property, error) {
	var row propertyRow
	err := sqlx.GetContext(ctx, r.store.db, &row,
		r.store.rebind(`SELECT `+propertyColumns+` FROM properties WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("find property: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	images, err := r.store.encodeList(p.Images)
	if err != nil {
		return nil, err
	}
	amenities, err := r.store.encodeList(p.Amenities)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	createdAt, updatedAt := p.CreatedAt, p.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	id, err := r.store.insertReturningID(ctx, `
		INSERT INTO properties (title, description, location, price_per_night, capacity,
			cover_image, images, amenities, owner_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		p.Title, p.Description, p.Location, p.PricePerNight, p.Capacity,
		p.CoverImage, images, amenities, p.OwnerEmail, createdAt, updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}
	return r.FindByID(ctx, id)
}

// Update overwrites every mutable column of p.ID. The caller merges partial
// patches beforehand.
func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	images, err := r.store.encodeList(p.Images)
	if err != nil {
		return nil, err
	}
	amenities, err := r.store.encodeList(p.Amenities)
	if err != nil {
		return nil, err
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	res, err := r.store.db.ExecContext(ctx, r.store.rebind(`
		UPDATE properties SET
			title = ?, description = ?, location = ?, price_per_night = ?, capacity = ?,
			cover_image = ?, images = ?, amenities = ?, owner_email = ?, updated_at = ?
		WHERE id = ?`),
		p.Title, p.Description, p.Location, p.PricePerNight, p.Capacity,
		p.CoverImage, images, amenities, p.OwnerEmail, updatedAt, p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update property: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrPropertyNotFound
	}
	return r.FindByID(ctx, p.ID)
}

// Delete removes the availability blocks of the property and the property row
// in one transaction.
func (r *PropertyRepository) Delete(ctx context.Context, id int64) error {
	return r.store.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM availability WHERE property_id = ?`), id); err != nil {
			return fmt.Errorf("delete availability of property %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM properties WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete property %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrPropertyNotFound
		}
		return nil
	})
}
