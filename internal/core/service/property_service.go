package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/pkg/metrics"
	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

type PropertyService struct {
	repo   ports.PropertyRepository
	cache  ports.PropertyCache
	logger zerolog.Logger
}

// NewPropertyService wires the catalog use cases. A nil cache disables caching.
func NewPropertyService(repo ports.PropertyRepository, cache ports.PropertyCache, logger zerolog.Logger) *PropertyService {
	if cache == nil {
		cache = noopPropertyCache{}
	}
	return &PropertyService{repo: repo, cache: cache, logger: logger}
}

func (s *PropertyService) List(ctx context.Context, input ports.ListPropertiesInput) (*ports.PropertyPage, error) {
	if input.MinCapacity != nil && *input.MinCapacity < 0 {
		return nil, fmt.Errorf("%w: minCapacity must not be negative", domain.ErrInvalidInput)
	}

	page, size := domain.ClampPage(input.Page, input.PageSize)
	items, total, err := s.repo.List(ctx, ports.ListPropertiesFilter{
		Location:    strings.TrimSpace(input.Location),
		MinCapacity: input.MinCapacity,
		Page:        page,
		PageSize:    size,
	})
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	if items == nil {
		items = []*domain.Property{}
	}

	return &ports.PropertyPage{
		Items:      items,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: domain.TotalPages(total, size),
	}, nil
}

func (s *PropertyService) Filter(ctx context.Context, filter ports.PropertyFilter) ([]*domain.Property, error) {
	items, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("filter properties: %w", err)
	}
	if items == nil {
		items = []*domain.Property{}
	}
	return items, nil
}

func (s *PropertyService) Get(ctx context.Context, id int64) (*domain.Property, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		metrics.PropertyCacheLookupsTotal.WithLabelValues("hit").Inc()
		return p, nil
	}
	metrics.PropertyCacheLookupsTotal.WithLabelValues("miss").Inc()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func (s *PropertyService) Create(ctx context.Context, input ports.CreatePropertyInput, caller domain.Identity) (*domain.Property, error) {
	if strings.TrimSpace(input.Title) == "" {
		metrics.PropertyMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if err := checkNumbers(input.PricePerNight, input.Capacity); err != nil {
		metrics.PropertyMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	owner := strings.TrimSpace(input.OwnerEmail)
	if owner == "" {
		owner = caller.Email
	}

	now := time.Now().UTC()
	p := &domain.Property{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		CoverImage:  input.CoverImage,
		Images:      domain.NormalizeList(input.Images),
		Amenities:   domain.NormalizeList(input.Amenities),
		OwnerEmail:  owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.PricePerNight != nil {
		p.PricePerNight = *input.PricePerNight
	}
	if input.Capacity != nil {
		p.Capacity = *input.Capacity
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		metrics.PropertyMutationsTotal.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create property: %w", err)
	}

	metrics.PropertyMutationsTotal.WithLabelValues("create", "ok").Inc()
	s.logger.Info().Int64("property_id", created.ID).Str("owner_email", created.OwnerEmail).Msg("property created")
	return created, nil
}

// Update applies a partial patch. Ownership is checked against the stored row,
// never a cached copy.
func (s *PropertyService) Update(ctx context.Context, id int64, patch domain.PropertyPatch, caller domain.Identity) (*domain.Property, error) {
	current, err := s.authorize(ctx, "update", id, caller)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		metrics.PropertyMutationsTotal.WithLabelValues("update", "invalid").Inc()
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	if err := checkNumbers(patch.PricePerNight, patch.Capacity); err != nil {
		metrics.PropertyMutationsTotal.WithLabelValues("update", "invalid").Inc()
		return nil, err
	}

	patch.ApplyTo(current, time.Now().UTC())
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			metrics.PropertyMutationsTotal.WithLabelValues("update", "not_found").Inc()
			return nil, err
		}
		metrics.PropertyMutationsTotal.WithLabelValues("update", "error").Inc()
		return nil, fmt.Errorf("update property: %w", err)
	}
	s.cache.Invalidate(ctx, id)

	metrics.PropertyMutationsTotal.WithLabelValues("update", "ok").Inc()
	return updated, nil
}

// Delete removes the property together with its blocked dates.
func (s *PropertyService) Delete(ctx context.Context, id int64, caller domain.Identity) error {
	if _, err := s.authorize(ctx, "delete", id, caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			metrics.PropertyMutationsTotal.WithLabelValues("delete", "not_found").Inc()
			return err
		}
		metrics.PropertyMutationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete property: %w", err)
	}
	s.cache.Invalidate(ctx, id)

	metrics.PropertyMutationsTotal.WithLabelValues("delete", "ok").Inc()
	s.logger.Info().Int64("property_id", id).Str("by", caller.Email).Msg("property deleted")
	return nil
}

func (s *PropertyService) authorize(ctx context.Context, op string, id int64, caller domain.Identity) (*domain.Property, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			metrics.PropertyMutationsTotal.WithLabelValues(op, "not_found").Inc()
			return nil, err
		}
		metrics.PropertyMutationsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("load property: %w", err)
	}
	if !domain.CanMutate(current.OwnerEmail, caller) {
		metrics.PropertyMutationsTotal.WithLabelValues(op, "forbidden").Inc()
		s.logger.Warn().Int64("property_id", id).Str("caller", caller.Email).Str("op", op).Msg("mutation rejected")
		return nil, domain.ErrForbidden
	}
	return current, nil
}

func checkNumbers(price *float64, capacity *int) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: price_per_night must not be negative", domain.ErrInvalidInput)
	}
	if capacity != nil && *capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

type noopPropertyCache struct{}

func (noopPropertyCache) Get(context.Context, int64) (*domain.Property, bool) { return nil, false }
func (noopPropertyCache) Set(context.Context, *domain.Property)               {}
func (noopPropertyCache) Invalidate(context.Context, int64)                   {}
