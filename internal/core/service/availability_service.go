package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/pkg/metrics"
	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

type AvailabilityService struct {
	repo       ports.AvailabilityRepository
	properties ports.PropertyRepository
	logger     zerolog.Logger
}

func NewAvailabilityService(repo ports.AvailabilityRepository, properties ports.PropertyRepository, logger zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{repo: repo, properties: properties, logger: logger}
}

func (s *AvailabilityService) List(ctx context.Context, input ports.ListAvailabilityInput) ([]*domain.Availability, error) {
	order, err := domain.ParseAvailabilitySort(input.Sort)
	if err != nil {
		return nil, err
	}
	if input.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidInput)
	}

	items, err := s.repo.List(ctx, ports.ListAvailabilityFilter{
		PropertyID: input.PropertyID,
		Sort:       order,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	if items == nil {
		items = []*domain.Availability{}
	}
	return items, nil
}

func (s *AvailabilityService) Filter(ctx context.Context, filter ports.AvailabilityFilter) ([]*domain.Availability, error) {
	items, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("filter availability: %w", err)
	}
	if items == nil {
		items = []*domain.Availability{}
	}
	return items, nil
}

// Create blocks one date. The (property, date) uniqueness is enforced by the
// repository; the existence and ownership checks before it are read-then-act.
func (s *AvailabilityService) Create(ctx context.Context, input ports.CreateAvailabilityInput, caller domain.Identity) (*domain.Availability, error) {
	if input.PropertyID <= 0 || input.Date == "" {
		metrics.AvailabilityMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return nil, fmt.Errorf("%w: property_id and date are required", domain.ErrInvalidInput)
	}
	date, err := domain.ParseDate(input.Date)
	if err != nil {
		metrics.AvailabilityMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	if err := s.authorize(ctx, "create", input.PropertyID, caller); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Availability{
		PropertyID: input.PropertyID,
		Date:       date,
		Reason:     input.Reason,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDateAlreadyBlocked):
			metrics.AvailabilityMutationsTotal.WithLabelValues("create", "conflict").Inc()
			return nil, err
		case errors.Is(err, domain.ErrPropertyNotFound):
			metrics.AvailabilityMutationsTotal.WithLabelValues("create", "not_found").Inc()
			return nil, err
		}
		metrics.AvailabilityMutationsTotal.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create availability: %w", err)
	}

	metrics.AvailabilityMutationsTotal.WithLabelValues("create", "ok").Inc()
	s.logger.Info().Int64("property_id", created.PropertyID).Str("date", created.Date.String()).Msg("date blocked")
	return created, nil
}

func (s *AvailabilityService) Delete(ctx context.Context, id int64, caller domain.Identity) error {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAvailabilityNotFound) {
			metrics.AvailabilityMutationsTotal.WithLabelValues("delete", "not_found").Inc()
			return err
		}
		metrics.AvailabilityMutationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("load availability: %w", err)
	}

	if err := s.authorize(ctx, "delete", block.PropertyID, caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAvailabilityNotFound) {
			metrics.AvailabilityMutationsTotal.WithLabelValues("delete", "not_found").Inc()
			return err
		}
		metrics.AvailabilityMutationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete availability: %w", err)
	}

	metrics.AvailabilityMutationsTotal.WithLabelValues("delete", "ok").Inc()
	s.logger.Info().Int64("availability_id", id).Int64("property_id", block.PropertyID).Msg("date unblocked")
	return nil
}

// authorize loads the owning property from the store and applies CanMutate.
func (s *AvailabilityService) authorize(ctx context.Context, op string, propertyID int64, caller domain.Identity) error {
	p, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			metrics.AvailabilityMutationsTotal.WithLabelValues(op, "not_found").Inc()
			return err
		}
		metrics.AvailabilityMutationsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("load property: %w", err)
	}
	if !domain.CanMutate(p.OwnerEmail, caller) {
		metrics.AvailabilityMutationsTotal.WithLabelValues(op, "forbidden").Inc()
		return domain.ErrForbidden
	}
	return nil
}
