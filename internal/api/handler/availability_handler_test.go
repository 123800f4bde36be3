package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

type stubAvailabilityService struct {
	listFn   func(ctx context.Context, input ports.ListAvailabilityInput) ([]*domain.Availability, error)
	filterFn func(ctx context.Context, filter ports.AvailabilityFilter) ([]*domain.Availability, error)
	createFn func(ctx context.Context, input ports.CreateAvailabilityInput, caller domain.Identity) (*domain.Availability, error)
	deleteFn func(ctx context.Context, id int64, caller domain.Identity) error
}

func (s *stubAvailabilityService) List(ctx context.Context, input ports.ListAvailabilityInput) ([]*domain.Availability, error) {
	return s.listFn(ctx, input)
}

func (s *stubAvailabilityService) Filter(ctx context.Context, filter ports.AvailabilityFilter) ([]*domain.Availability, error) {
	return s.filterFn(ctx, filter)
}

func (s *stubAvailabilityService) Create(ctx context.Context, input ports.CreateAvailabilityInput, caller domain.Identity) (*domain.Availability, error) {
	return s.createFn(ctx, input, caller)
}

func (s *stubAvailabilityService) Delete(ctx context.Context, id int64, caller domain.Identity) error {
	return s.deleteFn(ctx, id, caller)
}

func TestAvailabilityHandler_List(t *testing.T) {
	stub := &stubAvailabilityService{
		listFn: func(ctx context.Context, input ports.ListAvailabilityInput) ([]*domain.Availability, error) {
			if input.PropertyID == nil || *input.PropertyID != 2 || input.Sort != "-created_at" || input.Limit != 5 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return []*domain.Availability{{ID: 1, PropertyID: 2, Date: "2026-01-10"}}, nil
		},
	}
	h := NewAvailabilityHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/availability?property_id=2&sort=-created_at&limit=5", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.HasPrefix(rec.Body.String(), "[") || !strings.Contains(rec.Body.String(), `"date":"2026-01-10"`) {
		t.Fatalf("expected a bare array, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"reason":""`) {
		t.Fatalf("reason must be present even when empty, got %s", rec.Body.String())
	}
}

func TestAvailabilityHandler_List_BadQuery(t *testing.T) {
	h := NewAvailabilityHandler(&stubAvailabilityService{})

	for _, target := range []string{
		"/api/availability?limit=0",
		"/api/availability?limit=-3",
		"/api/availability?limit=ten",
		"/api/availability?property_id=x",
	} {
		t.Run(target, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, target, "")
			if err := h.List(c); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAvailabilityHandler_Filter_WrapsData(t *testing.T) {
	stub := &stubAvailabilityService{
		filterFn: func(ctx context.Context, filter ports.AvailabilityFilter) ([]*domain.Availability, error) {
			if filter.Date == nil || *filter.Date != "2026-03-01" {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return []*domain.Availability{}, nil
		},
	}
	h := NewAvailabilityHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/availability/filter?date=2026-03-01T10:00:00Z", "")
	if err := h.Filter(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "{\"data\":[]}\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	c, _ = newTestContext(http.MethodGet, "/api/availability/filter?date=tomorrow", "")
	if err := h.Filter(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAvailabilityHandler_Create(t *testing.T) {
	stub := &stubAvailabilityService{
		createFn: func(ctx context.Context, input ports.CreateAvailabilityInput, caller domain.Identity) (*domain.Availability, error) {
			if input.PropertyID != 2 || input.Date != "2026-01-10" || input.Reason != "maintenance" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Availability{ID: 1, PropertyID: 2, Date: "2026-01-10", Reason: input.Reason}, nil
		},
	}
	h := NewAvailabilityHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/availability",
		`{"property_id":2,"date":"2026-01-10","reason":"maintenance"}`)
	withIdentity(c, ownerIdentity)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAvailabilityHandler_Create_Errors(t *testing.T) {
	stub := &stubAvailabilityService{
		createFn: func(ctx context.Context, input ports.CreateAvailabilityInput, caller domain.Identity) (*domain.Availability, error) {
			return nil, domain.ErrDateAlreadyBlocked
		},
	}
	h := NewAvailabilityHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/availability", `{"date":"2026-01-10"}`)
	withIdentity(c, ownerIdentity)
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing property_id, got %v", err)
	}

	c, _ = newTestContext(http.MethodPost, "/api/availability", `{"property_id":2,"date":"2026-01-10"}`)
	withIdentity(c, ownerIdentity)
	if err := h.Create(c); !errors.Is(err, domain.ErrDateAlreadyBlocked) {
		t.Fatalf("expected ErrDateAlreadyBlocked, got %v", err)
	}
}

func TestAvailabilityHandler_Delete(t *testing.T) {
	var deleted int64
	stub := &stubAvailabilityService{
		deleteFn: func(ctx context.Context, id int64, caller domain.Identity) error {
			deleted = id
			return nil
		},
	}
	h := NewAvailabilityHandler(stub)

	c, rec := newTestContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("12")
	withIdentity(c, ownerIdentity)
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != 12 || rec.Code != http.StatusOK {
		t.Fatalf("unexpected result: id=%d code=%d", deleted, rec.Code)
	}

	c, _ = newTestContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("0")
	withIdentity(c, ownerIdentity)
	if err := h.Delete(c); !errors.Is(err, domain.ErrAvailabilityNotFound) {
		t.Fatalf("expected ErrAvailabilityNotFound, got %v", err)
	}
}
