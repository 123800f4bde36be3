package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

type AvailabilityHandler struct {
	service ports.AvailabilityService
}

func NewAvailabilityHandler(service ports.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// List handles GET /api/availability.
//
// @Summary      List blocked dates
// @Tags         availability
// @Produce      json
// @Param        property_id  query     int     false  "Property id"
// @Param        sort         query     string  false  "date, created_at, id or property_id; prefix - for descending"
// @Param        limit        query     int     false  "Maximum number of rows"
// @Success      200          {array}   domain.Availability
// @Failure      400          {object}  map[string]string
// @Router       /availability [get]
func (h *AvailabilityHandler) List(c echo.Context) error {
	propertyID, err := queryInt64(c, "property_id")
	if err != nil {
		return err
	}
	limit, err := queryInt64(c, "limit")
	if err != nil {
		return err
	}

	input := ports.ListAvailabilityInput{
		PropertyID: propertyID,
		Sort:       c.QueryParam("sort"),
	}
	if limit != nil {
		if *limit <= 0 {
			return fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidInput)
		}
		input.Limit = int(*limit)
	}

	items, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Filter handles GET /api/availability/filter.
//
// @Summary      Filter blocked dates by property and day
// @Tags         availability
// @Produce      json
// @Param        property_id  query     int     false  "Property id"
// @Param        date         query     string  false  "Day as YYYY-MM-DD"
// @Success      200          {object}  availabilityDataResponse
// @Failure      400          {object}  map[string]string
// @Router       /availability/filter [get]
func (h *AvailabilityHandler) Filter(c echo.Context) error {
	propertyID, err := queryInt64(c, "property_id")
	if err != nil {
		return err
	}

	filter := ports.AvailabilityFilter{PropertyID: propertyID}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			return err
		}
		filter.Date = &d
	}

	items, err := h.service.Filter(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, availabilityDataResponse{Data: items})
}

// Create handles POST /api/availability.
//
// @Summary      Block a date
// @Tags         availability
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAvailabilityRequest  true  "Block to create"
// @Success      201   {object}  domain.Availability
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /availability [post]
func (h *AvailabilityHandler) Create(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}

	var req createAvailabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	block, err := h.service.Create(c.Request().Context(), ports.CreateAvailabilityInput{
		PropertyID: req.PropertyID,
		Date:       req.Date,
		Reason:     req.Reason,
	}, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, block)
}

// Delete handles DELETE /api/availability/:id.
//
// @Summary      Unblock a date
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Availability id"
// @Success      200  {object}  successResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /availability/{id} [delete]
func (h *AvailabilityHandler) Delete(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrAvailabilityNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, identity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
