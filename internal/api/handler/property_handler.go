package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// List handles GET /api/properties.
//
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        pageSize     query     int     false  "Page size (default 9, max 50)"
// @Param        location     query     string  false  "Case-insensitive location substring"
// @Param        minCapacity  query     int     false  "Minimum capacity"
// @Success      200          {object}  propertyListResponse
// @Failure      400          {object}  map[string]string
// @Router       /properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	input := ports.ListPropertiesInput{
		Page:     queryIntLenient(c, "page"),
		PageSize: queryIntLenient(c, "pageSize"),
		Location: c.QueryParam("location"),
	}

	minCapacity, err := queryInt64(c, "minCapacity")
	if err != nil {
		return err
	}
	if minCapacity != nil {
		v := int(*minCapacity)
		input.MinCapacity = &v
	}

	page, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, propertyListResponse{
		Data: page.Items,
		Pagination: paginationResponse{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// Filter handles GET /api/properties/filter.
//
// @Summary      Filter properties by exact id or owner
// @Tags         properties
// @Produce      json
// @Param        id           query     int     false  "Property id"
// @Param        owner_email  query     string  false  "Owner email"
// @Success      200          {array}   domain.Property
// @Failure      400          {object}  map[string]string
// @Router       /properties/filter [get]
func (h *PropertyHandler) Filter(c echo.Context) error {
	id, err := queryInt64(c, "id")
	if err != nil {
		return err
	}

	items, err := h.service.Filter(c.Request().Context(), ports.PropertyFilter{
		ID:         id,
		OwnerEmail: strings.TrimSpace(c.QueryParam("owner_email")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/properties/:id.
//
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Param        id   path      int  true  "Property id"
// @Success      200  {object}  domain.Property
// @Failure      404  {object}  map[string]string
// @Router       /properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrPropertyNotFound)
	if err != nil {
		return err
	}

	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /api/properties.
//
// @Summary      Create a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPropertyRequest  true  "Property fields"
// @Success      201   {object}  domain.Property
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}

	var req createPropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), ports.CreatePropertyInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Capacity:      req.Capacity,
		CoverImage:    req.CoverImage,
		Images:        req.Images,
		Amenities:     req.Amenities,
		OwnerEmail:    req.OwnerEmail,
	}, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /api/properties/:id. Absent fields keep their values.
//
// @Summary      Update a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Property id"
// @Param        body  body      updatePropertyRequest  true  "Fields to change"
// @Success      200   {object}  domain.Property
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrPropertyNotFound)
	if err != nil {
		return err
	}

	var req updatePropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), id, req.toPatch(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/properties/:id together with its blocked dates.
//
// @Summary      Delete a property
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Property id"
// @Success      200  {object}  successResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrPropertyNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, identity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
