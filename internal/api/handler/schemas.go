package handler

import (
	"bytes"
	"encoding/json"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

type registerRequest struct {
	Email     string `json:"email"      validate:"required"`
	Password  string `json:"password"   validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// stringList accepts either a JSON array or a single string holding a
// Postgres array literal, JSON text or comma-separated values. A null or
// absent value leaves it nil.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = domain.NormalizeList(raw)
	return nil
}

type createPropertyRequest struct {
	Title         string     `json:"title"           validate:"required"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	PricePerNight *float64   `json:"price_per_night" validate:"omitempty,gte=0"`
	Capacity      *int       `json:"capacity"        validate:"omitempty,gte=0"`
	CoverImage    string     `json:"cover_image"`
	Images        stringList `json:"images"`
	Amenities     stringList `json:"amenities"`
	OwnerEmail    string     `json:"owner_email"     validate:"omitempty,email"`
}

type updatePropertyRequest struct {
	Title         *string    `json:"title"           validate:"omitempty,min=1"`
	Description   *string    `json:"description"`
	Location      *string    `json:"location"`
	PricePerNight *float64   `json:"price_per_night" validate:"omitempty,gte=0"`
	Capacity      *int       `json:"capacity"        validate:"omitempty,gte=0"`
	CoverImage    *string    `json:"cover_image"`
	Images        stringList `json:"images"`
	Amenities     stringList `json:"amenities"`
}

func (r updatePropertyRequest) toPatch() domain.PropertyPatch {
	return domain.PropertyPatch{
		Title:         r.Title,
		Description:   r.Description,
		Location:      r.Location,
		PricePerNight: r.PricePerNight,
		Capacity:      r.Capacity,
		CoverImage:    r.CoverImage,
		Images:        r.Images,
		Amenities:     r.Amenities,
	}
}

type paginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type propertyListResponse struct {
	Data       []*domain.Property `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type createAvailabilityRequest struct {
	PropertyID int64  `json:"property_id" validate:"required,gt=0"`
	Date       string `json:"date"        validate:"required"`
	Reason     string `json:"reason"`
}

type availabilityDataResponse struct {
	Data []*domain.Availability `json:"data"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type uploadResponse struct {
	FileURL string `json:"file_url"`
}
