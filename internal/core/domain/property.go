package domain

import (
	"errors"
	"math"
	"time"
)

var ErrPropertyNotFound = errors.New("property not found")

const (
	DefaultPageSize = 9
	MaxPageSize     = 50
	// MaxPage keeps (page-1)*MaxPageSize well inside int64.
	MaxPage = math.MaxInt32
)

// Property is a rentable listing.
type Property struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight float64   `json:"price_per_night"`
	Capacity      int       `json:"capacity"`
	CoverImage    string    `json:"cover_image"`
	Images        []string  `json:"images"`
	Amenities     []string  `json:"amenities"`
	OwnerEmail    string    `json:"owner_email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PropertyPatch holds a partial update. Nil fields keep the stored value.
type PropertyPatch struct {
	Title         *string
	Description   *string
	Location      *string
	PricePerNight *float64
	Capacity      *int
	CoverImage    *string
	Images        []string
	Amenities     []string
}

// ApplyTo copies every present field of the patch onto p and refreshes UpdatedAt.
// Images and Amenities are replaced only when non-nil; an empty, non-nil slice clears them.
func (pp PropertyPatch) ApplyTo(p *Property, now time.Time) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
	if pp.PricePerNight != nil {
		p.PricePerNight = *pp.PricePerNight
	}
	if pp.Capacity != nil {
		p.Capacity = *pp.Capacity
	}
	if pp.CoverImage != nil {
		p.CoverImage = *pp.CoverImage
	}
	if pp.Images != nil {
		p.Images = NormalizeList(pp.Images)
	}
	if pp.Amenities != nil {
		p.Amenities = NormalizeList(pp.Amenities)
	}
	p.UpdatedAt = now
}

// ClampPage applies the catalog paging rules: page is kept within [1, MaxPage],
// a missing page size falls back to DefaultPageSize, and the size is kept
// within [1, MaxPageSize].
func ClampPage(page, pageSize int) (int, int) {
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case pageSize == 0:
		pageSize = DefaultPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PageOffset is the number of rows skipped before page, computed on the
// clamped page so it never overflows.
func PageOffset(page, pageSize int) int64 {
	page, pageSize = ClampPage(page, pageSize)
	return int64(page-1) * int64(pageSize)
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
