package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrDateAlreadyBlocked   = errors.New("date already blocked")
)

const dateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form.
type Date string

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps the day part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date(t.Format(dateLayout)), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date(t.Format(dateLayout)), nil
	}
	return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
}

// DateOf returns the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func (d Date) String() string { return string(d) }

// Availability blocks one calendar date for one property.
type Availability struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	Date       Date      `json:"date"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// AvailabilitySort is a validated ORDER BY for availability listings.
type AvailabilitySort struct {
	Field string
	Desc  bool
}

var sortableAvailabilityFields = map[string]struct{}{
	"date":        {},
	"created_at":  {},
	"id":          {},
	"property_id": {},
}

// DefaultAvailabilitySort is applied when the caller does not ask for an order.
var DefaultAvailabilitySort = AvailabilitySort{Field: "date", Desc: true}

// ParseAvailabilitySort reads "field" (ascending) or "-field" (descending).
// An empty string yields DefaultAvailabilitySort.
func ParseAvailabilitySort(s string) (AvailabilitySort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultAvailabilitySort, nil
	}
	sort := AvailabilitySort{}
	if strings.HasPrefix(s, "-") {
		sort.Desc = true
		s = s[1:]
	}
	if _, ok := sortableAvailabilityFields[s]; !ok {
		return AvailabilitySort{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidInput, s)
	}
	sort.Field = s
	return sort, nil
}
