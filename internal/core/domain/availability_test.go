package domain

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil || d != "2025-03-09" {
		t.Fatalf("got %q, %v", d, err)
	}
	d, err = ParseDate("2025-03-09T22:00:00Z")
	if err != nil || d != "2025-03-09" {
		t.Fatalf("got %q, %v", d, err)
	}
	if _, err := ParseDate("09/03/2025"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// The legacy listing endpoint always sorted descending whatever the marker;
// here the marker is honoured and only the unspecified case defaults to date desc.
func TestParseAvailabilitySort(t *testing.T) {
	cases := []struct {
		in   string
		want AvailabilitySort
	}{
		{"", AvailabilitySort{Field: "date", Desc: true}},
		{"-date", AvailabilitySort{Field: "date", Desc: true}},
		{"date", AvailabilitySort{Field: "date", Desc: false}},
		{"-created_at", AvailabilitySort{Field: "created_at", Desc: true}},
	}
	for _, tc := range cases {
		got, err := ParseAvailabilitySort(tc.in)
		if err != nil {
			t.Fatalf("ParseAvailabilitySort(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseAvailabilitySort(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseAvailabilitySort("reason; DROP TABLE users"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown field, got %v", err)
	}
}

func TestCanMutate(t *testing.T) {
	owner := Identity{UserID: 1, Email: "a@x.com", Role: RoleUser}
	other := Identity{UserID: 2, Email: "b@x.com", Role: RoleUser}
	admin := Identity{UserID: 3, Email: "root@x.com", Role: RoleAdmin}

	if !CanMutate("a@x.com", owner) {
		t.Error("owner must be allowed")
	}
	if CanMutate("a@x.com", other) {
		t.Error("non-owner must be rejected")
	}
	if !CanMutate("a@x.com", admin) {
		t.Error("admin must be allowed")
	}
	if CanMutate("", Identity{Role: RoleUser}) {
		t.Error("empty email must not match an ownerless property")
	}
}
