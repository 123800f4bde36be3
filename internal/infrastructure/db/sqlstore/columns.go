package sqlstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// listColumn decodes images/amenities whatever their stored encoding: a
// Postgres TEXT[] literal, JSON text, or legacy comma-separated text.
type listColumn []string

func (l *listColumn) Scan(src any) error {
	*l = domain.NormalizeList(src)
	return nil
}

// encodeList returns the driver value for a string list column.
func (s *Store) encodeList(items []string) (any, error) {
	items = domain.NormalizeList(items)
	if s.driver == DriverPostgres {
		return pq.Array(items), nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// dbTime accepts native timestamps as well as the text forms SQLite stores.
type dbTime time.Time

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = dbTime(time.Time{})
		return nil
	case time.Time:
		*t = dbTime(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case int64:
		*t = dbTime(time.Unix(v, 0).UTC())
		return nil
	default:
		return fmt.Errorf("dbTime: unsupported type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = dbTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("dbTime: cannot parse %q", s)
}

func (t dbTime) Time() time.Time { return time.Time(t) }

// dateColumn reads a calendar day from a DATE (Postgres) or TEXT (SQLite) column.
type dateColumn domain.Date

func (d *dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = dateColumn(domain.DateOf(v))
		return nil
	case string:
		parsed, err := domain.ParseDate(v)
		if err != nil {
			return fmt.Errorf("dateColumn: %w", err)
		}
		*d = dateColumn(parsed)
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("dateColumn: unsupported type %T", src)
	}
}
