package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthLayout is the wire format for months.
const MonthLayout = "2006-01"

// Month is a calendar month with no finer granularity. Entries are keyed by
// (account, month), so Month is comparable and usable as a map key.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month for the given year and month.
// Out-of-range months roll over the year, matching time.Date semantics.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{y: t.Year(), m: t.Month()}
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month{y: t.Year(), m: t.Month()}
}

// ThisMonth returns the current calendar month.
func ThisMonth() Month { return MonthOf(time.Now().UTC()) }

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, want format %q: %w", s, MonthLayout, err)
	}
	return MonthOf(t), nil
}

// MustMonth is like ParseMonth but panics on error. Test helper.
func MustMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// String formats the month as "YYYY-MM".
func (m Month) String() string { return m.time().Format(MonthLayout) }

func (m Month) time() time.Time {
	return time.Date(m.y, m.m, 1, 0, 0, 0, 0, time.UTC)
}

// Year returns the calendar year.
func (m Month) Year() int { return m.y }

// Mon returns the month of the year.
func (m Month) Mon() time.Month { return m.m }

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool { return m.y == 0 && m.m == 0 }

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month { return NewMonth(m.y, m.m+time.Month(n)) }

// Before reports whether m is earlier than x.
func (m Month) Before(x Month) bool {
	return m.y < x.y || (m.y == x.y && m.m < x.m)
}

// After reports whether m is later than x.
func (m Month) After(x Month) bool { return x.Before(m) }

// MarshalJSON encodes the month as a "YYYY-MM" string.
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a "YYYY-MM" string.
func (m *Month) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
