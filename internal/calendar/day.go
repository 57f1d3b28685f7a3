// Package calendar provides a zone-free calendar day value.
//
// Habit records are keyed by day, not by instant. A Day is parsed once at the
// boundary from its canonical "YYYY-MM-DD" form and compared by calendar
// semantics from then on, so ordering never depends on string formatting.
package calendar

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"
	_ "time/tzdata" // DefaultZone must resolve on hosts without a zoneinfo database.
)

// Layout is the canonical text form of a Day.
const Layout = "2006-01-02"

// DefaultZone anchors "today" when no zone is configured.
const DefaultZone = "Asia/Tokyo"

// Day is a calendar date with no time of day or zone.
// The zero value is not a valid day; check IsZero.
type Day struct {
	t time.Time // always midnight UTC
}

// New returns the day for the given year, month and day of month.
// Out-of-range values are normalized the way time.Date normalizes them.
func New(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse parses a "YYYY-MM-DD" string.
func Parse(s string) (Day, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Day{t: t}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime returns the calendar day of t as observed in loc.
func FromTime(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current day in loc, using now as the reference instant.
func Today(now time.Time, loc *time.Location) Day {
	return FromTime(now, loc)
}

// LoadLocation resolves a zone name, falling back to DefaultZone when name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	return loc, nil
}

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) Day() int          { return d.t.Day() }

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// String returns the canonical "YYYY-MM-DD" form, or "" for the zero Day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// Format formats the day with a time layout.
func (d Day) Format(layout string) string { return d.t.Format(layout) }

// Time returns midnight of the day in loc.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

const secondsPerDay = 24 * 60 * 60

// Sub returns the number of calendar days from other to d. Both days sit at
// midnight UTC, so the difference is always a whole number of days.
func (d Day) Sub(other Day) int {
	return int((d.t.Unix() - other.t.Unix()) / secondsPerDay)
}

func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool  { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Day) Compare(other Day) int { return d.t.Compare(other.t) }

// StartOfWeek returns the Monday of the week containing d.
func (d Day) StartOfWeek() Day {
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday → 7 in ISO week numbering
	}
	return d.AddDays(1 - weekday)
}

// StartOfMonth returns the first day of d's month.
func (d Day) StartOfMonth() Day {
	return New(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of d's month.
func (d Day) EndOfMonth() Day {
	return New(d.Year(), d.Month()+1, 0)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero Day.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer. The zero Day is stored as NULL.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner for TEXT columns holding "YYYY-MM-DD".
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case time.Time:
		*d = New(v.Year(), v.Month(), v.Day())
		return nil
	default:
		return fmt.Errorf("cannot scan %T into calendar.Day", src)
	}
}

// Unique returns the distinct days in ascending order. The input is not modified.
func Unique(days []Day) []Day {
	out := make([]Day, 0, len(days))
	seen := make(map[Day]struct{}, len(days))
	for _, d := range days {
		if d.IsZero() {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	slices.SortFunc(out, Day.Compare)
	return out
}

// Set is a membership index over days.
type Set map[Day]struct{}

// NewSet builds a Set from days.
func NewSet(days ...Day) Set {
	s := make(Set, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

// Add inserts d. The zero Day is never a member.
func (s Set) Add(d Day) {
	if d.IsZero() {
		return
	}
	s[d] = struct{}{}
}

func (s Set) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []Day {
	out := make([]Day, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	slices.SortFunc(out, Day.Compare)
	return out
}
