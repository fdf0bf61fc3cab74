package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status reports how a date string was read.
type Status int

const (
	// StatusValid means the input was a date or a date-time that could be parsed.
	StatusValid Status = iota
	// StatusEmpty means the input was empty and the current day was used instead.
	StatusEmpty
	// StatusInvalid means the input was non-empty but could not be read as a date.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusEmpty:
		return "empty"
	case StatusInvalid:
		return "invalid"
	}

	return "unknown"
}

// Date is a timezone-naive calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compact formats the date as YYMMDD.
func (d Date) Compact() string {
	return fmt.Sprintf("%02d%02d%02d", d.Year%100, int(d.Month), d.Day)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// FromTime takes the calendar day of t in its own location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Result is the outcome of normalizing a date string.
type Result struct {
	Date   Date
	Status Status
}

// OK reports whether Date holds a usable day.
func (r Result) OK() bool {
	return r.Status != StatusInvalid
}

var dateOnly = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// instantLayouts are tried in order for anything that is not a bare date.
// Layouts without a zone are read in the normalizer's location.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.RFC1123Z,
	time.RFC1123,
}

// Normalizer turns stored date strings into calendar days.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// NewNormalizer creates a Normalizer that reads instants as days in loc.
// A nil loc means time.Local.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}

	return &Normalizer{loc: loc, now: time.Now}
}

// WithClock returns a copy of n that uses now as the current moment.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	return &Normalizer{loc: n.loc, now: now}
}

// Location returns the location instants are read in.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Parse reads s as a calendar day.
//
// A strict YYYY-MM-DD string is built from its components without passing
// through an instant, so it never shifts across a timezone boundary. Anything
// else is parsed as a date-time and converted to the normalizer's location.
// An empty string yields the current day with StatusEmpty.
func (n *Normalizer) Parse(s string) Result {
	if s == "" {
		return Result{Date: FromTime(n.now().In(n.loc)), Status: StatusEmpty}
	}

	if m := dateOnly.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])

		// Out of range components roll over the same way time.Date does.
		return Result{Date: FromTime(time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)), Status: StatusValid}
	}

	t, ok := n.parseInstant(strings.TrimSpace(s))
	if !ok {
		return Result{Status: StatusInvalid}
	}

	return Result{Date: FromTime(t.In(n.loc)), Status: StatusValid}
}

func (n *Normalizer) parseInstant(s string) (time.Time, bool) {
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
