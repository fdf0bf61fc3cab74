package docid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
)

// UnknownDate replaces YYMMDD when there is no usable reference date.
const UnknownDate = "UNKNOWN"

// Formatter renders codes of the form PREFIX-YYMMDD-EE-DD.
type Formatter struct {
	dates *calendar.Normalizer
}

func NewFormatter(dates *calendar.Normalizer) *Formatter {
	return &Formatter{dates: dates}
}

// Format renders a code from numeric sequence numbers.
func (f *Formatter) Format(prefix, date string, eventSeq, docSeq int) string {
	return f.FormatRaw(prefix, date, strconv.Itoa(eventSeq), strconv.Itoa(docSeq))
}

// FormatRaw renders a code from textual sequence components. Numeric text is
// rendered as its integer value padded to two digits; anything else is padded
// with zeros as-is. An empty component counts as 1.
func (f *Formatter) FormatRaw(prefix, date, eventSeq, docSeq string) string {
	token, _ := f.DateToken(date)

	return fmt.Sprintf("%s-%s-%s-%s", prefix, token, padSequence(eventSeq), padSequence(docSeq))
}

// DateToken returns the YYMMDD part for date along with how the date was read.
// Empty and unreadable dates both render as UnknownDate.
func (f *Formatter) DateToken(date string) (string, calendar.Status) {
	if date == "" {
		return UnknownDate, calendar.StatusEmpty
	}

	r := f.dates.Parse(date)
	if r.Status != calendar.StatusValid {
		return UnknownDate, r.Status
	}

	return r.Date.Compact(), r.Status
}

func padSequence(s string) string {
	if s == "" {
		s = "1"
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return fmt.Sprintf("%02d", int64(math.Trunc(v)))
	}

	if n := len([]rune(s)); n < 2 {
		return strings.Repeat("0", 2-n) + s
	}

	return s
}
