package resolve

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Textual month matching in the time package
// is case-insensitive, so "july 4 1984" parses with the "January 2 2006"
// layout.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"2006",
}

// monthDayLayouts cover inputs without a year ("july 4"); the current year
// is substituted, which is what the on-this-day command wants.
var monthDayLayouts = []string{
	"January 2",
	"Jan 2",
	"01-02",
	"01/02",
}

// ParseDate attempts to coerce free-form date text into a calendar date.
// The boolean reports whether parsing succeeded; on failure the caller keeps
// treating the raw text as an opaque value. ParseDate never panics and has
// no error path beyond the false return.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(Normalize(raw))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range monthDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(time.Now().UTC().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
