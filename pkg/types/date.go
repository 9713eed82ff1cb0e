package types

import (
	"fmt"
	"time"
)

// DateLayout is the layout completion dates are written in.
const DateLayout = "01/02/2006"

// dateLayouts are tried in order when parsing a completion date.
var dateLayouts = []string{
	DateLayout,
	"1/2/2006",
	"01/02/2006 03:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"2006-01-02",
	time.RFC3339,
}

// FormatDate renders t as completion-date text.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses completion-date text in any of the accepted layouts.
// The result is in loc; dates without a zone are taken as local to loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
