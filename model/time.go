package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TBD is shown in place of missing schedule data.
const TBD = "TBD"

// instantLayouts are tried in order. Layouts without a zone are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseInstant parses an ISO-8601-ish timestamp as delivered by the content store.
// It never errors: anything it cannot read is reported as not ok.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateLabel formats a timestamp as "SAT 7 MAR", or TBD if it cannot be parsed.
func DateLabel(s string) string {
	t, ok := ParseInstant(s)
	if !ok {
		return TBD
	}
	// A Caser holds state, so each call gets its own.
	return cases.Upper(language.BritishEnglish).String(t.Format("Mon 2 Jan"))
}
