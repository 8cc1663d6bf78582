package utils

import (
	"fmt"
	"strings"
	"time"
)

// RateDateFormat is the date layout of the NBU exchange endpoint. It doubles
// as the canonical day key, so two trades share a key iff they share a day.
const RateDateFormat = "20060102"

// reportDateLayouts are the layouts seen in broker exports, most specific first.
var reportDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
}

// ParseReportDate parses a date as written in a broker export.
func ParseReportDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// CanonicalDateKey returns the day key used to compare trade dates.
func CanonicalDateKey(t time.Time) string {
	return t.Format(RateDateFormat)
}
