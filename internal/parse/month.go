package parse

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// BillingMonth parses "YYYY-MM" (or a full "YYYY-MM-DD" date) into the first
// day of that month in UTC. An empty string means the month containing now.
func BillingMonth(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		u := now.UTC()
		return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}

	layout := monthLayout
	if len(raw) > len(monthLayout) {
		layout = time.DateOnly
	}
	t, err := time.ParseInLocation(layout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid billing month %q, expected YYYY-MM", raw)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// FormatMonth renders a billing month as "YYYY-MM".
func FormatMonth(t time.Time) string {
	return t.UTC().Format(monthLayout)
}
