package service

import "time"

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates. Bare dates
// resolve to midnight UTC.
func parseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, invalid(field, "must be RFC 3339 or YYYY-MM-DD")
}
