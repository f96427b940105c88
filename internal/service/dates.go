package service

import (
	"strings"
	"time"

	"quotecrm/internal/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// parseDate parses an optional YYYY-MM-DD value. Empty input yields fallback.
func parseDate(field, value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.DateOnly(fallback), nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// parseOptionalDate parses a YYYY-MM-DD value, returning nil when empty.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, value, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
