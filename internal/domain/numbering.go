package domain

import (
	"fmt"
	"strings"
	"time"
)

const defaultNumberPadding = 4

var defaultPrefixes = map[NumberKind]string{
	NumberKindLead:       "LEAD",
	NumberKindEstimation: "EST",
	NumberKindInvoice:    "INV",
}

// DefaultNumberingSettings is used when no settings row exists for kind.
// The sequence starts at 1.
func DefaultNumberingSettings(kind NumberKind) NumberingSettings {
	prefix, ok := defaultPrefixes[kind]
	if !ok {
		prefix = strings.ToUpper(string(kind))
	}
	return NumberingSettings{
		Kind:       kind,
		Prefix:     prefix,
		Frequency:  FrequencyNone,
		Padding:    defaultNumberPadding,
		NextNumber: 1,
	}
}

// FormatDocumentNumber renders sequence seq according to s, using at for the
// date parts. Undated numbers use a hyphen (INV-0001); dated numbers use
// slashes (EST/2025/06/0001).
func FormatDocumentNumber(s NumberingSettings, seq int64, at time.Time) string {
	padding := s.Padding
	if padding <= 0 {
		padding = defaultNumberPadding
	}
	n := fmt.Sprintf("%0*d", padding, seq)

	switch s.Frequency {
	case FrequencyYearly:
		return fmt.Sprintf("%s/%04d/%s", s.Prefix, at.Year(), n)
	case FrequencyMonthly:
		return fmt.Sprintf("%s/%04d/%02d/%s", s.Prefix, at.Year(), int(at.Month()), n)
	case FrequencyDaily:
		return fmt.Sprintf("%s/%s/%s", s.Prefix, at.Format("20060102"), n)
	default:
		return fmt.Sprintf("%s-%s", s.Prefix, n)
	}
}

// NewNumberRewindError reports an attempt to move a sequence below a number it
// has already issued.
func NewNumberRewindError() error {
	return NewValidationError("next_number", "cannot move below an already issued number")
}

// ValidateNumberingSettings checks user supplied settings before they are saved.
func ValidateNumberingSettings(s NumberingSettings) error {
	if !ValidNumberKinds[s.Kind] {
		return NewValidationError("kind", "must be one of lead, estimation, invoice")
	}
	prefix := strings.TrimSpace(s.Prefix)
	if prefix == "" {
		return NewValidationError("prefix", "is required")
	}
	if strings.ContainsAny(prefix, "/ ") {
		return NewValidationError("prefix", "must not contain spaces or slashes")
	}
	if !ValidFrequencies[s.Frequency] {
		return NewValidationError("frequency", "must be one of none, daily, monthly, yearly")
	}
	if s.Padding < 1 || s.Padding > 10 {
		return NewValidationError("padding", "must be between 1 and 10")
	}
	if s.NextNumber < 1 {
		return NewValidationError("next_number", "must be at least 1")
	}
	return nil
}
