package domain

import "time"

// Period presets accepted by the dashboard.
const (
	PeriodThisMonth       = "this_month"
	PeriodPreviousMonth   = "previous_month"
	PeriodThisQuarter     = "this_quarter"
	PeriodPreviousQuarter = "previous_quarter"
	PeriodThisYear        = "this_year"
	PeriodPreviousYear    = "previous_year"
	PeriodCustom          = "custom"
)

// PeriodRange resolves a preset into a half-open [start, end) range of UTC
// days. For PeriodCustom both from and to are required and to is inclusive.
func PeriodRange(preset string, now time.Time, from, to *time.Time) (time.Time, time.Time, error) {
	today := DateOnly(now)
	y, m := today.Year(), today.Month()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	quarterStart := time.Date(y, time.Month((int(m)-1)/3*3+1), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)

	switch preset {
	case "", PeriodThisMonth:
		return monthStart, monthStart.AddDate(0, 1, 0), nil
	case PeriodPreviousMonth:
		return monthStart.AddDate(0, -1, 0), monthStart, nil
	case PeriodThisQuarter:
		return quarterStart, quarterStart.AddDate(0, 3, 0), nil
	case PeriodPreviousQuarter:
		return quarterStart.AddDate(0, -3, 0), quarterStart, nil
	case PeriodThisYear:
		return yearStart, yearStart.AddDate(1, 0, 0), nil
	case PeriodPreviousYear:
		return yearStart.AddDate(-1, 0, 0), yearStart, nil
	case PeriodCustom:
		if from == nil || to == nil {
			return time.Time{}, time.Time{}, NewValidationError("period", "custom period needs from and to")
		}
		start, end := DateOnly(*from), DateOnly(*to).AddDate(0, 0, 1)
		if !end.After(start) {
			return time.Time{}, time.Time{}, NewValidationError("to", "must not be before from")
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, NewValidationError("period", "unknown period "+preset)
	}
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
