// Package export writes the CRM lead report as CSV and Excel files.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotecrm/internal/domain"
)

// columns defines the report header row (16 columns).
var columns = []string{
	"Lead No",
	"Lead Date",
	"Client",
	"Requirement",
	"Lead Status",
	"Quote No",
	"Quote Status",
	"Lost Reason",
	"Quote Value",
	"PO Number",
	"PO Date",
	"Invoice No",
	"Invoice Total",
	"Paid",
	"Balance Due",
	"Invoice Status",
}

// money columns hold decimals, written as numbers to spreadsheets.
var moneyColumns = map[int]bool{8: true, 12: true, 13: true, 14: true}

// reportRowValues converts a report row to one cell value per column. Money
// cells are decimal.NullDecimal, everything else is a string.
func reportRowValues(r *domain.ReportRow) []any {
	return []any{
		r.LeadNo,
		r.LeadDate.Format("2006-01-02"),
		r.ClientName,
		r.Requirement,
		string(r.LeadStatus),
		str(r.QuoteNo),
		str(r.EstimationStatus),
		str(r.LostReason),
		r.EstimationTotal,
		str(r.PONumber),
		formatDate(r.PODate),
		str(r.InvoiceNo),
		r.InvoiceTotal,
		r.PaidAmount,
		r.BalanceDue,
		str(r.InvoiceStatus),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatMoney(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(2)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), at.Format("2006-01-02"), ext)
}
