package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// DefaultGSTPercentage applies until tax settings are saved.
var DefaultGSTPercentage = decimal.NewFromInt(18)

// ValidGSTIN reports whether s is a well-formed 15 character GSTIN.
func ValidGSTIN(s string) bool {
	return gstinPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// GSTINStateCode returns the two digit state code prefix of a GSTIN, or "".
func GSTINStateCode(gstin string) string {
	gstin = strings.TrimSpace(gstin)
	if len(gstin) < 2 {
		return ""
	}
	code := gstin[:2]
	if code[0] < '0' || code[0] > '9' || code[1] < '0' || code[1] > '9' {
		return ""
	}
	return code
}

// TaxBreakdown splits a GST amount into its printed components.
type TaxBreakdown struct {
	IntraState bool            `json:"intra_state"`
	Rate       decimal.Decimal `json:"rate"`
	CGST       decimal.Decimal `json:"cgst"`
	SGST       decimal.Decimal `json:"sgst"`
	IGST       decimal.Decimal `json:"igst"`
}

// SplitGST decides between CGST+SGST (same state) and IGST (different or
// unknown state) for a tax amount billed at rate percent.
func SplitGST(taxAmount, rate decimal.Decimal, sellerGSTIN, buyerGSTIN string) TaxBreakdown {
	seller := GSTINStateCode(sellerGSTIN)
	buyer := GSTINStateCode(buyerGSTIN)

	if seller != "" && seller == buyer {
		half := taxAmount.Div(decimal.NewFromInt(2)).Round(2)
		return TaxBreakdown{
			IntraState: true,
			Rate:       rate,
			CGST:       half,
			SGST:       taxAmount.Sub(half),
			IGST:       decimal.Zero,
		}
	}
	return TaxBreakdown{
		Rate: rate,
		CGST: decimal.Zero,
		SGST: decimal.Zero,
		IGST: taxAmount,
	}
}

// DefaultQuotationTerms are printed on quotations until other terms are saved.
const DefaultQuotationTerms = `1) This is a system generated Quotation. Hence, signature is not needed.
2) Payment Terms: 100% Advance Payment or As Per Agreed Terms
3) Service Warranty 30 to 90 Days Depending upon the Availed Service
4) All Products and Accessories Carries Standard OEM Warranty`
