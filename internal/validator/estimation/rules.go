// Package estimation checks the arithmetic and formats of a quotation. Totals
// are entered by the user and trusted as submitted, so every finding is a
// non-blocking warning returned next to the saved estimation.
package estimation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"quotecrm/internal/domain"
)

// Tolerance is the largest difference accepted between an entered amount and
// the amount recomputed from its parts.
var Tolerance = decimal.NewFromInt(1)

var hundred = decimal.NewFromInt(100)

// Warning describes one failed check.
type Warning struct {
	RuleKey       string `json:"rule_key"`
	FieldPath     string `json:"field_path"`
	ExpectedValue string `json:"expected_value,omitempty"`
	ActualValue   string `json:"actual_value,omitempty"`
	Message       string `json:"message"`
}

// rule is a single named check over an estimation.
type rule struct {
	key      string
	name     string
	validate func(*domain.Estimation) []Warning
}

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

func mathWarning(key, name, fieldPath string, expected, actual decimal.Decimal) Warning {
	return Warning{
		RuleKey:       key,
		FieldPath:     fieldPath,
		ExpectedValue: expected.StringFixed(2),
		ActualValue:   actual.StringFixed(2),
		Message: fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)",
			name, fieldPath, expected.StringFixed(2), actual.StringFixed(2)),
	}
}

func lineNet(item *domain.EstimationItem) decimal.Decimal {
	return item.Quantity.Mul(item.Rate)
}

func lineTax(item *domain.EstimationItem) decimal.Decimal {
	return lineNet(item).Mul(item.TaxRate).Div(hundred)
}

func rules() []rule {
	return []rule{
		{
			key: "math.item.amount", name: "Math: Item Amount",
			validate: func(e *domain.Estimation) []Warning {
				var out []Warning
				for i := range e.Items {
					item := &e.Items[i]
					expected := lineNet(item).Add(lineTax(item)).Round(2)
					if !approxEqual(item.Amount, expected) {
						out = append(out, mathWarning("math.item.amount", "Math: Item Amount",
							fmt.Sprintf("items[%d].amount", i), expected, item.Amount))
					}
				}
				return out
			},
		},
		{
			key: "math.sub_total", name: "Math: Sub Total",
			validate: func(e *domain.Estimation) []Warning {
				expected := decimal.Zero
				for i := range e.Items {
					expected = expected.Add(lineNet(&e.Items[i]))
				}
				expected = expected.Round(2)
				if approxEqual(e.SubTotal, expected) {
					return nil
				}
				return []Warning{mathWarning("math.sub_total", "Math: Sub Total", "sub_total", expected, e.SubTotal)}
			},
		},
		{
			key: "math.tax_amount", name: "Math: Tax Amount",
			validate: func(e *domain.Estimation) []Warning {
				expected := decimal.Zero
				for i := range e.Items {
					expected = expected.Add(lineTax(&e.Items[i]))
				}
				expected = expected.Round(2)
				if approxEqual(e.TaxAmount, expected) {
					return nil
				}
				return []Warning{mathWarning("math.tax_amount", "Math: Tax Amount", "tax_amount", expected, e.TaxAmount)}
			},
		},
		{
			key: "math.total", name: "Math: Grand Total",
			validate: func(e *domain.Estimation) []Warning {
				expected := e.SubTotal.Sub(e.Discount).Add(e.TaxAmount).Round(2)
				if approxEqual(e.Total, expected) {
					return nil
				}
				return []Warning{mathWarning("math.total", "Math: Grand Total", "total", expected, e.Total)}
			},
		},
		{
			key: "format.gst_no", name: "Format: Client GSTIN",
			validate: func(e *domain.Estimation) []Warning {
				if e.GSTNo == "" || domain.ValidGSTIN(e.GSTNo) {
					return nil
				}
				return []Warning{{
					RuleKey:     "format.gst_no",
					FieldPath:   "gst_no",
					ActualValue: e.GSTNo,
					Message:     "Format: Client GSTIN: gst_no does not match the GSTIN format",
				}}
			},
		},
		{
			key: "logical.discount", name: "Logical: Discount",
			validate: func(e *domain.Estimation) []Warning {
				if !e.Discount.IsNegative() && e.Discount.LessThanOrEqual(e.SubTotal) {
					return nil
				}
				return []Warning{{
					RuleKey:     "logical.discount",
					FieldPath:   "discount",
					ActualValue: e.Discount.StringFixed(2),
					Message:     "Logical: Discount: discount should be between zero and the sub total",
				}}
			},
		},
	}
}

// Validate runs every check and returns the failures in rule order.
func Validate(e *domain.Estimation) []Warning {
	var warnings []Warning
	for _, r := range rules() {
		warnings = append(warnings, r.validate(e)...)
	}
	return warnings
}
