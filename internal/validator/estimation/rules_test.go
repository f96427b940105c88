package estimation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/domain"
	"quotecrm/internal/validator/estimation"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validEstimation() *domain.Estimation {
	return &domain.Estimation{
		GSTNo:     "29ABCDE1234F1Z5",
		SubTotal:  d("1500"),
		Discount:  d("100"),
		TaxAmount: d("270"),
		Total:     d("1670"),
		Items: []domain.EstimationItem{
			{Description: "Beam", Quantity: d("2"), Rate: d("500"), TaxRate: d("18"), Amount: d("1180")},
			{Description: "Slab", Quantity: d("1"), Rate: d("500"), TaxRate: d("18"), Amount: d("590")},
		},
	}
}

func TestValidate_CleanEstimation(t *testing.T) {
	assert.Empty(t, estimation.Validate(validEstimation()))
}

func TestValidate_WithinTolerance(t *testing.T) {
	e := validEstimation()
	e.Total = d("1670.99")
	e.Items[0].Amount = d("1179.01")
	assert.Empty(t, estimation.Validate(e))
}

func TestValidate_ReportsMismatches(t *testing.T) {
	e := validEstimation()
	e.Items[1].Amount = d("600")
	e.Total = d("2000")
	e.GSTNo = "BADGSTIN"

	warnings := estimation.Validate(e)
	require.Len(t, warnings, 3)

	assert.Equal(t, "math.item.amount", warnings[0].RuleKey)
	assert.Equal(t, "items[1].amount", warnings[0].FieldPath)
	assert.Equal(t, "590.00", warnings[0].ExpectedValue)

	assert.Equal(t, "math.total", warnings[1].RuleKey)
	assert.Equal(t, "1670.00", warnings[1].ExpectedValue)
	assert.Equal(t, "2000.00", warnings[1].ActualValue)

	assert.Equal(t, "format.gst_no", warnings[2].RuleKey)
}

func TestValidate_NegativeDiscount(t *testing.T) {
	e := validEstimation()
	e.Discount = d("-10")
	e.Total = d("1780")

	warnings := estimation.Validate(e)
	require.Len(t, warnings, 1)
	assert.Equal(t, "logical.discount", warnings[0].RuleKey)
}
