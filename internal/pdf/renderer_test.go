package pdf

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/domain"
)

func testCompany() domain.CompanyProfile {
	return domain.CompanyProfile{
		Name:        "sunrise engineering works",
		Address:     "12 Industrial Area, Bengaluru",
		GSTIN:       "29AAACS1234A1Z1",
		Phone:       "+91 80 1234 5678",
		BankDetails: "HDFC Bank, A/C 0001, IFSC HDFC0000001",
		UPIID:       "sunrise@hdfc",
	}
}

func testEstimation() *domain.Estimation {
	po := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)
	return &domain.Estimation{
		ID:             uuid.New(),
		QuoteNo:        "EST/2025/0001",
		QuoteDate:      time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		ValidityDays:   30,
		GSTNo:          "29ABCDE1234F1Z5",
		BillingAddress: "MG Road, Bengaluru",
		SubTotal:       decimal.RequireFromString("1000"),
		Discount:       decimal.RequireFromString("50"),
		TaxAmount:      decimal.RequireFromString("180"),
		Total:          decimal.RequireFromString("1130"),
		PONumber:       "PO-77",
		PODate:         &po,
		Terms:          domain.DefaultQuotationTerms,
		BankDetails:    "HDFC Bank",
		Items: []domain.EstimationItem{
			{Description: "Fabrication work", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(500),
				TaxRate: decimal.NewFromInt(18), Amount: decimal.RequireFromString("1180")},
		},
	}
}

func testClient() *domain.Client {
	return &domain.Client{CompanyName: "acme traders", ContactPerson: "R. Kumar", GSTIN: "29ABCDE1234F1Z5"}
}

func TestQuotation_RendersPDF(t *testing.T) {
	r := NewRenderer(testCompany())
	var buf bytes.Buffer
	tax := domain.TaxSettings{GSTPercentage: decimal.NewFromInt(18)}

	require.NoError(t, r.Quotation(&buf, testEstimation(), testClient(), tax))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestInvoice_RendersPDFWithQRCode(t *testing.T) {
	r := NewRenderer(testCompany())
	inv := &domain.Invoice{
		InvoiceNo:   "INV-0001",
		InvoiceDate: time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
		CreditDays:  30,
		Total:       decimal.RequireFromString("1130"),
		PaidAmount:  decimal.RequireFromString("130"),
		BalanceDue:  decimal.RequireFromString("1000"),
		Status:      domain.InvoicePartialPaid,
	}
	var withQR bytes.Buffer
	require.NoError(t, r.Invoice(&withQR, inv, testEstimation(), testClient()))
	assert.True(t, bytes.HasPrefix(withQR.Bytes(), []byte("%PDF-")))

	company := testCompany()
	company.UPIID = ""
	var plain bytes.Buffer
	require.NoError(t, NewRenderer(company).Invoice(&plain, inv, testEstimation(), testClient()))
	assert.Greater(t, withQR.Len(), plain.Len())
}

func TestReport_RendersEmptyAndFilled(t *testing.T) {
	r := NewRenderer(testCompany())
	at := time.Date(2025, time.June, 30, 9, 0, 0, 0, time.UTC)

	var empty bytes.Buffer
	require.NoError(t, r.Report(&empty, nil, at))
	assert.True(t, bytes.HasPrefix(empty.Bytes(), []byte("%PDF-")))

	quote := "EST/2025/0001"
	rows := make([]domain.ReportRow, 80)
	for i := range rows {
		rows[i] = domain.ReportRow{
			LeadNo:          "LEAD-0001",
			LeadDate:        at,
			ClientName:      "acme traders",
			LeadStatus:      domain.LeadQuoted,
			QuoteNo:         &quote,
			EstimationTotal: decimal.NewNullDecimal(decimal.NewFromInt(1180)),
		}
	}
	var filled bytes.Buffer
	require.NoError(t, r.Report(&filled, rows, at))
	assert.Greater(t, filled.Len(), empty.Len())
}

func TestUPILink(t *testing.T) {
	link := UPILink("sunrise@hdfc", "Sunrise", decimal.RequireFromString("1000.5"), "INV-0001")
	require.True(t, strings.HasPrefix(link, "upi://pay?"))

	q, err := url.ParseQuery(strings.TrimPrefix(link, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "sunrise@hdfc", q.Get("pa"))
	assert.Equal(t, "1000.50", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Invoice INV-0001", q.Get("tn"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 22))
	long := strings.Repeat("x", 40)
	out := truncate(long, 16)
	assert.Len(t, []rune(out), 10)
	assert.True(t, strings.HasSuffix(out, "."))
}
