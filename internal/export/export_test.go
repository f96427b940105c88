package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"quotecrm/internal/domain"
)

func strPtr(s string) *string { return &s }

func sampleRows() []domain.ReportRow {
	po := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)
	return []domain.ReportRow{
		{
			LeadID:           uuid.New(),
			LeadNo:           "LEAD-0001",
			LeadDate:         time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			ClientName:       "Acme Traders",
			Requirement:      "Steel shed",
			LeadStatus:       domain.LeadWon,
			QuoteNo:          strPtr("EST-0001"),
			EstimationStatus: strPtr("Invoiced"),
			EstimationTotal:  decimal.NewNullDecimal(decimal.RequireFromString("1180")),
			PONumber:         strPtr("PO-9"),
			PODate:           &po,
			InvoiceNo:        strPtr("INV-0001"),
			InvoiceTotal:     decimal.NewNullDecimal(decimal.RequireFromString("1180")),
			PaidAmount:       decimal.NewNullDecimal(decimal.RequireFromString("400.5")),
			BalanceDue:       decimal.NewNullDecimal(decimal.RequireFromString("779.5")),
			InvoiceStatus:    strPtr("Partial Paid"),
		},
		{
			LeadID:     uuid.New(),
			LeadNo:     "LEAD-0002",
			LeadDate:   time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
			ClientName: "Beta Corp",
			LeadStatus: domain.LeadPending,
		},
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRows(sampleRows()))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Len(t, records[0], 16)
	assert.Equal(t, "Lead No", records[0][0])
	assert.Equal(t, "Invoice Status", records[0][15])

	assert.Equal(t, "LEAD-0001", records[1][0])
	assert.Equal(t, "Won", records[1][4])
	assert.Equal(t, "1180.00", records[1][8])
	assert.Equal(t, "2025-06-18", records[1][10])
	assert.Equal(t, "400.50", records[1][13])

	assert.Equal(t, "Pending", records[2][4])
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "", records[2][8])
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())
	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Lead No", rows[0][0])
	assert.Equal(t, "LEAD-0001", rows[1][0])
	assert.Equal(t, "Acme Traders", rows[1][2])

	paid, err := f.GetCellValue(reportSheet, "N2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "400.5", paid)
}

func TestWriteExcel_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, nil))
	assert.Greater(t, buf.Len(), 0)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"CRM Report", "CRM_Report"},
		{"Q2/2025 leads", "Q2_2025_leads"},
		{"__x__", "x"},
		{"simple-name", "simple-name"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	at := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "CRM_Report_2025-06-30.csv", BuildFilename("CRM Report", "csv", at))
}
