package export

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"

	"quotecrm/internal/domain"
)

// CSVFileName is the download name of the report as CSV.
const CSVFileName = "CRM_Report.csv"

// BOM is the UTF-8 byte order mark for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting the lead report.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRows converts a batch of report rows to CSV records and writes them.
func (w *CSVWriter) WriteRows(rows []domain.ReportRow) error {
	for i := range rows {
		if err := w.csv.Write(csvRecord(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func csvRecord(r *domain.ReportRow) []string {
	values := reportRowValues(r)
	record := make([]string, len(values))
	for i, v := range values {
		switch tv := v.(type) {
		case decimal.NullDecimal:
			record[i] = formatMoney(tv)
		case string:
			record[i] = tv
		}
	}
	return record
}
