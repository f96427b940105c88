package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"quotecrm/internal/domain"
)

// ExcelFileName is the download name of the full report workbook.
const ExcelFileName = "CRM_Complete_Report.xlsx"

const reportSheet = "CRM Report"

// WriteExcel writes rows as a single-sheet workbook with a bold frozen header
// and numeric money columns.
func WriteExcel(w io.Writer, rows []domain.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("excel.SetSheetName: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F81BD"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("excel.NewStyle: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("excel.NewStyle: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return fmt.Errorf("excel.SetSheetRow: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(reportSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("excel.SetCellStyle: %w", err)
	}

	for i := range rows {
		values := reportRowValues(&rows[i])
		for j, v := range values {
			if d, ok := v.(decimal.NullDecimal); ok {
				if d.Valid {
					values[j] = d.Decimal.Round(2).InexactFloat64()
				} else {
					values[j] = nil
				}
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return fmt.Errorf("excel.SetSheetRow: %w", err)
		}
	}

	if len(rows) > 0 {
		for col := range moneyColumns {
			top, _ := excelize.CoordinatesToCellName(col+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(col+1, len(rows)+1)
			if err := f.SetCellStyle(reportSheet, top, bottom, moneyStyle); err != nil {
				return fmt.Errorf("excel.SetCellStyle: %w", err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetColWidth(reportSheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("excel.SetColWidth: %w", err)
	}
	if err := f.SetPanes(reportSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("excel.SetPanes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("excel.WriteTo: %w", err)
	}
	return nil
}
