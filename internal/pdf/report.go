package pdf

import (
	"io"
	"time"

	"quotecrm/internal/domain"
)

// ReportFileName is the download name of the filtered report.
const ReportFileName = "Filtered_CRM_Report.pdf"

type reportColumn struct {
	title string
	width float64
	align string
	value func(d *doc, r *domain.ReportRow) string
}

var reportColumns = []reportColumn{
	{"Lead No", 22, "L", func(_ *doc, r *domain.ReportRow) string { return r.LeadNo }},
	{"Lead Date", 20, "L", func(_ *doc, r *domain.ReportRow) string { return formatDate(&r.LeadDate) }},
	{"Client", 40, "L", func(d *doc, r *domain.ReportRow) string { return d.title.String(r.ClientName) }},
	{"Lead Status", 18, "L", func(_ *doc, r *domain.ReportRow) string { return string(r.LeadStatus) }},
	{"Quote No", 26, "L", func(_ *doc, r *domain.ReportRow) string { return deref(r.QuoteNo) }},
	{"Quote Status", 18, "L", func(_ *doc, r *domain.ReportRow) string { return deref(r.EstimationStatus) }},
	{"Quote Value", 24, "R", func(d *doc, r *domain.ReportRow) string { return d.nullAmount(r.EstimationTotal) }},
	{"PO No", 20, "L", func(_ *doc, r *domain.ReportRow) string { return deref(r.PONumber) }},
	{"Invoice No", 22, "L", func(_ *doc, r *domain.ReportRow) string { return deref(r.InvoiceNo) }},
	{"Invoiced", 22, "R", func(d *doc, r *domain.ReportRow) string { return d.nullAmount(r.InvoiceTotal) }},
	{"Paid", 22, "R", func(d *doc, r *domain.ReportRow) string { return d.nullAmount(r.PaidAmount) }},
	{"Balance", 22, "R", func(d *doc, r *domain.ReportRow) string { return d.nullAmount(r.BalanceDue) }},
}

// Report renders the lead report on landscape pages, repeating the column
// header on each page.
func (r *Renderer) Report(w io.Writer, rows []domain.ReportRow, generatedAt time.Time) error {
	d := newDoc("L")
	tableHeader := func() {
		d.SetFont(fontFamily, "B", 8)
		d.SetFillColor(220, 230, 241)
		for _, c := range reportColumns {
			d.cell(c.width, 7, c.title, "1", "C", true, 0)
		}
		d.Ln(-1)
		d.SetFont(fontFamily, "", 7.5)
	}
	d.SetHeaderFunc(func() {
		d.SetFont(fontFamily, "B", 12)
		d.text(0, 7, d.title.String(r.company.Name)+" - CRM Report")
		d.Ln(7)
		d.SetFont(fontFamily, "", 8)
		d.text(0, 5, "Generated on: "+generatedAt.Format("2006-01-02 15:04"))
		d.Ln(7)
		tableHeader()
	})
	d.AddPage()

	if len(rows) == 0 {
		d.SetFont(fontFamily, "I", 10)
		d.text(0, 8, "No records match the selected filters.")
		return d.write(w)
	}
	for i := range rows {
		row := &rows[i]
		for _, c := range reportColumns {
			d.cell(c.width, 6, truncate(c.value(d, row), c.width), "1", c.align, false, 0)
		}
		d.Ln(-1)
	}
	return d.write(w)
}

// truncate keeps text within a cell of width mm at the report font size.
func truncate(s string, width float64) string {
	limit := int(width * 10 / 16)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "."
}
