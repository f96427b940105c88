// Package pdf renders quotations, invoices and the CRM report as PDF
// documents with gofpdf.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"quotecrm/internal/domain"
)

const (
	fontFamily  = "Arial"
	displayDate = "02-Jan-2006"
	pageWidth   = 190.0
)

var indianEnglish = language.MustParse("en-IN")

// Renderer draws documents for one issuing company.
type Renderer struct {
	company domain.CompanyProfile
}

// NewRenderer creates a Renderer printing company as the issuer.
func NewRenderer(company domain.CompanyProfile) *Renderer {
	return &Renderer{company: company}
}

// doc wraps a gofpdf document with the per-render helpers. Casers and
// printers are stateful, so each render builds its own.
type doc struct {
	*gofpdf.Fpdf
	tr    func(string) string
	title cases.Caser
	money *message.Printer
}

func newDoc(orientation string) *doc {
	f := gofpdf.New(orientation, "mm", "A4", "")
	f.SetMargins(10, 10, 10)
	f.SetAutoPageBreak(true, 15)
	return &doc{
		Fpdf:  f,
		tr:    f.UnicodeTranslatorFromDescriptor(""),
		title: cases.Title(language.Und),
		money: message.NewPrinter(indianEnglish),
	}
}

// amount formats a rupee value with Indian digit grouping.
func (d *doc) amount(v decimal.Decimal) string {
	return d.money.Sprintf("%.2f", v.Round(2).InexactFloat64())
}

func (d *doc) nullAmount(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return d.amount(v.Decimal)
}

func (d *doc) text(w, h float64, s string) {
	d.Cell(w, h, d.tr(s))
}

func (d *doc) cell(w, h float64, s, border, align string, fill bool, ln int) {
	d.CellFormat(w, h, d.tr(s), border, ln, align, fill, 0, "")
}

func (d *doc) block(w, h float64, s string) {
	d.MultiCell(w, h, d.tr(s), "", "L", false)
}

// header prints the issuing company and a document title.
func (d *doc) header(company domain.CompanyProfile, title string) {
	d.SetFont(fontFamily, "B", 16)
	d.text(pageWidth, 8, d.title.String(company.Name))
	d.Ln(8)
	d.SetFont(fontFamily, "", 9)
	if company.Address != "" {
		d.block(pageWidth, 4.5, company.Address)
	}
	var contact []string
	if company.Phone != "" {
		contact = append(contact, "Phone: "+company.Phone)
	}
	if company.Email != "" {
		contact = append(contact, "Email: "+company.Email)
	}
	if company.GSTIN != "" {
		contact = append(contact, "GSTIN: "+company.GSTIN)
	}
	if len(contact) > 0 {
		d.text(pageWidth, 5, strings.Join(contact, " | "))
		d.Ln(5)
	}
	d.Ln(3)
	d.SetFont(fontFamily, "B", 14)
	d.cell(pageWidth, 9, title, "TB", "C", false, 1)
	d.Ln(3)
}

// party prints the billed client block.
func (d *doc) party(label string, client *domain.Client, gstin, address string) {
	d.SetFont(fontFamily, "B", 10)
	d.text(pageWidth, 6, label)
	d.Ln(6)
	d.SetFont(fontFamily, "", 10)
	d.text(pageWidth, 5, d.title.String(client.CompanyName))
	d.Ln(5)
	if client.ContactPerson != "" {
		d.text(pageWidth, 5, "Attn: "+client.ContactPerson)
		d.Ln(5)
	}
	if address != "" {
		d.block(110, 5, address)
	}
	if gstin != "" {
		d.text(pageWidth, 5, "GSTIN: "+gstin)
		d.Ln(5)
	}
	d.Ln(2)
}

// totalLine prints a right aligned label and value pair.
func (d *doc) totalLine(label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.SetFont(fontFamily, style, 10)
	d.cell(150, 7, label, "", "R", false, 0)
	d.cell(40, 7, value, "1", "R", false, 1)
}

func (d *doc) footer(note string, at time.Time) {
	d.SetY(-22)
	d.SetFont(fontFamily, "I", 8)
	d.text(pageWidth, 5, note)
	d.Ln(4)
	d.text(pageWidth, 5, "Generated on: "+at.Format("2006-01-02 15:04:05"))
}

func (d *doc) write(w io.Writer) error {
	if err := d.Output(w); err != nil {
		return fmt.Errorf("pdf.Output: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(displayDate)
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
