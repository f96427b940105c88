package pdf

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"quotecrm/internal/domain"
)

var decimalTwo = decimal.NewFromInt(2)

// UPILink builds the upi://pay URI encoded into the invoice QR code.
func UPILink(upiID, payee string, amount decimal.Decimal, invoiceNo string) string {
	q := url.Values{}
	q.Set("pa", upiID)
	q.Set("pn", payee)
	q.Set("am", amount.StringFixed(2))
	q.Set("cu", "INR")
	q.Set("tn", "Invoice "+invoiceNo)
	return "upi://pay?" + q.Encode()
}

// Invoice renders inv with the estimation it bills. A UPI QR code for the
// outstanding balance is printed when the company has a UPI id.
func (r *Renderer) Invoice(w io.Writer, inv *domain.Invoice, est *domain.Estimation, client *domain.Client) error {
	d := newDoc("P")
	d.AddPage()
	d.header(r.company, "TAX INVOICE")

	d.SetFont(fontFamily, "B", 10)
	d.text(95, 6, "Invoice No: "+inv.InvoiceNo)
	d.SetFont(fontFamily, "", 10)
	d.text(95, 6, "Invoice Date: "+formatDate(&inv.InvoiceDate))
	d.Ln(6)
	d.text(95, 6, "Quotation No: "+est.QuoteNo)
	d.text(95, 6, "Due Date: "+formatDate(&inv.DueDate))
	d.Ln(6)
	if est.PONumber != "" {
		d.text(95, 6, "PO No: "+est.PONumber)
		d.text(95, 6, "PO Date: "+formatDate(est.PODate))
		d.Ln(6)
	}
	d.text(95, 6, fmt.Sprintf("Credit Days: %d", inv.CreditDays))
	d.Ln(9)

	d.party("Bill To", client, est.GSTNo, est.BillingAddress)

	d.SetFont(fontFamily, "B", 10)
	d.SetFillColor(240, 240, 240)
	d.cell(10, 8, "#", "1", "C", true, 0)
	d.cell(100, 8, "Description", "1", "L", true, 0)
	d.cell(20, 8, "Qty", "1", "C", true, 0)
	d.cell(25, 8, "Rate", "1", "R", true, 0)
	d.cell(35, 8, "Amount", "1", "R", true, 1)
	d.SetFont(fontFamily, "", 9)
	for i := range est.Items {
		item := &est.Items[i]
		d.cell(10, 7, fmt.Sprintf("%d", i+1), "1", "C", false, 0)
		d.cell(100, 7, item.Description, "1", "L", false, 0)
		d.cell(20, 7, item.Quantity.String(), "1", "C", false, 0)
		d.cell(25, 7, d.amount(item.Rate), "1", "R", false, 0)
		d.cell(35, 7, d.amount(item.Amount), "1", "R", false, 1)
	}
	d.Ln(3)

	split := domain.SplitGST(est.TaxAmount, decimal.Zero, r.company.GSTIN, est.GSTNo)
	d.totalLine("Sub Total", d.amount(est.SubTotal), false)
	if est.Discount.IsPositive() {
		d.totalLine("Discount", "- "+d.amount(est.Discount), false)
	}
	if split.IntraState {
		d.totalLine("CGST", d.amount(split.CGST), false)
		d.totalLine("SGST", d.amount(split.SGST), false)
	} else {
		d.totalLine("IGST", d.amount(split.IGST), false)
	}
	d.totalLine("Invoice Total (Rs.)", d.amount(inv.Total), true)
	d.totalLine("Amount Paid", d.amount(inv.PaidAmount), false)
	d.totalLine("Balance Due", d.amount(inv.BalanceDue), true)
	d.Ln(2)

	d.SetFont(fontFamily, "I", 9)
	d.block(pageWidth, 5, domain.AmountInWords(inv.Total))
	d.SetFont(fontFamily, "B", 10)
	d.text(pageWidth, 6, "Status: "+string(inv.Status))
	d.Ln(8)

	if r.company.BankDetails != "" {
		d.SetFont(fontFamily, "B", 10)
		d.text(pageWidth, 6, "Bank Details")
		d.Ln(6)
		d.SetFont(fontFamily, "", 9)
		d.block(120, 5, r.company.BankDetails)
	}

	if r.company.UPIID != "" && inv.BalanceDue.IsPositive() {
		link := UPILink(r.company.UPIID, r.company.Name, inv.BalanceDue, inv.InvoiceNo)
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("qrcode.Encode: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		d.RegisterImageOptionsReader("upi-qr", opts, bytes.NewReader(png))
		y := d.GetY()
		d.ImageOptions("upi-qr", 160, y, 35, 35, false, opts, 0, "")
		d.SetXY(160, y+35)
		d.SetFont(fontFamily, "", 8)
		d.cell(35, 4, "Scan to pay via UPI", "", "C", false, 1)
	}

	d.footer("This is a computer-generated invoice. No signature required.", time.Now())
	return d.write(w)
}
