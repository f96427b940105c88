package pdf

import (
	"fmt"
	"io"
	"time"

	"quotecrm/internal/domain"
)

// Quotation renders est for client. tax supplies the GST rate used to label
// the CGST/SGST or IGST split.
func (r *Renderer) Quotation(w io.Writer, est *domain.Estimation, client *domain.Client, tax domain.TaxSettings) error {
	d := newDoc("P")
	d.AddPage()
	d.header(r.company, "QUOTATION")

	d.SetFont(fontFamily, "", 10)
	expiry := est.ExpiryDate()
	d.text(95, 6, "Quotation No: "+est.QuoteNo)
	d.text(95, 6, "Date: "+formatDate(&est.QuoteDate))
	d.Ln(6)
	d.text(95, 6, fmt.Sprintf("Valid For: %d days", est.ValidityDays))
	d.text(95, 6, "Valid Until: "+formatDate(&expiry))
	d.Ln(9)

	d.party("To", client, est.GSTNo, est.BillingAddress)
	if est.ShippingAddress != "" {
		d.SetFont(fontFamily, "B", 10)
		d.text(pageWidth, 6, "Ship To")
		d.Ln(6)
		d.SetFont(fontFamily, "", 10)
		d.block(110, 5, est.ShippingAddress)
		d.Ln(2)
	}

	d.SetFont(fontFamily, "B", 10)
	d.SetFillColor(240, 240, 240)
	d.cell(10, 8, "#", "1", "C", true, 0)
	d.cell(80, 8, "Description", "1", "L", true, 0)
	d.cell(20, 8, "Qty", "1", "C", true, 0)
	d.cell(30, 8, "Rate", "1", "R", true, 0)
	d.cell(15, 8, "Tax %", "1", "C", true, 0)
	d.cell(35, 8, "Amount", "1", "R", true, 1)

	d.SetFont(fontFamily, "", 9)
	for i := range est.Items {
		item := &est.Items[i]
		d.cell(10, 7, fmt.Sprintf("%d", i+1), "1", "C", false, 0)
		d.cell(80, 7, item.Description, "1", "L", false, 0)
		d.cell(20, 7, item.Quantity.String(), "1", "C", false, 0)
		d.cell(30, 7, d.amount(item.Rate), "1", "R", false, 0)
		d.cell(15, 7, item.TaxRate.StringFixed(2), "1", "C", false, 0)
		d.cell(35, 7, d.amount(item.Amount), "1", "R", false, 1)
	}
	d.Ln(3)

	split := domain.SplitGST(est.TaxAmount, tax.GSTPercentage, r.company.GSTIN, est.GSTNo)
	d.totalLine("Sub Total", d.amount(est.SubTotal), false)
	if est.Discount.IsPositive() {
		d.totalLine("Discount", "- "+d.amount(est.Discount), false)
	}
	if split.IntraState {
		half := tax.GSTPercentage.Div(decimalTwo).StringFixed(2)
		d.totalLine(fmt.Sprintf("CGST @ %s%%", half), d.amount(split.CGST), false)
		d.totalLine(fmt.Sprintf("SGST @ %s%%", half), d.amount(split.SGST), false)
	} else {
		d.totalLine(fmt.Sprintf("IGST @ %s%%", tax.GSTPercentage.StringFixed(2)), d.amount(split.IGST), false)
	}
	d.totalLine("Grand Total (Rs.)", d.amount(est.Total), true)
	d.Ln(2)

	d.SetFont(fontFamily, "I", 9)
	d.block(pageWidth, 5, domain.AmountInWords(est.Total))
	d.Ln(3)

	if est.Terms != "" {
		d.SetFont(fontFamily, "B", 10)
		d.text(pageWidth, 6, "Terms & Conditions")
		d.Ln(6)
		d.SetFont(fontFamily, "", 9)
		d.block(pageWidth, 5, est.Terms)
		d.Ln(2)
	}
	if est.BankDetails != "" {
		d.SetFont(fontFamily, "B", 10)
		d.text(pageWidth, 6, "Bank Details")
		d.Ln(6)
		d.SetFont(fontFamily, "", 9)
		d.block(pageWidth, 5, est.BankDetails)
	}

	d.footer("This is a system generated quotation. Hence, signature is not needed.", time.Now())
	return d.write(w)
}
