package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quotecrm/internal/email"
	"quotecrm/internal/port"
)

func testMessage() port.InvoiceEmail {
	return port.InvoiceEmail{
		ToEmail:     "accounts@acme.test",
		ToName:      "Acme <Traders>",
		CompanyName: "Sunrise Works",
		InvoiceNo:   "INV-0001",
		Amount:      "1,180.00",
		DueDate:     "20-Jul-2025",
		LinkURL:     "https://crm.test/media/invoices/INV-0001.pdf",
	}
}

func TestInvoiceSubject(t *testing.T) {
	assert.Equal(t, "Invoice INV-0001 from Sunrise Works", email.InvoiceSubject(testMessage()))
}

func TestInvoiceText(t *testing.T) {
	body := email.InvoiceText(testMessage())
	assert.Contains(t, body, "Dear Acme <Traders>,")
	assert.Contains(t, body, "Rs. 1,180.00, due on 20-Jul-2025")
	assert.Contains(t, body, "https://crm.test/media/invoices/INV-0001.pdf")
}

func TestInvoiceHTML_EscapesFields(t *testing.T) {
	body := email.InvoiceHTML(testMessage())
	assert.Contains(t, body, "Dear Acme &lt;Traders&gt;,")
	assert.NotContains(t, body, "<Traders>")
	assert.Contains(t, body, `href="https://crm.test/media/invoices/INV-0001.pdf"`)
}
