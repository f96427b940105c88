// Package email holds the message bodies shared by the email senders.
package email

import (
	"fmt"
	"html"

	"quotecrm/internal/port"
)

// InvoiceSubject is the subject line of an invoice notification.
func InvoiceSubject(msg port.InvoiceEmail) string {
	return fmt.Sprintf("Invoice %s from %s", msg.InvoiceNo, msg.CompanyName)
}

// InvoiceText is the plain text body of an invoice notification.
func InvoiceText(msg port.InvoiceEmail) string {
	return fmt.Sprintf("Dear %s,\n\nPlease find invoice %s for Rs. %s, due on %s, at the link below:\n%s\n\nRegards,\n%s",
		msg.ToName, msg.InvoiceNo, msg.Amount, msg.DueDate, msg.LinkURL, msg.CompanyName)
}

// InvoiceHTML is the HTML body of an invoice notification.
func InvoiceHTML(msg port.InvoiceEmail) string {
	esc := html.EscapeString
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Invoice %s</h2>
  <p>Dear %s,</p>
  <p>Please find your invoice for <strong>Rs. %s</strong>, due on %s.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download Invoice</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, esc(msg.InvoiceNo), esc(msg.ToName), esc(msg.Amount), esc(msg.DueDate),
		esc(msg.LinkURL), esc(msg.LinkURL), esc(msg.CompanyName))
}
