package port

import "context"

// InvoiceEmail is the content of an invoice notification.
type InvoiceEmail struct {
	ToEmail     string
	ToName      string
	CompanyName string
	InvoiceNo   string
	Amount      string
	DueDate     string
	LinkURL     string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendInvoiceEmail(ctx context.Context, msg InvoiceEmail) error
}
