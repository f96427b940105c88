package noop

import (
	"context"

	"go.uber.org/zap"

	"quotecrm/internal/port"
)

type noopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that logs the invoice link
// instead of sending it.
func NewNoopSender(logger *zap.Logger) port.EmailSender {
	return &noopSender{logger: logger}
}

func (s *noopSender) SendInvoiceEmail(_ context.Context, msg port.InvoiceEmail) error {
	s.logger.Info("noop email: invoice notification",
		zap.String("to", msg.ToEmail),
		zap.String("invoice_no", msg.InvoiceNo),
		zap.String("link", msg.LinkURL))
	return nil
}
