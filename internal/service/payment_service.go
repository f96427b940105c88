package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// RecordPaymentInput is the DTO for recording money received.
type RecordPaymentInput struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" binding:"required"`
	ReferenceNo string          `json:"reference_no"`
	PaymentDate string          `json:"payment_date" example:"2025-06-20"`
	Remarks     string          `json:"remarks"`
	// Pending records the log without counting it until it is confirmed.
	Pending bool `json:"pending"`
}

// PaymentResult is a payment log with the invoice state after it was applied.
type PaymentResult struct {
	Payment *domain.PaymentLog `json:"payment"`
	Invoice *domain.Invoice    `json:"invoice"`
}

// PaymentService defines the payment recording contract. There is no
// idempotency key; a repeated submission records a second payment.
type PaymentService interface {
	Record(ctx context.Context, invoiceID, recordedBy uuid.UUID, input RecordPaymentInput) (*PaymentResult, error)
	Confirm(ctx context.Context, paymentID uuid.UUID) (*PaymentResult, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.PaymentLog, error)
}

type paymentService struct {
	tx       port.TxManager
	invoices port.InvoiceRepository
	payments port.PaymentRepository
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(
	tx port.TxManager,
	invoices port.InvoiceRepository,
	payments port.PaymentRepository,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{tx: tx, invoices: invoices, payments: payments, logger: logger}
}

func (s *paymentService) Record(ctx context.Context, invoiceID, recordedBy uuid.UUID, input RecordPaymentInput) (*PaymentResult, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	payDate, err := parseDate("payment_date", input.PaymentDate, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	res := &PaymentResult{}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.invoices.Lock(ctx, invoiceID); err != nil {
			return err
		}
		inv, err := s.invoices.GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.IsApproved {
			return domain.NewValidationError("invoice_id", "invoice is still a draft")
		}

		p := &domain.PaymentLog{
			InvoiceID:   invoiceID,
			Amount:      input.Amount.Round(2),
			ReferenceNo: strings.TrimSpace(input.ReferenceNo),
			PaymentDate: payDate,
			Status:      domain.PaymentPending,
			Remarks:     strings.TrimSpace(input.Remarks),
			RecordedBy:  &recordedBy,
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return err
		}
		res.Payment = p
		res.Invoice = inv
		if input.Pending {
			return nil
		}
		return s.confirm(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", res.Payment.ID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount", res.Payment.Amount.StringFixed(2)),
		zap.Bool("pending", input.Pending))
	return res, nil
}

func (s *paymentService) Confirm(ctx context.Context, paymentID uuid.UUID) (*PaymentResult, error) {
	res := &PaymentResult{}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.ConfirmedAt != nil {
			return domain.ErrPaymentConfirmed
		}
		if err := s.invoices.Lock(ctx, p.InvoiceID); err != nil {
			return err
		}
		inv, err := s.invoices.GetByID(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		res.Payment = p
		res.Invoice = inv
		return s.confirm(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment confirmed",
		zap.String("payment_id", paymentID.String()),
		zap.String("invoice_id", res.Invoice.ID.String()),
		zap.String("status", string(res.Payment.Status)))
	return res, nil
}

// confirm counts res.Payment towards its locked invoice and stamps the log
// with the resulting invoice status.
func (s *paymentService) confirm(ctx context.Context, res *PaymentResult) error {
	amounts, err := s.payments.ConfirmedAmounts(ctx, res.Invoice.ID)
	if err != nil {
		return err
	}
	amounts = append(amounts, res.Payment.Amount)
	r := domain.Reconcile(res.Invoice.Total, amounts)
	if err := s.invoices.UpdateBalance(ctx, res.Invoice.ID, r); err != nil {
		return err
	}

	now := time.Now().UTC()
	status := domain.PaymentStatusFor(r.Status)
	if err := s.payments.MarkConfirmed(ctx, res.Payment.ID, status, now); err != nil {
		return err
	}

	if r.Paid.GreaterThan(res.Invoice.Total) {
		s.logger.Warn("invoice overpaid",
			zap.String("invoice_id", res.Invoice.ID.String()),
			zap.String("total", res.Invoice.Total.StringFixed(2)),
			zap.String("paid", r.Paid.StringFixed(2)))
	}

	res.Payment.Status = status
	res.Payment.ConfirmedAt = &now
	res.Invoice.PaidAmount = r.Paid
	res.Invoice.BalanceDue = r.Balance
	res.Invoice.Status = r.Status
	return nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.PaymentLog, error) {
	if _, err := s.invoices.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.payments.ListByInvoice(ctx, invoiceID)
}
