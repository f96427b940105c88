package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// GenerateInvoiceInput is the DTO for invoicing an approved estimation.
type GenerateInvoiceInput struct {
	// Draft leaves the invoice unapproved and the estimation Approved.
	Draft     bool
	CreatedBy uuid.UUID
}

// InvoiceService defines the invoicing contract.
type InvoiceService interface {
	Generate(ctx context.Context, estimationID uuid.UUID, input GenerateInvoiceInput) (*domain.Invoice, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error)
	// Reconcile re-derives paid amount, balance and status from the
	// confirmed payment logs.
	Reconcile(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	// RecomputeAll reconciles every invoice in batches and returns how many
	// changed.
	RecomputeAll(ctx context.Context, batchSize int) (int, error)
}

type invoiceService struct {
	tx          port.TxManager
	invoices    port.InvoiceRepository
	estimations port.EstimationRepository
	payments    port.PaymentRepository
	numbering   NumberingService
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	tx port.TxManager,
	invoices port.InvoiceRepository,
	estimations port.EstimationRepository,
	payments port.PaymentRepository,
	numbering NumberingService,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceService{
		tx:          tx,
		invoices:    invoices,
		estimations: estimations,
		payments:    payments,
		numbering:   numbering,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *invoiceService) Generate(ctx context.Context, estimationID uuid.UUID, input GenerateInvoiceInput) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		est, err := s.estimations.GetByID(ctx, estimationID)
		if err != nil {
			return err
		}
		if est.Status != domain.EstimationApproved {
			return domain.ErrInvalidTransition
		}
		if _, err := s.invoices.GetByEstimation(ctx, est.ID); err == nil {
			return domain.ErrInvoiceAlreadyExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := s.now()
		invoiceDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		creditDays := 0
		if est.CreditDays != nil {
			creditDays = *est.CreditDays
		}

		no, err := s.numbering.Next(ctx, domain.NumberKindInvoice, invoiceDate)
		if err != nil {
			return err
		}

		inv = &domain.Invoice{
			InvoiceNo:    no,
			EstimationID: est.ID,
			ClientID:     est.ClientID,
			ClientName:   est.ClientName,
			QuoteNo:      est.QuoteNo,
			InvoiceDate:  invoiceDate,
			CreditDays:   creditDays,
			DueDate:      invoiceDate.AddDate(0, 0, creditDays),
			Total:        est.Total,
			BalanceDue:   est.Total,
			Status:       domain.InvoiceUnpaid,
			Remarks:      est.Remarks,
			CreatedBy:    &input.CreatedBy,
		}
		if !input.Draft {
			inv.IsApproved = true
			inv.ApprovedAt = &now
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		if input.Draft {
			return nil
		}
		est.Status = domain.EstimationInvoiced
		return s.estimations.Transition(ctx, est, domain.EstimationApproved)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice generated",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("estimation_id", estimationID.String()),
		zap.Bool("draft", input.Draft),
		zap.String("total", inv.Total.StringFixed(2)))
	return inv, nil
}

func (s *invoiceService) Approve(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv.IsApproved {
			return domain.ErrInvoiceApproved
		}
		est, err := s.estimations.GetByID(ctx, inv.EstimationID)
		if err != nil {
			return err
		}
		if est.Status != domain.EstimationApproved {
			return domain.ErrInvalidTransition
		}

		now := s.now()
		if err := s.invoices.Approve(ctx, id, now); err != nil {
			return err
		}
		inv.IsApproved = true
		inv.ApprovedAt = &now

		est.Status = domain.EstimationInvoiced
		return s.estimations.Transition(ctx, est, domain.EstimationApproved)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("invoice approved", zap.String("invoice_id", inv.ID.String()), zap.String("invoice_no", inv.InvoiceNo))
	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error) {
	if filter.Status != "" && !domain.ValidInvoiceStatuses[filter.Status] {
		return nil, 0, domain.NewValidationError("status", "unknown invoice status")
	}
	return s.invoices.List(ctx, filter)
}

func (s *invoiceService) Reconcile(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = reconcileInvoice(ctx, s.invoices, s.payments, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// reconcileInvoice locks the invoice, recomputes its payment state from the
// confirmed logs and stores it. Callers run it inside a transaction.
func reconcileInvoice(ctx context.Context, invoices port.InvoiceRepository, payments port.PaymentRepository, id uuid.UUID) (*domain.Invoice, error) {
	if err := invoices.Lock(ctx, id); err != nil {
		return nil, err
	}
	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	amounts, err := payments.ConfirmedAmounts(ctx, id)
	if err != nil {
		return nil, err
	}
	r := domain.Reconcile(inv.Total, amounts)
	if err := invoices.UpdateBalance(ctx, id, r); err != nil {
		return nil, err
	}
	inv.PaidAmount = r.Paid
	inv.BalanceDue = r.Balance
	inv.Status = r.Status
	return inv, nil
}

func (s *invoiceService) RecomputeAll(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	changed := 0
	for offset := 0; ; offset += batchSize {
		ids, err := s.invoices.ListIDs(ctx, offset, batchSize)
		if err != nil {
			return changed, err
		}
		for _, id := range ids {
			var before domain.Invoice
			var after *domain.Invoice
			err := s.tx.WithTx(ctx, func(ctx context.Context) error {
				current, err := s.invoices.GetByID(ctx, id)
				if err != nil {
					return err
				}
				before = *current
				after, err = reconcileInvoice(ctx, s.invoices, s.payments, id)
				return err
			})
			if err != nil {
				return changed, err
			}
			if before.Status != after.Status || !before.BalanceDue.Equal(after.BalanceDue) || !before.PaidAmount.Equal(after.PaidAmount) {
				changed++
				s.logger.Info("invoice totals corrected",
					zap.String("invoice_no", after.InvoiceNo),
					zap.String("old_status", string(before.Status)),
					zap.String("new_status", string(after.Status)),
					zap.String("old_balance", before.BalanceDue.StringFixed(2)),
					zap.String("new_balance", after.BalanceDue.StringFixed(2)))
			}
		}
		if len(ids) < batchSize {
			return changed, nil
		}
	}
}
