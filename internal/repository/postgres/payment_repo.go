package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new SQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, invoice_id, amount, reference_no, payment_date, status, remarks,
	confirmed_at, recorded_by, created_at`

func (r *paymentRepo) Create(ctx context.Context, p *domain.PaymentLog) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()

	_, err := execute(ctx, r.db,
		`INSERT INTO payment_logs (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InvoiceID, p.Amount, p.ReferenceNo, p.PaymentDate, p.Status, p.Remarks,
		p.ConfirmedAt, p.RecordedBy, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentLog, error) {
	var p domain.PaymentLog
	err := getOne(ctx, r.db, &p, "SELECT "+paymentColumns+" FROM payment_logs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.PaymentLog, error) {
	var logs []domain.PaymentLog
	err := selectAll(ctx, r.db, &logs,
		"SELECT "+paymentColumns+" FROM payment_logs WHERE invoice_id = ? ORDER BY payment_date, created_at",
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByInvoice: %w", err)
	}
	return logs, nil
}

func (r *paymentRepo) ConfirmedAmounts(ctx context.Context, invoiceID uuid.UUID) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := selectAll(ctx, r.db, &amounts,
		"SELECT amount FROM payment_logs WHERE invoice_id = ? AND status IN (?, ?) ORDER BY created_at",
		invoiceID, domain.PaymentPaid, domain.PaymentPartialPaid)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ConfirmedAmounts: %w", err)
	}
	return amounts, nil
}

// MarkConfirmed settles a Pending log. It returns ErrPaymentConfirmed when
// the log was already confirmed.
func (r *paymentRepo) MarkConfirmed(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, at time.Time) error {
	result, err := execute(ctx, r.db,
		"UPDATE payment_logs SET status = ?, confirmed_at = ? WHERE id = ? AND confirmed_at IS NULL",
		status, at, id)
	if err != nil {
		return fmt.Errorf("paymentRepo.MarkConfirmed: %w", err)
	}
	return checkAffected(result, domain.ErrPaymentConfirmed)
}
