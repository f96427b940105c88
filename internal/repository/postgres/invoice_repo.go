package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new SQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceSelect = `SELECT i.id, i.invoice_no, i.estimation_id, i.client_id, c.company_name AS client_name,
	e.quote_no, i.invoice_date, i.credit_days, i.due_date, i.total, i.paid_amount, i.balance_due,
	i.status, i.is_approved, i.approved_at, i.remarks, i.pdf_key, i.created_by, i.created_at, i.updated_at
	FROM invoices i
	INNER JOIN clients c ON c.id = i.client_id
	INNER JOIN estimations e ON e.id = i.estimation_id `

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := execute(ctx, r.db,
		`INSERT INTO invoices (id, invoice_no, estimation_id, client_id, invoice_date, credit_days, due_date,
			total, paid_amount, balance_due, status, is_approved, approved_at, remarks, created_by,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.InvoiceNo, inv.EstimationID, inv.ClientID, inv.InvoiceDate, inv.CreditDays, inv.DueDate,
		inv.Total, inv.PaidAmount, inv.BalanceDue, inv.Status, inv.IsApproved, inv.ApprovedAt, inv.Remarks,
		inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedIndex(err, "idx_invoices_estimation", "invoices.estimation_id") {
				return domain.ErrInvoiceAlreadyExists
			}
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := getOne(ctx, r.db, &inv, invoiceSelect+"WHERE i.id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) GetByEstimation(ctx context.Context, estimationID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := getOne(ctx, r.db, &inv, invoiceSelect+"WHERE i.estimation_id = ?", estimationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByEstimation: %w", err)
	}
	return &inv, nil
}

// Lock touches the invoice row, which holds its write lock until the
// surrounding transaction ends on both PostgreSQL and SQLite.
func (r *invoiceRepo) Lock(ctx context.Context, id uuid.UUID) error {
	result, err := execute(ctx, r.db, "UPDATE invoices SET updated_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Lock: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

func (r *invoiceRepo) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error) {
	where, args := buildListWhere(filter.ListFilter, "i", "i.invoice_date", "i.invoice_no", "c.company_name", "e.quote_no")
	if filter.Status != "" {
		where += " AND i.status = ?"
		args = append(args, filter.Status)
	}
	if filter.OverdueAt != nil {
		where += " AND i.balance_due > 0 AND i.due_date < ?"
		args = append(args, domain.DateOnly(*filter.OverdueAt))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM invoices i
		INNER JOIN clients c ON c.id = i.client_id
		INNER JOIN estimations e ON e.id = i.estimation_id ` + where
	if err := getOne(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	var invoices []domain.Invoice
	query := invoiceSelect + where + " ORDER BY i.invoice_date DESC, i.created_at DESC LIMIT ? OFFSET ?"
	if err := selectAll(ctx, r.db, &invoices, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListIDs(ctx context.Context, offset, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := selectAll(ctx, r.db, &ids,
		"SELECT id FROM invoices ORDER BY created_at, id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListIDs: %w", err)
	}
	return ids, nil
}

func (r *invoiceRepo) UpdateBalance(ctx context.Context, id uuid.UUID, rec domain.Reconciliation) error {
	result, err := execute(ctx, r.db,
		"UPDATE invoices SET paid_amount = ?, balance_due = ?, status = ?, updated_at = ? WHERE id = ?",
		rec.Paid, rec.Balance, rec.Status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateBalance: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

// Approve marks a draft invoice approved. It returns ErrInvoiceApproved when
// the invoice is not a draft.
func (r *invoiceRepo) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := execute(ctx, r.db,
		"UPDATE invoices SET is_approved = ?, approved_at = ?, updated_at = ? WHERE id = ? AND is_approved = ?",
		true, at, at, id, false)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Approve: %w", err)
	}
	return checkAffected(result, domain.ErrInvoiceApproved)
}

// DeleteDraft removes an unapproved invoice. It returns ErrInvoiceApproved
// when the invoice is approved.
func (r *invoiceRepo) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	result, err := execute(ctx, r.db, "DELETE FROM invoices WHERE id = ? AND is_approved = ?", id, false)
	if err != nil {
		return fmt.Errorf("invoiceRepo.DeleteDraft: %w", err)
	}
	return checkAffected(result, domain.ErrInvoiceApproved)
}

func (r *invoiceRepo) SetPDFKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := execute(ctx, r.db,
		"UPDATE invoices SET pdf_key = ?, updated_at = ? WHERE id = ?", key, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.SetPDFKey: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}
