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

type estimationRepo struct {
	db *sqlx.DB
}

// NewEstimationRepo creates a new SQL-backed EstimationRepository.
func NewEstimationRepo(db *sqlx.DB) port.EstimationRepository {
	return &estimationRepo{db: db}
}

const estimationSelect = `SELECT e.id, e.quote_no, e.quote_date, e.client_id, c.company_name AS client_name,
	e.lead_id, e.validity_days, e.gst_no, e.billing_address, e.shipping_address,
	e.sub_total, e.discount, e.tax_amount, e.total, e.status, e.credit_days,
	e.po_number, e.po_date, e.po_received_date, e.po_attachment_key, e.approved_at, e.approved_by,
	e.rejection_reason, e.lost_reason, e.follow_up_date, e.follow_up_remarks,
	e.terms, e.bank_details, e.remarks, e.pdf_key, e.created_by, e.created_at, e.updated_at
	FROM estimations e
	INNER JOIN clients c ON c.id = e.client_id `

// Create inserts est and its items. Callers run it inside a transaction.
func (r *estimationRepo) Create(ctx context.Context, est *domain.Estimation) error {
	est.ID = uuid.New()
	now := time.Now().UTC()
	est.CreatedAt = now
	est.UpdatedAt = now

	_, err := execute(ctx, r.db,
		`INSERT INTO estimations (id, quote_no, quote_date, client_id, lead_id, validity_days, gst_no,
			billing_address, shipping_address, sub_total, discount, tax_amount, total, status,
			terms, bank_details, remarks, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		est.ID, est.QuoteNo, est.QuoteDate, est.ClientID, est.LeadID, est.ValidityDays, est.GSTNo,
		est.BillingAddress, est.ShippingAddress, est.SubTotal, est.Discount, est.TaxAmount, est.Total, est.Status,
		est.Terms, est.BankDetails, est.Remarks, est.CreatedBy, est.CreatedAt, est.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("estimationRepo.Create: %w", err)
	}
	if err := r.insertItems(ctx, est); err != nil {
		return fmt.Errorf("estimationRepo.Create items: %w", err)
	}
	return nil
}

func (r *estimationRepo) insertItems(ctx context.Context, est *domain.Estimation) error {
	for i := range est.Items {
		item := &est.Items[i]
		item.ID = uuid.New()
		item.EstimationID = est.ID
		item.Position = i + 1
		_, err := execute(ctx, r.db,
			`INSERT INTO estimation_items (id, estimation_id, position, description, quantity, rate, tax_rate, amount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.EstimationID, item.Position, item.Description,
			item.Quantity, item.Rate, item.TaxRate, item.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *estimationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimation, error) {
	var est domain.Estimation
	err := getOne(ctx, r.db, &est, estimationSelect+"WHERE e.id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("estimationRepo.GetByID: %w", err)
	}

	err = selectAll(ctx, r.db, &est.Items,
		`SELECT id, estimation_id, position, description, quantity, rate, tax_rate, amount
		FROM estimation_items WHERE estimation_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("estimationRepo.GetByID items: %w", err)
	}
	return &est, nil
}

func (r *estimationRepo) List(ctx context.Context, filter domain.EstimationFilter) ([]domain.Estimation, int, error) {
	where, args := buildListWhere(filter.ListFilter, "e", "e.quote_date", "e.quote_no", "c.company_name", "e.po_number")
	if filter.Status != "" {
		where += " AND e.status = ?"
		args = append(args, filter.Status)
	}
	if filter.LeadID != nil {
		where += " AND e.lead_id = ?"
		args = append(args, *filter.LeadID)
	}
	if filter.FollowUpDue != nil {
		where += " AND e.follow_up_date IS NOT NULL AND e.follow_up_date < ? AND e.status IN (?, ?)"
		args = append(args, domain.DateOnly(*filter.FollowUpDue).AddDate(0, 0, 1),
			domain.EstimationPending, domain.EstimationApproved)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM estimations e INNER JOIN clients c ON c.id = e.client_id " + where
	if err := getOne(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("estimationRepo.List count: %w", err)
	}

	var ests []domain.Estimation
	query := estimationSelect + where + " ORDER BY e.quote_date DESC, e.created_at DESC LIMIT ? OFFSET ?"
	if err := selectAll(ctx, r.db, &ests, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("estimationRepo.List: %w", err)
	}
	return ests, total, nil
}

// Update rewrites the editable header fields and replaces the items of a
// Pending estimation. Callers run it inside a transaction.
func (r *estimationRepo) Update(ctx context.Context, est *domain.Estimation) error {
	est.UpdatedAt = time.Now().UTC()
	result, err := execute(ctx, r.db,
		`UPDATE estimations SET quote_date = ?, client_id = ?, lead_id = ?, validity_days = ?, gst_no = ?,
			billing_address = ?, shipping_address = ?, sub_total = ?, discount = ?, tax_amount = ?, total = ?,
			terms = ?, bank_details = ?, remarks = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		est.QuoteDate, est.ClientID, est.LeadID, est.ValidityDays, est.GSTNo,
		est.BillingAddress, est.ShippingAddress, est.SubTotal, est.Discount, est.TaxAmount, est.Total,
		est.Terms, est.BankDetails, est.Remarks, est.UpdatedAt,
		est.ID, domain.EstimationPending)
	if err != nil {
		return fmt.Errorf("estimationRepo.Update: %w", err)
	}
	if err := checkAffected(result, domain.ErrInvalidTransition); err != nil {
		return err
	}

	if _, err := execute(ctx, r.db, "DELETE FROM estimation_items WHERE estimation_id = ?", est.ID); err != nil {
		return fmt.Errorf("estimationRepo.Update delete items: %w", err)
	}
	if err := r.insertItems(ctx, est); err != nil {
		return fmt.Errorf("estimationRepo.Update items: %w", err)
	}
	return nil
}

func (r *estimationRepo) Transition(ctx context.Context, est *domain.Estimation, from domain.EstimationStatus) error {
	est.UpdatedAt = time.Now().UTC()
	result, err := execute(ctx, r.db,
		`UPDATE estimations SET status = ?, credit_days = ?, po_number = ?, po_date = ?, po_received_date = ?,
			po_attachment_key = ?, approved_at = ?, approved_by = ?, rejection_reason = ?, lost_reason = ?,
			updated_at = ?
		WHERE id = ? AND status = ?`,
		est.Status, est.CreditDays, est.PONumber, est.PODate, est.POReceivedDate,
		est.POAttachmentKey, est.ApprovedAt, est.ApprovedBy, est.RejectionReason, est.LostReason,
		est.UpdatedAt, est.ID, from)
	if err != nil {
		return fmt.Errorf("estimationRepo.Transition: %w", err)
	}
	return checkAffected(result, domain.ErrInvalidTransition)
}

func (r *estimationRepo) SetFollowUp(ctx context.Context, id uuid.UUID, date *time.Time, remarks string) error {
	result, err := execute(ctx, r.db,
		"UPDATE estimations SET follow_up_date = ?, follow_up_remarks = ?, updated_at = ? WHERE id = ?",
		date, remarks, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("estimationRepo.SetFollowUp: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

func (r *estimationRepo) SetPDFKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := execute(ctx, r.db,
		"UPDATE estimations SET pdf_key = ?, updated_at = ? WHERE id = ?", key, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("estimationRepo.SetPDFKey: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

type leadStatusRow struct {
	LeadID uuid.UUID               `db:"lead_id"`
	Status domain.EstimationStatus `db:"status"`
}

func (r *estimationRepo) StatusHistory(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]domain.EstimationStatus, error) {
	history := make(map[uuid.UUID][]domain.EstimationStatus, len(leadIDs))
	if len(leadIDs) == 0 {
		return history, nil
	}

	const chunk = 500
	for start := 0; start < len(leadIDs); start += chunk {
		end := start + chunk
		if end > len(leadIDs) {
			end = len(leadIDs)
		}
		var rows []leadStatusRow
		err := selectIn(ctx, r.db, &rows,
			`SELECT lead_id, status FROM estimations
			WHERE lead_id IN (?)
			ORDER BY quote_date DESC, created_at DESC`, leadIDs[start:end])
		if err != nil {
			return nil, fmt.Errorf("estimationRepo.StatusHistory: %w", err)
		}
		for _, row := range rows {
			history[row.LeadID] = append(history[row.LeadID], row.Status)
		}
	}
	return history, nil
}
