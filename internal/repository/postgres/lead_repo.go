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

type leadRepo struct {
	db *sqlx.DB
}

// NewLeadRepo creates a new SQL-backed LeadRepository.
func NewLeadRepo(db *sqlx.DB) port.LeadRepository {
	return &leadRepo{db: db}
}

const leadSelect = `SELECT l.id, l.lead_no, l.lead_date, l.client_id, c.company_name AS client_name,
	l.contact_person, l.phone, l.email, l.source, l.requirement, l.remarks,
	l.created_by, l.created_at, l.updated_at
	FROM leads l
	INNER JOIN clients c ON c.id = l.client_id `

var leadSearchColumns = []string{"l.lead_no", "c.company_name", "l.contact_person", "l.requirement"}

func (r *leadRepo) Create(ctx context.Context, lead *domain.Lead) error {
	lead.ID = uuid.New()
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	_, err := execute(ctx, r.db,
		`INSERT INTO leads (id, lead_no, lead_date, client_id, contact_person, phone, email,
			source, requirement, remarks, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.LeadNo, lead.LeadDate, lead.ClientID, lead.ContactPerson, lead.Phone, lead.Email,
		lead.Source, lead.Requirement, lead.Remarks, lead.CreatedBy, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("leadRepo.Create: %w", err)
	}
	return nil
}

func (r *leadRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := getOne(ctx, r.db, &lead, leadSelect+"WHERE l.id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("leadRepo.GetByID: %w", err)
	}
	return &lead, nil
}

func (r *leadRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Lead, int, error) {
	where, args := buildListWhere(filter, "l", "l.lead_date", leadSearchColumns...)

	var total int
	countQuery := "SELECT COUNT(*) FROM leads l INNER JOIN clients c ON c.id = l.client_id " + where
	if err := getOne(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("leadRepo.List count: %w", err)
	}

	var leads []domain.Lead
	query := leadSelect + where + " ORDER BY l.lead_date DESC, l.created_at DESC LIMIT ? OFFSET ?"
	if err := selectAll(ctx, r.db, &leads, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("leadRepo.List: %w", err)
	}
	return leads, total, nil
}

// ListAll returns every lead matching filter, ignoring Offset and Limit.
func (r *leadRepo) ListAll(ctx context.Context, filter domain.ListFilter) ([]domain.Lead, error) {
	where, args := buildListWhere(filter, "l", "l.lead_date", leadSearchColumns...)

	var leads []domain.Lead
	query := leadSelect + where + " ORDER BY l.lead_date DESC, l.created_at DESC"
	if err := selectAll(ctx, r.db, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("leadRepo.ListAll: %w", err)
	}
	return leads, nil
}

func (r *leadRepo) Update(ctx context.Context, lead *domain.Lead) error {
	lead.UpdatedAt = time.Now().UTC()
	result, err := execute(ctx, r.db,
		`UPDATE leads SET lead_date = ?, client_id = ?, contact_person = ?, phone = ?, email = ?,
			source = ?, requirement = ?, remarks = ?, updated_at = ?
		WHERE id = ?`,
		lead.LeadDate, lead.ClientID, lead.ContactPerson, lead.Phone, lead.Email,
		lead.Source, lead.Requirement, lead.Remarks, lead.UpdatedAt, lead.ID)
	if err != nil {
		return fmt.Errorf("leadRepo.Update: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

// Lock touches the lead row so edits to the lead and writes to its
// estimations serialize.
func (r *leadRepo) Lock(ctx context.Context, id uuid.UUID) error {
	result, err := execute(ctx, r.db, "UPDATE leads SET updated_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("leadRepo.Lock: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

// IDsInRange returns the leads dated within [from, to).
func (r *leadRepo) IDsInRange(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := selectAll(ctx, r.db, &ids,
		"SELECT id FROM leads WHERE lead_date >= ? AND lead_date < ?", from, to)
	if err != nil {
		return nil, fmt.Errorf("leadRepo.IDsInRange: %w", err)
	}
	return ids, nil
}
