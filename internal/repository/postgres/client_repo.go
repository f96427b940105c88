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

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new SQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

const clientColumns = `id, company_name, company_type, gstin, contact_person, email, phone,
	address, city, state, pincode, created_by, created_at, updated_at`

func (r *clientRepo) Create(ctx context.Context, c *domain.Client) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO clients (` + clientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := execute(ctx, r.db, query,
		c.ID, c.CompanyName, c.CompanyType, c.GSTIN, c.ContactPerson, c.Email, c.Phone,
		c.Address, c.City, c.State, c.Pincode, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var c domain.Client
	err := getOne(ctx, r.db, &c, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *clientRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Client, int, error) {
	filter.ClientID = nil
	where, args := buildListWhere(filter, "", "", "company_name", "contact_person", "gstin", "city")

	var total int
	if err := getOne(ctx, r.db, &total, "SELECT COUNT(*) FROM clients "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("clientRepo.List count: %w", err)
	}

	var clients []domain.Client
	query := "SELECT " + clientColumns + " FROM clients " + where + " ORDER BY company_name LIMIT ? OFFSET ?"
	if err := selectAll(ctx, r.db, &clients, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("clientRepo.List: %w", err)
	}
	return clients, total, nil
}

func (r *clientRepo) Update(ctx context.Context, c *domain.Client) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := execute(ctx, r.db,
		`UPDATE clients SET company_name = ?, company_type = ?, gstin = ?, contact_person = ?,
			email = ?, phone = ?, address = ?, city = ?, state = ?, pincode = ?, updated_at = ?
		WHERE id = ?`,
		c.CompanyName, c.CompanyType, c.GSTIN, c.ContactPerson, c.Email, c.Phone,
		c.Address, c.City, c.State, c.Pincode, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := execute(ctx, r.db, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

// CountReferences counts the leads, estimations and invoices pointing at a client.
func (r *clientRepo) CountReferences(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := getOne(ctx, r.db, &n,
		`SELECT (SELECT COUNT(*) FROM leads WHERE client_id = ?)
			+ (SELECT COUNT(*) FROM estimations WHERE client_id = ?)
			+ (SELECT COUNT(*) FROM invoices WHERE client_id = ?)`,
		id, id, id)
	if err != nil {
		return 0, fmt.Errorf("clientRepo.CountReferences: %w", err)
	}
	return n, nil
}
