package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new SQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const invoiceTotalsQuery = `SELECT
	COUNT(*) AS count,
	ROUND(COALESCE(SUM(total), 0), 2) AS invoiced,
	ROUND(COALESCE(SUM(paid_amount), 0), 2) AS paid,
	ROUND(COALESCE(SUM(balance_due), 0), 2) AS balance
FROM invoices
WHERE invoice_date >= ? AND invoice_date < ?`

const estimationStatusQuery = `SELECT status, COUNT(*) AS count
FROM estimations
WHERE quote_date >= ? AND quote_date < ?
GROUP BY status
ORDER BY status`

const invoiceStatusQuery = `SELECT status, COUNT(*) AS count
FROM invoices
WHERE invoice_date >= ? AND invoice_date < ?
GROUP BY status
ORDER BY status`

const topClientsQuery = `SELECT
	c.id AS client_id, c.company_name,
	ROUND(COALESCE(SUM(i.total), 0), 2) AS invoiced,
	ROUND(COALESCE(SUM(i.paid_amount), 0), 2) AS paid
FROM invoices i
INNER JOIN clients c ON c.id = i.client_id
WHERE i.invoice_date >= ? AND i.invoice_date < ?
GROUP BY c.id, c.company_name
ORDER BY invoiced DESC, c.company_name
LIMIT ?`

func (r *statsRepo) InvoiceTotals(ctx context.Context, from, to time.Time) (*port.InvoiceTotals, error) {
	var totals port.InvoiceTotals
	if err := getOne(ctx, r.db, &totals, invoiceTotalsQuery, from, to); err != nil {
		return nil, fmt.Errorf("statsRepo.InvoiceTotals: %w", err)
	}
	return &totals, nil
}

func (r *statsRepo) EstimationStatusCounts(ctx context.Context, from, to time.Time) ([]domain.StatusCount, error) {
	var counts []domain.StatusCount
	if err := selectAll(ctx, r.db, &counts, estimationStatusQuery, from, to); err != nil {
		return nil, fmt.Errorf("statsRepo.EstimationStatusCounts: %w", err)
	}
	return counts, nil
}

func (r *statsRepo) InvoiceStatusCounts(ctx context.Context, from, to time.Time) ([]domain.StatusCount, error) {
	var counts []domain.StatusCount
	if err := selectAll(ctx, r.db, &counts, invoiceStatusQuery, from, to); err != nil {
		return nil, fmt.Errorf("statsRepo.InvoiceStatusCounts: %w", err)
	}
	return counts, nil
}

func (r *statsRepo) TopClients(ctx context.Context, from, to time.Time, limit int) ([]domain.ClientTotal, error) {
	var clients []domain.ClientTotal
	if err := selectAll(ctx, r.db, &clients, topClientsQuery, from, to, limit); err != nil {
		return nil, fmt.Errorf("statsRepo.TopClients: %w", err)
	}
	return clients, nil
}
