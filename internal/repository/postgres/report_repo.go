package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new SQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

// buildReportWhere constructs the WHERE clause for the lead report. The To
// bound is inclusive of the whole day.
func buildReportWhere(filters *domain.ReportFilters) (clause string, args []interface{}) {
	clause = "WHERE 1 = 1"

	if filters.From != nil {
		clause += " AND l.lead_date >= ?"
		args = append(args, domain.DateOnly(*filters.From))
	}
	if filters.To != nil {
		clause += " AND l.lead_date < ?"
		args = append(args, domain.DateOnly(*filters.To).AddDate(0, 0, 1))
	}
	if filters.ClientID != nil {
		clause += " AND l.client_id = ?"
		args = append(args, *filters.ClientID)
	}
	return clause, args
}

// Each lead is joined to its most recent estimation and, independently, to the
// most recent invoice raised from any of its estimations.
const leadReportSelect = `SELECT
	l.id AS lead_id, l.lead_no, l.lead_date, c.company_name AS client_name, l.requirement,
	e.quote_no, e.status AS estimation_status, e.lost_reason, e.total AS estimation_total,
	e.po_number, e.po_date,
	i.invoice_no, i.total AS invoice_total, i.paid_amount, i.balance_due, i.status AS invoice_status
FROM leads l
INNER JOIN clients c ON c.id = l.client_id
LEFT JOIN estimations e ON e.id = (
	SELECT e2.id FROM estimations e2
	WHERE e2.lead_id = l.id
	ORDER BY e2.quote_date DESC, e2.created_at DESC
	LIMIT 1
)
LEFT JOIN invoices i ON i.id = (
	SELECT i2.id FROM invoices i2
	INNER JOIN estimations e3 ON e3.id = i2.estimation_id
	WHERE e3.lead_id = l.id
	ORDER BY i2.invoice_date DESC, i2.created_at DESC
	LIMIT 1
)
`

// LeadReport returns one row per lead matching filters with the total match
// count. A zero Limit returns every match.
func (r *reportRepo) LeadReport(ctx context.Context, filters domain.ReportFilters) ([]domain.ReportRow, int, error) {
	whereClause, args := buildReportWhere(&filters)

	var total int
	countQuery := "SELECT COUNT(*) FROM leads l " + whereClause
	if err := getOne(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.LeadReport count: %w", err)
	}

	query := leadReportSelect + whereClause + " ORDER BY l.lead_date DESC, l.lead_no DESC"
	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	var rows []domain.ReportRow
	if err := selectAll(ctx, r.db, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.LeadReport: %w", err)
	}
	return rows, total, nil
}
