package postgres

import (
	"strings"

	"quotecrm/internal/domain"
)

// buildListWhere constructs the WHERE clause shared by list queries. dateCol
// is compared against the filter's From/To (To inclusive by day); search
// matches any of searchCols case-insensitively.
func buildListWhere(f domain.ListFilter, alias, dateCol string, searchCols ...string) (clause string, args []interface{}) {
	clause = "WHERE 1 = 1"

	if f.ClientID != nil && alias != "" {
		clause += " AND " + alias + ".client_id = ?"
		args = append(args, *f.ClientID)
	}
	if dateCol != "" {
		if f.From != nil {
			clause += " AND " + dateCol + " >= ?"
			args = append(args, domain.DateOnly(*f.From))
		}
		if f.To != nil {
			clause += " AND " + dateCol + " < ?"
			args = append(args, domain.DateOnly(*f.To).AddDate(0, 0, 1))
		}
	}
	if q := strings.TrimSpace(f.Query); q != "" && len(searchCols) > 0 {
		parts := make([]string, len(searchCols))
		for i, col := range searchCols {
			parts[i] = "LOWER(" + col + ") LIKE ?"
			args = append(args, likePattern(q))
		}
		clause += " AND (" + strings.Join(parts, " OR ") + ")"
	}
	return clause, args
}
