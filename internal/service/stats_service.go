package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// TopClientLimit is the number of clients ranked on the dashboard.
const TopClientLimit = 5

// DashboardInput selects the dashboard period. From and To are only read for
// the custom preset.
type DashboardInput struct {
	Period string
	From   string
	To     string
}

// StatsService provides the dashboard aggregates.
type StatsService interface {
	Dashboard(ctx context.Context, input DashboardInput) (*domain.DashboardStats, error)
}

type statsService struct {
	statsRepo   port.StatsRepository
	leads       port.LeadRepository
	estimations port.EstimationRepository
	now         func() time.Time
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository, leads port.LeadRepository, estimations port.EstimationRepository) StatsService {
	return &statsService{
		statsRepo:   statsRepo,
		leads:       leads,
		estimations: estimations,
		now:         time.Now,
	}
}

func (s *statsService) Dashboard(ctx context.Context, input DashboardInput) (*domain.DashboardStats, error) {
	from, err := parseOptionalDate("from", input.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to", input.To)
	if err != nil {
		return nil, err
	}
	start, end, err := domain.PeriodRange(input.Period, s.now(), from, to)
	if err != nil {
		return nil, err
	}

	totals, err := s.statsRepo.InvoiceTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	estStatus, err := s.statsRepo.EstimationStatusCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}
	invStatus, err := s.statsRepo.InvoiceStatusCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}
	top, err := s.statsRepo.TopClients(ctx, start, end, TopClientLimit)
	if err != nil {
		return nil, err
	}

	leadIDs, err := s.leads.IDsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	won := 0
	if len(leadIDs) > 0 {
		history, err := s.estimations.StatusHistory(ctx, leadIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range leadIDs {
			if domain.ProjectLeadStatus(history[id]) == domain.LeadWon {
				won++
			}
		}
	}

	estCount := 0
	for _, c := range estStatus {
		estCount += c.Count
	}

	return &domain.DashboardStats{
		From:             start,
		To:               end.AddDate(0, 0, -1),
		TotalInvoiced:    totals.Invoiced,
		TotalPaid:        totals.Paid,
		TotalBalance:     totals.Balance,
		LeadCount:        len(leadIDs),
		WonLeadCount:     won,
		EstimationCount:  estCount,
		InvoiceCount:     totals.Count,
		ConversionRate:   conversionRate(won, len(leadIDs)),
		EstimationStatus: estStatus,
		InvoiceStatus:    invStatus,
		TopClients:       top,
	}, nil
}

// conversionRate is won/total as a percentage rounded to two places.
func conversionRate(won, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(won)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
