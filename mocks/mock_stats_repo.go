package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) InvoiceTotals(ctx context.Context, from time.Time, to time.Time) (*port.InvoiceTotals, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.InvoiceTotals), args.Error(1)
}

func (m *MockStatsRepo) EstimationStatusCounts(ctx context.Context, from time.Time, to time.Time) ([]domain.StatusCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockStatsRepo) InvoiceStatusCounts(ctx context.Context, from time.Time, to time.Time) ([]domain.StatusCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockStatsRepo) TopClients(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.ClientTotal, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientTotal), args.Error(1)
}
