package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
)

// MockReportRepo is a mock implementation of port.ReportRepository.
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) LeadReport(ctx context.Context, filters domain.ReportFilters) ([]domain.ReportRow, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReportRow), args.Int(1), args.Error(2)
}
