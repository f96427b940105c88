package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) LeadReport(ctx context.Context, query service.ReportQuery) ([]domain.ReportRow, int, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReportRow), args.Int(1), args.Error(2)
}

func (m *MockReportService) WriteCSV(ctx context.Context, w io.Writer, query service.ReportQuery) error {
	args := m.Called(ctx, w, query)
	return args.Error(0)
}

func (m *MockReportService) WriteExcel(ctx context.Context, w io.Writer, query service.ReportQuery) error {
	args := m.Called(ctx, w, query)
	return args.Error(0)
}

func (m *MockReportService) WritePDF(ctx context.Context, w io.Writer, query service.ReportQuery) error {
	args := m.Called(ctx, w, query)
	return args.Error(0)
}
