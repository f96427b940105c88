package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
)

// MockNumberingService is a mock implementation of service.NumberingService.
type MockNumberingService struct {
	mock.Mock
}

func (m *MockNumberingService) Next(ctx context.Context, kind domain.NumberKind, at time.Time) (string, error) {
	args := m.Called(ctx, kind, at)
	return args.String(0), args.Error(1)
}
