package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
)

// MockSettingsRepo is a mock implementation of port.SettingsRepository.
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) NextNumber(ctx context.Context, kind domain.NumberKind) (domain.NumberingSettings, int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(domain.NumberingSettings), args.Get(1).(int64), args.Error(2)
}

func (m *MockSettingsRepo) ListNumbering(ctx context.Context) ([]domain.NumberingSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NumberingSettings), args.Error(1)
}

func (m *MockSettingsRepo) SaveNumbering(ctx context.Context, s *domain.NumberingSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettingsRepo) GetTax(ctx context.Context) (*domain.TaxSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxSettings), args.Error(1)
}

func (m *MockSettingsRepo) SaveTax(ctx context.Context, s *domain.TaxSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
