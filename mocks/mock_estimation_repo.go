package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
)

// MockEstimationRepo is a mock implementation of port.EstimationRepository.
type MockEstimationRepo struct {
	mock.Mock
}

func (m *MockEstimationRepo) Create(ctx context.Context, est *domain.Estimation) error {
	args := m.Called(ctx, est)
	return args.Error(0)
}

func (m *MockEstimationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimation), args.Error(1)
}

func (m *MockEstimationRepo) List(ctx context.Context, filter domain.EstimationFilter) ([]domain.Estimation, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Estimation), args.Int(1), args.Error(2)
}

func (m *MockEstimationRepo) Update(ctx context.Context, est *domain.Estimation) error {
	args := m.Called(ctx, est)
	return args.Error(0)
}

func (m *MockEstimationRepo) Transition(ctx context.Context, est *domain.Estimation, from domain.EstimationStatus) error {
	args := m.Called(ctx, est, from)
	return args.Error(0)
}

func (m *MockEstimationRepo) SetFollowUp(ctx context.Context, id uuid.UUID, date *time.Time, remarks string) error {
	args := m.Called(ctx, id, date, remarks)
	return args.Error(0)
}

func (m *MockEstimationRepo) SetPDFKey(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockEstimationRepo) StatusHistory(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]domain.EstimationStatus, error) {
	args := m.Called(ctx, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]domain.EstimationStatus), args.Error(1)
}
