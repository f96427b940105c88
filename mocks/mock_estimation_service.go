package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// MockEstimationService is a mock implementation of service.EstimationService.
type MockEstimationService struct {
	mock.Mock
}

func (m *MockEstimationService) Create(ctx context.Context, createdBy uuid.UUID, input service.EstimationInput) (*service.EstimationResult, error) {
	args := m.Called(ctx, createdBy, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EstimationResult), args.Error(1)
}

func (m *MockEstimationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimation), args.Error(1)
}

func (m *MockEstimationService) List(ctx context.Context, filter domain.EstimationFilter) ([]domain.Estimation, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Estimation), args.Int(1), args.Error(2)
}

func (m *MockEstimationService) Update(ctx context.Context, id uuid.UUID, input service.EstimationInput) (*service.EstimationResult, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EstimationResult), args.Error(1)
}

func (m *MockEstimationService) Approve(ctx context.Context, id uuid.UUID, input service.ApproveInput) (*domain.Estimation, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimation), args.Error(1)
}

func (m *MockEstimationService) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.Estimation, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimation), args.Error(1)
}

func (m *MockEstimationService) MarkLost(ctx context.Context, id uuid.UUID, reason string) (*domain.Estimation, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimation), args.Error(1)
}

func (m *MockEstimationService) FollowUp(ctx context.Context, id uuid.UUID, input service.FollowUpInput) (*domain.Estimation, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimation), args.Error(1)
}
