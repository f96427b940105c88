package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
)

// MockCapabilityService is a mock implementation of service.CapabilityService.
type MockCapabilityService struct {
	mock.Mock
}

func (m *MockCapabilityService) Effective(ctx context.Context, userID uuid.UUID, role domain.UserRole) (domain.CapabilitySet, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.CapabilitySet), args.Error(1)
}

func (m *MockCapabilityService) Grants(ctx context.Context, userID uuid.UUID) ([]domain.Capability, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Capability), args.Error(1)
}

func (m *MockCapabilityService) SetGrants(ctx context.Context, userID uuid.UUID, names []string, grantedBy uuid.UUID) ([]domain.Capability, error) {
	args := m.Called(ctx, userID, names, grantedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Capability), args.Error(1)
}

func (m *MockCapabilityService) Forget(ctx context.Context, userID uuid.UUID) {
	m.Called(ctx, userID)
}
