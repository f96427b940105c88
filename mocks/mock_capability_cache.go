package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
)

// MockCapabilityCache is a mock implementation of port.CapabilityCache.
type MockCapabilityCache struct {
	mock.Mock
}

func (m *MockCapabilityCache) Get(ctx context.Context, userID uuid.UUID) ([]domain.Capability, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.Capability), args.Bool(1), args.Error(2)
}

func (m *MockCapabilityCache) Set(ctx context.Context, userID uuid.UUID, caps []domain.Capability) error {
	args := m.Called(ctx, userID, caps)
	return args.Error(0)
}

func (m *MockCapabilityCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
