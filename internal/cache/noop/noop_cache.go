package noop

import (
	"context"

	"github.com/google/uuid"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type noopCache struct{}

// NewCapabilityCache creates a CapabilityCache that never holds entries, so
// every lookup falls through to the database.
func NewCapabilityCache() port.CapabilityCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, uuid.UUID) ([]domain.Capability, bool, error) {
	return nil, false, nil
}

func (noopCache) Set(context.Context, uuid.UUID, []domain.Capability) error {
	return nil
}

func (noopCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}
