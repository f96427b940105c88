package port

import (
	"context"

	"github.com/google/uuid"

	"quotecrm/internal/domain"
)

// CapabilityCache stores resolved user capabilities between requests.
type CapabilityCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]domain.Capability, bool, error)
	Set(ctx context.Context, userID uuid.UUID, caps []domain.Capability) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
