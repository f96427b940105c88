package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// CapabilityService resolves what a user may do: the capabilities of their
// role plus any per-user grants.
type CapabilityService interface {
	Effective(ctx context.Context, userID uuid.UUID, role domain.UserRole) (domain.CapabilitySet, error)
	Grants(ctx context.Context, userID uuid.UUID) ([]domain.Capability, error)
	SetGrants(ctx context.Context, userID uuid.UUID, names []string, grantedBy uuid.UUID) ([]domain.Capability, error)
	Forget(ctx context.Context, userID uuid.UUID)
}

type capabilityService struct {
	users  port.UserRepository
	tx     port.TxManager
	cache  port.CapabilityCache
	logger *zap.Logger
}

// NewCapabilityService creates a new CapabilityService implementation.
func NewCapabilityService(users port.UserRepository, tx port.TxManager, cache port.CapabilityCache, logger *zap.Logger) CapabilityService {
	return &capabilityService{users: users, tx: tx, cache: cache, logger: logger}
}

func (s *capabilityService) Effective(ctx context.Context, userID uuid.UUID, role domain.UserRole) (domain.CapabilitySet, error) {
	grants, err := s.Grants(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.EffectiveCapabilities(role, grants), nil
}

// Grants returns the per-user grants, served from the cache when possible.
// Cache failures fall through to the database.
func (s *capabilityService) Grants(ctx context.Context, userID uuid.UUID) ([]domain.Capability, error) {
	grants, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("capability cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	if ok {
		return grants, nil
	}

	grants, err = s.users.ListCapabilities(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, userID, grants); err != nil {
		s.logger.Warn("capability cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return grants, nil
}

func (s *capabilityService) SetGrants(ctx context.Context, userID uuid.UUID, names []string, grantedBy uuid.UUID) ([]domain.Capability, error) {
	seen := make(map[domain.Capability]bool, len(names))
	caps := make([]domain.Capability, 0, len(names))
	for _, name := range names {
		c, err := domain.ParseCapability(name)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			caps = append(caps, c)
		}
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.users.ReplaceCapabilities(ctx, userID, caps, grantedBy)
	})
	if err != nil {
		return nil, err
	}

	s.Forget(ctx, userID)
	s.logger.Info("capabilities updated",
		zap.String("user_id", userID.String()),
		zap.String("granted_by", grantedBy.String()),
		zap.Int("count", len(caps)))
	return caps, nil
}

// Forget drops any cached grants of userID.
func (s *capabilityService) Forget(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("capability cache invalidate failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
