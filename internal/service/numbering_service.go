package service

import (
	"context"
	"fmt"
	"time"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// NumberingService issues document numbers. Each call reserves a fresh
// sequence value, so numbers are unique and increase per kind even under
// concurrent callers.
type NumberingService interface {
	Next(ctx context.Context, kind domain.NumberKind, at time.Time) (string, error)
}

type numberingService struct {
	repo port.SettingsRepository
}

// NewNumberingService creates a new NumberingService implementation.
func NewNumberingService(repo port.SettingsRepository) NumberingService {
	return &numberingService{repo: repo}
}

func (s *numberingService) Next(ctx context.Context, kind domain.NumberKind, at time.Time) (string, error) {
	if !domain.ValidNumberKinds[kind] {
		return "", domain.NewValidationError("kind", "unknown number kind")
	}
	settings, seq, err := s.repo.NextNumber(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("numbering.Next: %w", err)
	}
	return domain.FormatDocumentNumber(settings, seq, at), nil
}
