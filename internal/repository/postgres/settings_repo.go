package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type settingsRepo struct {
	db *sqlx.DB
}

// NewSettingsRepo creates a new SQL-backed SettingsRepository.
func NewSettingsRepo(db *sqlx.DB) port.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) ensureNumbering(ctx context.Context, kind domain.NumberKind) error {
	d := domain.DefaultNumberingSettings(kind)
	_, err := execute(ctx, r.db,
		`INSERT INTO numbering_settings (kind, prefix, frequency, padding, next_number, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind) DO NOTHING`,
		d.Kind, d.Prefix, d.Frequency, d.Padding, d.NextNumber, time.Now().UTC())
	return err
}

// NextNumber increments the counter in a single UPDATE so concurrent callers
// never observe the same value.
func (r *settingsRepo) NextNumber(ctx context.Context, kind domain.NumberKind) (domain.NumberingSettings, int64, error) {
	if err := r.ensureNumbering(ctx, kind); err != nil {
		return domain.NumberingSettings{}, 0, fmt.Errorf("settingsRepo.NextNumber seed: %w", err)
	}

	var s domain.NumberingSettings
	err := getOne(ctx, r.db, &s,
		`UPDATE numbering_settings SET next_number = next_number + 1, updated_at = ?
		WHERE kind = ?
		RETURNING kind, prefix, frequency, padding, next_number`,
		time.Now().UTC(), kind)
	if err != nil {
		return domain.NumberingSettings{}, 0, fmt.Errorf("settingsRepo.NextNumber: %w", err)
	}
	return s, s.NextNumber - 1, nil
}

func (r *settingsRepo) ListNumbering(ctx context.Context) ([]domain.NumberingSettings, error) {
	var list []domain.NumberingSettings
	err := selectAll(ctx, r.db, &list,
		"SELECT kind, prefix, frequency, padding, next_number, updated_at FROM numbering_settings ORDER BY kind")
	if err != nil {
		return nil, fmt.Errorf("settingsRepo.ListNumbering: %w", err)
	}

	stored := make(map[domain.NumberKind]bool, len(list))
	for _, s := range list {
		stored[s.Kind] = true
	}
	for _, kind := range domain.NumberKinds {
		if !stored[kind] {
			list = append(list, domain.DefaultNumberingSettings(kind))
		}
	}
	return list, nil
}

// SaveNumbering upserts the settings of s.Kind. The stored counter only
// moves forward: a NextNumber below it leaves the row untouched and
// returns the error from domain.NewNumberRewindError.
func (r *settingsRepo) SaveNumbering(ctx context.Context, s *domain.NumberingSettings) error {
	s.UpdatedAt = time.Now().UTC()
	result, err := execute(ctx, r.db,
		`INSERT INTO numbering_settings (kind, prefix, frequency, padding, next_number, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind) DO UPDATE SET prefix = excluded.prefix, frequency = excluded.frequency,
			padding = excluded.padding, next_number = excluded.next_number, updated_at = excluded.updated_at
		WHERE numbering_settings.next_number <= excluded.next_number`,
		s.Kind, s.Prefix, s.Frequency, s.Padding, s.NextNumber, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("settingsRepo.SaveNumbering: %w", err)
	}
	return checkAffected(result, domain.NewNumberRewindError())
}

// GetTax returns the stored tax settings, or the defaults when none are saved.
func (r *settingsRepo) GetTax(ctx context.Context) (*domain.TaxSettings, error) {
	var s domain.TaxSettings
	err := getOne(ctx, r.db, &s, "SELECT gst_percentage, default_terms, updated_at FROM app_settings WHERE id = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.TaxSettings{GSTPercentage: domain.DefaultGSTPercentage, DefaultTerms: domain.DefaultQuotationTerms}, nil
		}
		return nil, fmt.Errorf("settingsRepo.GetTax: %w", err)
	}
	return &s, nil
}

func (r *settingsRepo) SaveTax(ctx context.Context, s *domain.TaxSettings) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := execute(ctx, r.db,
		`INSERT INTO app_settings (id, gst_percentage, default_terms, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET gst_percentage = excluded.gst_percentage,
			default_terms = excluded.default_terms, updated_at = excluded.updated_at`,
		s.GSTPercentage, s.DefaultTerms, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("settingsRepo.SaveTax: %w", err)
	}
	return nil
}
