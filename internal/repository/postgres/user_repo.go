package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new SQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, username, email, full_name, phone, password_hash, role, is_active, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := execute(ctx, r.db, query,
		user.ID, user.Username, user.Email, user.FullName, user.Phone, user.PasswordHash,
		user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := getOne(ctx, r.db, &user, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := getOne(ctx, r.db, &user, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByUsername: %w", err)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err = selectAll(ctx, r.db, &users,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("userRepo.List: %w", err)
	}
	return users, total, nil
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := getOne(ctx, r.db, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("userRepo.Count: %w", err)
	}
	return total, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	result, err := execute(ctx, r.db,
		`UPDATE users SET email = ?, full_name = ?, phone = ?, role = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		user.Email, user.FullName, user.Phone, user.Role, user.IsActive, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("userRepo.Update: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := execute(ctx, r.db,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("userRepo.UpdatePassword: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := execute(ctx, r.db, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("userRepo.Delete: %w", err)
	}
	return checkAffected(result, domain.ErrNotFound)
}

func (r *userRepo) ListCapabilities(ctx context.Context, userID uuid.UUID) ([]domain.Capability, error) {
	var caps []domain.Capability
	err := selectAll(ctx, r.db, &caps,
		"SELECT capability FROM user_capabilities WHERE user_id = ? ORDER BY capability", userID)
	if err != nil {
		return nil, fmt.Errorf("userRepo.ListCapabilities: %w", err)
	}
	return caps, nil
}

// ReplaceCapabilities must run inside a transaction so the delete and the
// inserts land together.
func (r *userRepo) ReplaceCapabilities(ctx context.Context, userID uuid.UUID, caps []domain.Capability, grantedBy uuid.UUID) error {
	if _, err := execute(ctx, r.db, "DELETE FROM user_capabilities WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("userRepo.ReplaceCapabilities delete: %w", err)
	}
	now := time.Now().UTC()
	for _, c := range caps {
		_, err := execute(ctx, r.db,
			"INSERT INTO user_capabilities (user_id, capability, granted_by, created_at) VALUES (?, ?, ?, ?)",
			userID, c, grantedBy, now)
		if err != nil {
			return fmt.Errorf("userRepo.ReplaceCapabilities insert: %w", err)
		}
	}
	return nil
}
