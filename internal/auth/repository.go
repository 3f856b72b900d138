package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/pkg/database"
)

// Repository handles admin user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, password_hash, is_admin, created_at`

func scanUser(row pgx.Row) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM admin_users WHERE id = $1`, id))
}

// GetByUsername returns a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM admin_users WHERE username = $1`, username))
}

// Create inserts a new user. A taken username is a conflict.
func (r *Repository) Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.AdminUser, error) {
	const q = `INSERT INTO admin_users (username, password_hash, is_admin) VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, username, passwordHash, isAdmin))
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, apperr.Conflict(fmt.Sprintf("username %q is already registered", username))
		}
		return nil, err
	}
	return u, nil
}

// Upsert creates the user or resets its password and admin flag.
func (r *Repository) Upsert(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.AdminUser, error) {
	const q = `INSERT INTO admin_users (username, password_hash, is_admin) VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, is_admin = EXCLUDED.is_admin
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, username, passwordHash, isAdmin))
}

// DeleteAll removes every user and returns how many were deleted.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admin_users`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
