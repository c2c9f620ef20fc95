// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"greenwell-service/internal/domain/auth"
	xerrors "greenwell-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// FindUserByMobile retrieves a user by mobile number
func (r *AuthRepository) FindUserByMobile(ctx context.Context, mobile string) (*auth.User, error) {
	query := `
		SELECT id, first_name, email, mobile, role, password_hash,
		       is_active, created_at, last_login_at
		FROM users
		WHERE mobile = $1
	`

	var user auth.User
	err := r.db.QueryRow(ctx, query, mobile).Scan(
		&user.ID, &user.FirstName, &user.Email, &user.Mobile, &user.Role,
		&user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindUserByID retrieves a user by ID
func (r *AuthRepository) FindUserByID(ctx context.Context, id int64) (*auth.User, error) {
	query := `
		SELECT id, first_name, email, mobile, role, password_hash,
		       is_active, created_at, last_login_at
		FROM users
		WHERE id = $1
	`

	var user auth.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FirstName, &user.Email, &user.Mobile, &user.Role,
		&user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// CreateUser inserts a new user
func (r *AuthRepository) CreateUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (first_name, email, mobile, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		user.FirstName, user.Email, user.Mobile, user.Role,
		user.PasswordHash, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateLastLogin stamps the user's last successful login
func (r *AuthRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_login_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// ExistsByMobile checks whether a mobile number is already registered
func (r *AuthRepository) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE mobile = $1)`, mobile,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check mobile: %w", err)
	}
	return exists, nil
}
