package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/fleetgrid/internal/db"
	"github.com/rpattn/fleetgrid/internal/domain"
)

// adminRepository implements AdminRepository
type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

// FindByUsername retrieves an admin account by username
func (r *adminRepository) FindByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var admin domain.Admin
	err := r.pool.QueryRow(ctx,
		"SELECT id, username, password_hash, password_salt FROM admin WHERE username = $1",
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.PasswordSalt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Admin{}, fmt.Errorf("admin %q: %w", username, domain.ErrNotFound)
		}
		return domain.Admin{}, fmt.Errorf("failed to find admin: %w", err)
	}
	return admin, nil
}

// Create inserts a new admin account
func (r *adminRepository) Create(ctx context.Context, admin domain.Admin) (domain.Admin, error) {
	err := r.pool.QueryRow(ctx,
		"INSERT INTO admin (username, password_hash, password_salt) VALUES ($1, $2, $3) RETURNING id",
		admin.Username, admin.PasswordHash, admin.PasswordSalt,
	).Scan(&admin.ID)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("failed to create admin: %w", db.TranslateError(err))
	}
	return admin, nil
}
