package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/storefront_api/internal/models"
)

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

const pgUniqueViolation = "23505"

// UserRepository handles data access for storefront accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, phone, account_type, company_name, vat_number, is_active, created_at, updated_at`

// GetByEmail returns the account registered with email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByID returns the account with id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Create inserts a new account. A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash, name, phone, account_type, company_name, vat_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		user.Email, user.PasswordHash, user.Name, user.Phone, user.AccountType,
		user.CompanyName, user.VATNumber, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}
