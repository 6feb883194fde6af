package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/storefront_api/internal/models"
)

// ConfigurationRepository handles data access for saved product configurations.
// Every read and write is scoped by owner in the statement itself.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository creates a new ConfigurationRepository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

const configurationColumns = `id, user_id, product_id, selected_variants, options, calculated_price, created_at, updated_at`

// Create inserts a configuration. ID must be set by the caller.
func (r *ConfigurationRepository) Create(ctx context.Context, cfg *models.Configuration) error {
	const q = `
        INSERT INTO configurations (id, user_id, product_id, selected_variants, options, calculated_price)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		cfg.ID, cfg.UserID, cfg.ProductID, cfg.SelectedVariants, cfg.Options, cfg.CalculatedPrice,
	).Scan(&cfg.CreatedAt, &cfg.UpdatedAt)
}

// GetByIDForUser returns the configuration only when it belongs to userID.
func (r *ConfigurationRepository) GetByIDForUser(ctx context.Context, id string, userID int) (*models.Configuration, error) {
	const q = `SELECT ` + configurationColumns + ` FROM configurations WHERE id = $1 AND user_id = $2`

	var cfg models.Configuration
	if err := r.db.GetContext(ctx, &cfg, q, id, userID); err != nil {
		return nil, notFound(err)
	}
	return &cfg, nil
}

// ListByUser returns the user's configurations, most recent first.
func (r *ConfigurationRepository) ListByUser(ctx context.Context, userID int) ([]models.Configuration, error) {
	const q = `SELECT ` + configurationColumns + ` FROM configurations
        WHERE user_id = $1
        ORDER BY created_at DESC, id`

	configs := []models.Configuration{}
	if err := r.db.SelectContext(ctx, &configs, q, userID); err != nil {
		return nil, err
	}
	return configs, nil
}

// ListByUserAndProduct returns the user's configurations of one product, most recent first.
func (r *ConfigurationRepository) ListByUserAndProduct(ctx context.Context, userID, productID int) ([]models.Configuration, error) {
	const q = `SELECT ` + configurationColumns + ` FROM configurations
        WHERE user_id = $1 AND product_id = $2
        ORDER BY created_at DESC, id`

	configs := []models.Configuration{}
	if err := r.db.SelectContext(ctx, &configs, q, userID, productID); err != nil {
		return nil, err
	}
	return configs, nil
}

// UpdateForUser overwrites the mutable fields in a single conditional statement.
// It returns ErrNotFound when the row does not exist or is owned by someone else.
func (r *ConfigurationRepository) UpdateForUser(ctx context.Context, cfg *models.Configuration) error {
	const q = `
        UPDATE configurations
        SET product_id = $3, selected_variants = $4, options = $5, calculated_price = $6, updated_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		cfg.ID, cfg.UserID, cfg.ProductID, cfg.SelectedVariants, cfg.Options, cfg.CalculatedPrice,
	).Scan(&cfg.CreatedAt, &cfg.UpdatedAt)
	return notFound(err)
}

// DeleteForUser removes the configuration when it belongs to userID.
func (r *ConfigurationRepository) DeleteForUser(ctx context.Context, id string, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM configurations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
