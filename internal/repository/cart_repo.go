package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/storefront_api/internal/models"
)

// CartRepository handles data access for cart lines.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

const cartColumns = `id, user_id, product_id, configuration_id, quantity, unit_price, created_at, updated_at`

// ListByUser returns the user's cart lines in insertion order.
func (r *CartRepository) ListByUser(ctx context.Context, userID int) ([]models.CartItem, error) {
	items := []models.CartItem{}
	q := `SELECT ` + cartColumns + ` FROM cart_items WHERE user_id = $1 ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &items, q, userID); err != nil {
		return nil, err
	}
	return items, nil
}

// FindLine returns the line holding the same product and configuration.
func (r *CartRepository) FindLine(ctx context.Context, userID, productID int, configurationID *string) (*models.CartItem, error) {
	const q = `SELECT ` + cartColumns + ` FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND configuration_id IS NOT DISTINCT FROM $3::uuid
		LIMIT 1`

	var item models.CartItem
	if err := r.db.GetContext(ctx, &item, q, userID, productID, configurationID); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// Create inserts a cart line.
func (r *CartRepository) Create(ctx context.Context, item *models.CartItem) error {
	const q = `
		INSERT INTO cart_items (user_id, product_id, configuration_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		item.UserID, item.ProductID, item.ConfigurationID, item.Quantity, item.UnitPrice,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// UpdateForUser sets quantity and unit price of a line owned by item.UserID.
func (r *CartRepository) UpdateForUser(ctx context.Context, item *models.CartItem) error {
	const q = `
		UPDATE cart_items SET quantity = $3, unit_price = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING product_id, configuration_id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q, item.ID, item.UserID, item.Quantity, item.UnitPrice).
		Scan(&item.ProductID, &item.ConfigurationID, &item.CreatedAt, &item.UpdatedAt)
	return notFound(err)
}

// GetByIDForUser returns a line owned by userID.
func (r *CartRepository) GetByIDForUser(ctx context.Context, id, userID int) (*models.CartItem, error) {
	var item models.CartItem
	q := `SELECT ` + cartColumns + ` FROM cart_items WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &item, q, id, userID); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// DeleteForUser removes a line owned by userID.
func (r *CartRepository) DeleteForUser(ctx context.Context, id, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ClearForUser removes every line of the user's cart.
func (r *CartRepository) ClearForUser(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

// DeleteStale removes lines not touched since before and returns how many were removed.
func (r *CartRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
