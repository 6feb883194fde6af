package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/storefront_api/internal/models"
)

// FavoriteRepository handles data access for favorite products.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add stores the favorite; adding an existing pair is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, userID, productID int) error {
	const q = `
		INSERT INTO favorites (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, userID, productID)
	return err
}

// ListByUser returns the user's favorites, most recent first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int) ([]models.Favorite, error) {
	const q = `SELECT user_id, product_id, created_at FROM favorites WHERE user_id = $1 ORDER BY created_at DESC, product_id`
	favorites := []models.Favorite{}
	if err := r.db.SelectContext(ctx, &favorites, q, userID); err != nil {
		return nil, err
	}
	return favorites, nil
}

// Remove deletes the favorite, ErrNotFound when it does not exist.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, productID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
