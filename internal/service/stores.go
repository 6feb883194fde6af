package service

import (
	"context"
	"time"

	"github.com/GTDGit/storefront_api/internal/models"
)

// CatalogStore is the read-only view of products and variants. It is
// implemented by the PostgreSQL and MongoDB catalog repositories; the backend
// is chosen once at start-up.
type CatalogStore interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int) ([]models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetVariantsByIDs(ctx context.Context, ids []int) ([]models.Variant, error)
	GetVariantsByProductID(ctx context.Context, productID int) ([]models.Variant, error)
}

// ConfigurationStore persists saved configurations. Owner-scoped methods
// return repository.ErrNotFound when no owned row matches.
type ConfigurationStore interface {
	Create(ctx context.Context, cfg *models.Configuration) error
	GetByIDForUser(ctx context.Context, id string, userID int) (*models.Configuration, error)
	ListByUser(ctx context.Context, userID int) ([]models.Configuration, error)
	ListByUserAndProduct(ctx context.Context, userID, productID int) ([]models.Configuration, error)
	UpdateForUser(ctx context.Context, cfg *models.Configuration) error
	DeleteForUser(ctx context.Context, id string, userID int) error
}

// UserStore persists accounts.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// TokenDenylist records revoked token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// FavoriteStore persists favorite products.
type FavoriteStore interface {
	Add(ctx context.Context, userID, productID int) error
	ListByUser(ctx context.Context, userID int) ([]models.Favorite, error)
	Remove(ctx context.Context, userID, productID int) error
}

// CartStore persists cart lines.
type CartStore interface {
	ListByUser(ctx context.Context, userID int) ([]models.CartItem, error)
	FindLine(ctx context.Context, userID, productID int, configurationID *string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateForUser(ctx context.Context, item *models.CartItem) error
	GetByIDForUser(ctx context.Context, id, userID int) (*models.CartItem, error)
	DeleteForUser(ctx context.Context, id, userID int) error
	ClearForUser(ctx context.Context, userID int) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}
