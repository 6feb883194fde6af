package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/repository"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// FavoriteRequest is the body of POST /favorites.
type FavoriteRequest struct {
	ProductID int `json:"productId" binding:"required,gt=0"`
}

// FavoriteService manages the products a user has saved.
type FavoriteService struct {
	favorites FavoriteStore
	catalog   CatalogStore
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(favorites FavoriteStore, catalog CatalogStore) *FavoriteService {
	return &FavoriteService{favorites: favorites, catalog: catalog}
}

// Add saves a product for the user. Saving it twice is not an error.
func (s *FavoriteService) Add(ctx context.Context, userID, productID int) error {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return mapProductErr(err)
	}
	if err := s.favorites.Add(ctx, userID, productID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// List returns the user's favorites, most recent first, with products joined.
// Favorites whose product left the catalog are omitted.
func (s *FavoriteService) List(ctx context.Context, userID int) ([]models.Favorite, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if len(favorites) == 0 {
		return favorites, nil
	}

	ids := make([]int, len(favorites))
	for i, f := range favorites {
		ids[i] = f.ProductID
	}
	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]models.Favorite, 0, len(favorites))
	for _, f := range favorites {
		p, ok := byID[f.ProductID]
		if !ok {
			continue
		}
		f.Product = &p
		out = append(out, f)
	}
	return out, nil
}

// Remove deletes a saved product.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID int) error {
	if err := s.favorites.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrFavoriteNotFound
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
