package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/repository"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// CatalogService provides read access to products, variants and categories.
type CatalogService struct {
	catalog CatalogStore
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListProducts returns one page of products matching filter plus the total
// number of matches. The filter is normalized in place.
func (s *CatalogService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int, error) {
	filter.Normalize()
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, fmt.Errorf("%w: minPrice exceeds maxPrice", utils.ErrInvalidPrice)
	}

	products, total, err := s.catalog.List(ctx, *filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// GetProduct returns a product with its variants.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err)
	}
	variants, err := s.catalog.GetVariantsByProductID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	product.Variants = variants
	return product, nil
}

// ListVariants returns the variants of an existing product.
func (s *CatalogService) ListVariants(ctx context.Context, productID int) ([]models.Variant, error) {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return nil, mapProductErr(err)
	}
	variants, err := s.catalog.GetVariantsByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	return variants, nil
}

// ListCategories returns the distinct product categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.catalog.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func mapProductErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrProductNotFound
	}
	return err
}
