package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/utils"
)

func TestCatalogService_ListProductsNormalizesFilter(t *testing.T) {
	_, catalog := calculatorFixture()
	svc := NewCatalogService(catalog)

	filter := &models.ProductFilter{Page: -1, Limit: 500, Sort: "cheapest"}
	products, total, err := svc.ListProducts(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 100, filter.Limit)
	assert.Equal(t, models.ProductSortNewest, filter.Sort)
}

func TestCatalogService_ListProductsRejectsInvertedPriceRange(t *testing.T) {
	_, catalog := calculatorFixture()
	svc := NewCatalogService(catalog)

	minPrice, maxPrice := dec("50"), dec("10")
	_, _, err := svc.ListProducts(context.Background(), &models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	assert.ErrorIs(t, err, utils.ErrInvalidPrice)
}

func TestCatalogService_GetProductWithVariants(t *testing.T) {
	_, catalog := calculatorFixture()
	svc := NewCatalogService(catalog)

	product, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, product.Variants, 3)
	assert.Equal(t, 11, product.Variants[0].ID)

	_, err = svc.GetProduct(context.Background(), 404)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestCatalogService_ListVariants(t *testing.T) {
	_, catalog := calculatorFixture()
	svc := NewCatalogService(catalog)

	variants, err := svc.ListVariants(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, 21, variants[0].ID)

	_, err = svc.ListVariants(context.Background(), 404)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chairs"}, categories)
}
