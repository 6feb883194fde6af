package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/GTDGit/storefront_api/internal/models"
)

func TestProductQuery(t *testing.T) {
	minPrice := decimal.RequireFromString("10")
	maxPrice := decimal.RequireFromString("99.5")
	available := true

	q, err := productQuery(models.ProductFilter{
		Category:  "chairs",
		Search:    "o.k",
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		Available: &available,
	})
	require.NoError(t, err)

	assert.Equal(t, "chairs", q["category"])
	assert.Equal(t, true, q["is_available"])

	or, ok := q["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: `o\.k`, Options: "i"}}, or[0])

	bounds := q["base_price"].(bson.M)
	assert.Equal(t, "10", bounds["$gte"].(primitive.Decimal128).String())
	assert.Equal(t, "99.5", bounds["$lte"].(primitive.Decimal128).String())
}

func TestProductQuery_Empty(t *testing.T) {
	q, err := productQuery(models.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, q)
}

func TestProductSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "base_price", Value: 1}, {Key: "_id", Value: 1}}, productSort(models.ProductSortPriceAsc))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, productSort(""))
}

func TestDocumentsToModel(t *testing.T) {
	price, err := primitive.ParseDecimal128("19.99")
	require.NoError(t, err)
	p, err := productDocument{ID: 3, Name: "Cushion", BasePrice: price}.toModel()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.99").Equal(p.BasePrice))

	v, err := variantDocument{ID: 31, ProductID: 3}.toModel()
	require.NoError(t, err)
	assert.False(t, v.PriceDelta.Valid)
	assert.True(t, v.Delta().IsZero())

	delta, err := primitive.ParseDecimal128("7.50")
	require.NoError(t, err)
	v, err = variantDocument{ID: 22, ProductID: 2, PriceDelta: &delta}.toModel()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.5").Equal(v.Delta()))
}
