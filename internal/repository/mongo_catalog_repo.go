package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GTDGit/storefront_api/internal/models"
)

// Collection names of the document catalog.
const (
	ProductsCollection = "products"
	VariantsCollection = "variants"
)

// productDocument is the MongoDB shape of a product. Ids are integers so that
// configurations and carts reference products the same way on either backend.
type productDocument struct {
	ID          int                  `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Category    string               `bson:"category"`
	BasePrice   primitive.Decimal128 `bson:"base_price"`
	IsAvailable bool                 `bson:"is_available"`
	ImageURL    string               `bson:"image_url"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type variantDocument struct {
	ID          int                   `bson:"_id"`
	ProductID   int                   `bson:"product_id"`
	Name        string                `bson:"name"`
	Value       string                `bson:"value"`
	PriceDelta  *primitive.Decimal128 `bson:"price_delta,omitempty"`
	IsAvailable bool                  `bson:"is_available"`
	CreatedAt   time.Time             `bson:"created_at"`
	UpdatedAt   time.Time             `bson:"updated_at"`
}

func (d productDocument) toModel() (models.Product, error) {
	price, err := decimal.NewFromString(d.BasePrice.String())
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d: invalid base_price: %w", d.ID, err)
	}
	return models.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		BasePrice:   price,
		IsAvailable: d.IsAvailable,
		ImageURL:    d.ImageURL,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (d variantDocument) toModel() (models.Variant, error) {
	v := models.Variant{
		ID:          d.ID,
		ProductID:   d.ProductID,
		Name:        d.Name,
		Value:       d.Value,
		IsAvailable: d.IsAvailable,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.PriceDelta != nil {
		delta, err := decimal.NewFromString(d.PriceDelta.String())
		if err != nil {
			return models.Variant{}, fmt.Errorf("variant %d: invalid price_delta: %w", d.ID, err)
		}
		v.PriceDelta = decimal.NewNullDecimal(delta)
	}
	return v, nil
}

// MongoCatalogRepository is the MongoDB catalog store for products and variants.
type MongoCatalogRepository struct {
	products *mongo.Collection
	variants *mongo.Collection
}

// NewMongoCatalogRepository creates a catalog store backed by db.
func NewMongoCatalogRepository(db *mongo.Database) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		products: db.Collection(ProductsCollection),
		variants: db.Collection(VariantsCollection),
	}
}

// GetByID returns a single product by id.
func (r *MongoCatalogRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var doc productDocument
	if err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns the products matching ids. Unknown ids are absent from the result.
func (r *MongoCatalogRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// List returns one page of products matching the filter plus the total count.
// The filter must already be normalized.
func (r *MongoCatalogRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query, err := productQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.products.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(productSort(filter.Sort)).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))

	cursor, err := r.products.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return products, int(total), nil
}

func productQuery(filter models.ProductFilter) (bson.M, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		bounds := bson.M{}
		if filter.MinPrice != nil {
			d, err := primitive.ParseDecimal128(filter.MinPrice.String())
			if err != nil {
				return nil, err
			}
			bounds["$gte"] = d
		}
		if filter.MaxPrice != nil {
			d, err := primitive.ParseDecimal128(filter.MaxPrice.String())
			if err != nil {
				return nil, err
			}
			bounds["$lte"] = d
		}
		query["base_price"] = bounds
	}
	if filter.Available != nil {
		query["is_available"] = *filter.Available
	}
	return query, nil
}

func productSort(order models.ProductSort) bson.D {
	switch order {
	case models.ProductSortPriceAsc:
		return bson.D{{Key: "base_price", Value: 1}, {Key: "_id", Value: 1}}
	case models.ProductSortPriceDesc:
		return bson.D{{Key: "base_price", Value: -1}, {Key: "_id", Value: 1}}
	case models.ProductSortName:
		return bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// GetCategories returns all distinct non-empty categories.
func (r *MongoCatalogRepository) GetCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	raw, err := r.products.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// GetVariantsByIDs returns the variants matching ids. Unknown ids are absent from the result.
func (r *MongoCatalogRepository) GetVariantsByIDs(ctx context.Context, ids []int) ([]models.Variant, error) {
	if len(ids) == 0 {
		return []models.Variant{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.variants.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeVariants(ctx, cursor)
}

// GetVariantsByProductID returns every variant of a product, grouped by name.
func (r *MongoCatalogRepository) GetVariantsByProductID(ctx context.Context, productID int) ([]models.Variant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.variants.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeVariants(ctx, cursor)
}

// Ping checks the connection for health reporting.
func (r *MongoCatalogRepository) Ping(ctx context.Context) error {
	return r.products.Database().Client().Ping(ctx, nil)
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeVariants(ctx context.Context, cursor *mongo.Cursor) ([]models.Variant, error) {
	var docs []variantDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	variants := make([]models.Variant, 0, len(docs))
	for _, d := range docs {
		v, err := d.toModel()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}
