package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/storefront_api/internal/models"
)

// ProductRepository is the PostgreSQL catalog store for products and variants.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, category, base_price, is_available, image_url, created_at, updated_at`

const variantColumns = `id, product_id, name, value, price_delta, is_available, created_at, updated_at`

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetByIDs returns the products matching ids. Unknown ids are absent from the result.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, pq.Array(ids)); err != nil {
		return nil, err
	}
	return products, nil
}

// List returns one page of products matching the filter plus the total count.
// The filter must already be normalized.
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	baseWhere := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Category != "" {
		baseWhere += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.MinPrice != nil {
		baseWhere += fmt.Sprintf(" AND base_price >= $%d", argIdx)
		args = append(args, *filter.MinPrice)
		argIdx++
	}
	if filter.MaxPrice != nil {
		baseWhere += fmt.Sprintf(" AND base_price <= $%d", argIdx)
		args = append(args, *filter.MaxPrice)
		argIdx++
	}
	if filter.Available != nil {
		baseWhere += fmt.Sprintf(" AND is_available = $%d", argIdx)
		args = append(args, *filter.Available)
		argIdx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM products `+baseWhere, args...); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, baseWhere, orderClause(filter.Sort), argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, listQuery, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func orderClause(order models.ProductSort) string {
	switch order {
	case models.ProductSortPriceAsc:
		return "base_price ASC, id ASC"
	case models.ProductSortPriceDesc:
		return "base_price DESC, id ASC"
	case models.ProductSortName:
		return "name ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// GetCategories returns all distinct non-empty categories.
func (r *ProductRepository) GetCategories(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT category FROM products WHERE category != '' ORDER BY category`
	categories := []string{}
	if err := r.db.SelectContext(ctx, &categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetVariantsByIDs returns the variants matching ids. Unknown ids are absent from the result.
func (r *ProductRepository) GetVariantsByIDs(ctx context.Context, ids []int) ([]models.Variant, error) {
	if len(ids) == 0 {
		return []models.Variant{}, nil
	}
	const q = `SELECT ` + variantColumns + ` FROM variants WHERE id = ANY($1)`

	variants := []models.Variant{}
	if err := r.db.SelectContext(ctx, &variants, q, pq.Array(ids)); err != nil {
		return nil, err
	}
	return variants, nil
}

// GetVariantsByProductID returns every variant of a product, grouped by name.
func (r *ProductRepository) GetVariantsByProductID(ctx context.Context, productID int) ([]models.Variant, error) {
	const q = `SELECT ` + variantColumns + ` FROM variants WHERE product_id = $1 ORDER BY name, id`

	variants := []models.Variant{}
	if err := r.db.SelectContext(ctx, &variants, q, productID); err != nil {
		return nil, err
	}
	return variants, nil
}

// Ping checks the connection for health reporting.
func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
