package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// CatalogService is the catalog behavior the handler depends on.
type CatalogService interface {
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	ListVariants(ctx context.Context, productID int) ([]models.Variant, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// ProductHandler serves the public catalog.
type ProductHandler struct {
	catalog CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// GetProducts handles GET /v1/products with shop filters:
// category, search, minPrice, maxPrice, available, sort, page, limit.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter, fieldErrs := parseProductFilter(c)
	if len(fieldErrs) > 0 {
		utils.ValidationError(c, "Invalid query parameters", fieldErrs)
		return
	}

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "", products, filter.Page, filter.Limit, total)
}

// GetProduct handles GET /v1/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", product)
}

// GetVariants handles GET /v1/products/:id/variants.
func (h *ProductHandler) GetVariants(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	variants, err := h.catalog.ListVariants(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", variants)
}

// GetCategories handles GET /v1/categories.
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", categories)
}

func parseProductFilter(c *gin.Context) (*models.ProductFilter, []utils.FieldError) {
	var errs []utils.FieldError
	filter := &models.ProductFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     models.ProductSort(c.Query("sort")),
	}

	priceParam := func(name string) *decimal.Decimal {
		raw := c.Query(name)
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			errs = append(errs, utils.FieldError{Field: name, Message: "must be a non-negative number"})
			return nil
		}
		return &d
	}
	filter.MinPrice = priceParam("minPrice")
	filter.MaxPrice = priceParam("maxPrice")

	if raw := c.Query("available"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, utils.FieldError{Field: "available", Message: "must be true or false"})
		} else {
			filter.Available = &b
		}
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &filter.Page}, {"limit", &filter.Limit}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			errs = append(errs, utils.FieldError{Field: p.name, Message: "must be a positive integer"})
			continue
		}
		*p.dst = v
	}

	if filter.Sort != "" && !filter.Sort.Valid() {
		errs = append(errs, utils.FieldError{Field: "sort", Message: "must be one of newest, price_asc, price_desc, name"})
	}
	return filter, errs
}
