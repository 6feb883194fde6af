package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront_api/internal/middleware"
	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/service"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// ConfigurationService is the configuration behavior the handler depends on.
type ConfigurationService interface {
	CalculatePrice(ctx context.Context, req *service.CalculatePriceRequest) (*service.PriceBreakdown, error)
	Create(ctx context.Context, userID int, req *service.CreateConfigurationRequest) (*models.Configuration, error)
	Get(ctx context.Context, userID int, id string) (*models.Configuration, error)
	ListForUser(ctx context.Context, userID int) ([]models.Configuration, error)
	ListForProduct(ctx context.Context, userID, productID int) ([]models.Configuration, error)
	Update(ctx context.Context, userID int, id string, req *service.UpdateConfigurationRequest) (*models.Configuration, error)
	Delete(ctx context.Context, userID int, id string) error
}

// ConfigurationHandler serves saved product configurations of the caller.
type ConfigurationHandler struct {
	configs ConfigurationService
}

// NewConfigurationHandler creates a new ConfigurationHandler.
func NewConfigurationHandler(configs ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{configs: configs}
}

// List handles GET /v1/configurations.
func (h *ConfigurationHandler) List(c *gin.Context) {
	configs, err := h.configs.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", configs)
}

// ListByProduct handles GET /v1/configurations/product/:productId.
func (h *ConfigurationHandler) ListByProduct(c *gin.Context) {
	productID, ok := intParam(c, "productId")
	if !ok {
		return
	}
	configs, err := h.configs.ListForProduct(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", configs)
}

// Get handles GET /v1/configurations/:id.
func (h *ConfigurationHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	cfg, err := h.configs.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", cfg)
}

// Create handles POST /v1/configurations.
func (h *ConfigurationHandler) Create(c *gin.Context) {
	var req service.CreateConfigurationRequest
	if !bindJSON(c, &req) {
		return
	}
	cfg, err := h.configs.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Configuration saved", cfg)
}

// Update handles PUT /v1/configurations/:id.
func (h *ConfigurationHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateConfigurationRequest
	if !bindJSON(c, &req) {
		return
	}
	cfg, err := h.configs.Update(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Configuration updated", cfg)
}

// Delete handles DELETE /v1/configurations/:id.
func (h *ConfigurationHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.configs.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Configuration deleted", nil)
}

// CalculatePrice handles POST /v1/configurations/calculate-price.
func (h *ConfigurationHandler) CalculatePrice(c *gin.Context) {
	var req service.CalculatePriceRequest
	if !bindJSON(c, &req) {
		return
	}
	breakdown, err := h.configs.CalculatePrice(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", breakdown)
}
