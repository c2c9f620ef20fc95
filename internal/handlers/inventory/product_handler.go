// internal/handlers/inventory/product_handler.go
package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"greenwell-service/internal/domain/inventory"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/response"
	inventorysvc "greenwell-service/internal/service/inventory"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service *inventorysvc.InventoryService
}

func NewProductHandler(service *inventorysvc.InventoryService) *ProductHandler {
	return &ProductHandler{service: service}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filters := inventory.ListFilters{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}

	products, err := h.service.ListProducts(c.Request.Context(), filters)
	if err != nil {
		response.Internal(c, "failed to list products")
		return
	}

	response.OK(c, http.StatusOK, products)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product id", nil)
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.Internal(c, "failed to load product")
		return
	}

	response.OK(c, http.StatusOK, product)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req inventory.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid product payload", nil)
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Conflict(c, "a product with this sku already exists")
			return
		}
		response.Internal(c, "failed to create product")
		return
	}

	response.OK(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product id", nil)
		return
	}

	var req inventory.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid product payload", nil)
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "product not found")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, err.Error(), nil)
		default:
			response.Internal(c, "failed to update product")
		}
		return
	}

	response.OK(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product id", nil)
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.Internal(c, "failed to delete product")
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "product deleted"})
}

// LowStock handles GET /products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.service.LowStockProducts(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list low stock products")
		return
	}

	response.OK(c, http.StatusOK, products)
}
