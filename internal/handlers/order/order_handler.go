// internal/handlers/order/order_handler.go
package order

import (
	"errors"
	"net/http"

	"greenwell-service/internal/domain/order"
	"greenwell-service/internal/pkg/apierror"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/response"
	ordersvc "greenwell-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *ordersvc.OrderService
}

func NewOrderHandler(service *ordersvc.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filters := order.ListFilters{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	orders, err := h.service.ListOrders(c.Request.Context(), filters)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, err.Error(), nil)
			return
		}
		response.Internal(c, "failed to list orders")
		return
	}

	response.OK(c, http.StatusOK, orders)
}

// GetOrder handles GET /orders/:reference
func (h *OrderHandler) GetOrder(c *gin.Context) {
	reference := c.Param("reference")

	o, err := h.service.GetOrder(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.Internal(c, "failed to load order")
		return
	}

	response.OK(c, http.StatusOK, o)
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid order payload", nil)
		return
	}

	o, err := h.service.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.ValidationError(c, "party not found", map[string]string{"party_id": "unknown party"})
			return
		}
		response.Internal(c, "failed to create order")
		return
	}

	response.OK(c, http.StatusCreated, o)
}

// UpdateStatus handles PUT /orders/:reference/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	reference := c.Param("reference")

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "status is required", nil)
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), reference, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "order not found")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, err.Error(), nil)
		case errors.Is(err, xerrors.ErrInvalidTransition):
			response.Error(c, http.StatusConflict,
				apierror.New(apierror.CodeValidation, xerrors.MessageOrDefault(err, "invalid status transition")))
		default:
			response.Internal(c, "failed to update order")
		}
		return
	}

	response.OK(c, http.StatusOK, o)
}
