package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
)

// OrderService is what OrderHandler needs from catalogapp.OrderService
type OrderService interface {
	ListOrderItems(ctx context.Context, filter catalog.OrderItemFilter) (shared.Page[catalogapp.OrderItemResponse], error)
	Counts(ctx context.Context, userID int64) (catalog.OrdersCounts, error)
}

// OrderHandler serves the orders board
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns one page of order items as {count, results}.
// GET /order-items/
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	filter, err := catalogapp.ParseOrderItemFilter(userID, c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.orderService.ListOrderItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Counts returns the board tab counters.
// GET /get-orders-counts/
func (h *OrderHandler) Counts(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	counts, err := h.orderService.Counts(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
