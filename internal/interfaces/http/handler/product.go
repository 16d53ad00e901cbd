package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
	"github.com/erp/reconciler/internal/interfaces/http/dto"
)

// ProductService is what ProductHandler needs from catalogapp.ProductService
type ProductService interface {
	ListRows(ctx context.Context, filter catalog.ProductFilter) (shared.Page[catalogapp.ProductRowResponse], error)
	CreateManualConnection(ctx context.Context, userID int64, req catalogapp.CreateManualConnectionRequest) error
	RefreshConnections(ctx context.Context, userID int64) (*catalogapp.RefreshResult, error)
	SyncAccountProducts(ctx context.Context, userID, accountID int64, feed []catalog.FeedItem) (*catalogapp.SyncResult, error)
	SuggestAnalogues(ctx context.Context, userID, productID int64, limit int) ([]catalogapp.AnalogueResponse, error)
}

// ProductHandler serves the paired product list and the connection actions
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns one page of product rows as {count, results}.
// GET /products/
func (h *ProductHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	filter, err := catalogapp.ParseProductFilter(userID, c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.productService.ListRows(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Suggestions lists warehouse products similar to a marketplace product.
// GET /products/:id/suggestions
func (h *ProductHandler) Suggestions(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	limit, err := catalogapp.ParseSuggestionsLimit(c.Query(catalogapp.ParamLimit))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	analogues, err := h.productService.SuggestAnalogues(c.Request.Context(), userID, productID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResultsResponse[catalogapp.AnalogueResponse]{Results: nonNil(analogues)})
}

// CreateManualConnection links a marketplace product to a warehouse product.
// POST /create-manual-connection/
func (h *ProductHandler) CreateManualConnection(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateManualConnectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.productService.CreateManualConnection(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, req)
}

// RefreshConnections relinks the user's products by barcode.
// POST /refresh-connections/
func (h *ProductHandler) RefreshConnections(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	result, err := h.productService.RefreshConnections(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Sync replaces an account's catalog with the posted feed.
// POST /accounts/:id/products/sync
func (h *ProductHandler) Sync(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	accountID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SyncProductsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.SyncAccountProducts(c.Request.Context(), userID, accountID, req.Products)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
