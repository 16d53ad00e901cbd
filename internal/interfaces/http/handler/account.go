package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/interfaces/http/dto"
)

// AccountService is what AccountHandler needs from catalogapp.AccountService
type AccountService interface {
	ListAccounts(ctx context.Context, userID int64) ([]catalogapp.AccountResponse, error)
	CreateAccount(ctx context.Context, userID int64, req catalogapp.CreateAccountRequest) (*catalogapp.AccountDetailResponse, error)
	DeleteAccount(ctx context.Context, userID, accountID int64) error
	PlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error)
	AuthFields(t catalog.PlatformType) (catalog.AuthFields, error)
}

// AccountHandler serves accounts and platform metadata for the filters
type AccountHandler struct {
	BaseHandler
	accountService AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List returns the user's marketplace accounts as {results}.
// GET /accounts/
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResultsResponse[catalogapp.AccountResponse]{Results: nonNil(accounts)})
}

// Create adds an account on a platform.
// POST /create-account/
func (h *AccountHandler) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Delete removes an account and its products.
// DELETE /accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	accountID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PlatformTypes returns the platform labels indexed by platform type. The
// warehouse is included only with with_moy_sklad set.
// GET /marketplace-types/
func (h *AccountHandler) PlatformTypes(c *gin.Context) {
	withWarehouse, _ := catalogapp.ParseBool(c.Query(catalogapp.ParamWithWarehouse))

	labels, err := h.accountService.PlatformTypes(c.Request.Context(), withWarehouse)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(labels))
}

// AuthFields describes the credentials a platform account needs.
// GET /platform-auth-fields/:platform_type/
func (h *AccountHandler) AuthFields(c *gin.Context) {
	raw, err := strconv.Atoi(c.Param("platform_type"))
	if err != nil {
		h.HandleError(c, catalog.ErrUnknownPlatformType)
		return
	}

	fields, err := h.accountService.AuthFields(catalog.PlatformType(raw))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}
