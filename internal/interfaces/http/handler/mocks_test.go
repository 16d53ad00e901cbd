package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	"github.com/erp/reconciler/internal/application/identity"
	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
	"github.com/erp/reconciler/internal/infrastructure/auth"
	"github.com/erp/reconciler/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testUserID int64 = 7

// serve runs one request through a route. userID 0 leaves the request
// unauthenticated.
func serve(t *testing.T, method, route, target string, body string, userID int64, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	middleware.SetupValidator()

	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if userID > 0 {
			c.Set(middleware.JWTUserIDKey, userID)
			c.Set(middleware.JWTClaimsKey, &auth.Claims{Email: "seller@example.com"})
		}
		c.Next()
	}, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MockAuthService mocks AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.TokenResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.TokenResult), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.TokenResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.TokenResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	return m.Called(ctx, access, refreshToken).Error(0)
}

// MockProductService mocks ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListRows(ctx context.Context, filter catalog.ProductFilter) (shared.Page[catalogapp.ProductRowResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Page[catalogapp.ProductRowResponse]), args.Error(1)
}

func (m *MockProductService) CreateManualConnection(ctx context.Context, userID int64, req catalogapp.CreateManualConnectionRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockProductService) RefreshConnections(ctx context.Context, userID int64) (*catalogapp.RefreshResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.RefreshResult), args.Error(1)
}

func (m *MockProductService) SyncAccountProducts(ctx context.Context, userID, accountID int64, feed []catalog.FeedItem) (*catalogapp.SyncResult, error) {
	args := m.Called(ctx, userID, accountID, feed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.SyncResult), args.Error(1)
}

func (m *MockProductService) SuggestAnalogues(ctx context.Context, userID, productID int64, limit int) ([]catalogapp.AnalogueResponse, error) {
	args := m.Called(ctx, userID, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.AnalogueResponse), args.Error(1)
}

// MockAccountService mocks AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID int64) ([]catalogapp.AccountResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.AccountResponse), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID int64, req catalogapp.CreateAccountRequest) (*catalogapp.AccountDetailResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.AccountDetailResponse), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	return m.Called(ctx, userID, accountID).Error(0)
}

func (m *MockAccountService) PlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error) {
	args := m.Called(ctx, withWarehouse)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountService) AuthFields(t catalog.PlatformType) (catalog.AuthFields, error) {
	args := m.Called(t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(catalog.AuthFields), args.Error(1)
}

// MockOrderService mocks OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ListOrderItems(ctx context.Context, filter catalog.OrderItemFilter) (shared.Page[catalogapp.OrderItemResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Page[catalogapp.OrderItemResponse]), args.Error(1)
}

func (m *MockOrderService) Counts(ctx context.Context, userID int64) (catalog.OrdersCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(catalog.OrdersCounts), args.Error(1)
}

// MockExportService mocks ExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, userID int64, ids []int64) (*catalogapp.ExportResult, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ExportResult), args.Error(1)
}
