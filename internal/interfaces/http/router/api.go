package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/infrastructure/logger"
	"github.com/erp/reconciler/internal/interfaces/http/handler"
	"github.com/erp/reconciler/internal/interfaces/http/middleware"
)

// Handlers are the endpoints the API serves
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Account *handler.AccountHandler
	Order   *handler.OrderHandler
	Export  *handler.ExportHandler
	System  *handler.SystemHandler
}

// Config carries the middleware settings of the API
type Config struct {
	JWT         middleware.JWTMiddlewareConfig
	CORS        middleware.CORSConfig
	MaxBodySize int64
	// LoginLimiter throttles the token endpoint; nil disables it
	LoginLimiter *middleware.RateLimiter
	Logger       *zap.Logger
}

// NewEngine builds the gin engine: global middleware, /health and the
// /api/v1 routes. Everything under /api/v1 except the token endpoints and
// archived downloads requires a bearer token.
func NewEngine(cfg Config, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", h.System.Health)

	login := []gin.HandlerFunc{h.Auth.Login}
	if cfg.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(cfg.LoginLimiter)}, login...)
	}

	public := NewDomainGroup("public", "").
		POST("/auth/token", login...).
		POST("/auth/refresh", h.Auth.Refresh).
		GET("/exports/:key", h.Export.Download)

	protected := NewDomainGroup("catalog", "").
		Use(middleware.JWTAuth(cfg.JWT)).
		POST("/auth/logout", h.Auth.Logout).
		GET("/products/", h.Product.List).
		GET("/products/:id/suggestions", h.Product.Suggestions).
		POST("/create-manual-connection/", h.Product.CreateManualConnection).
		POST("/refresh-connections/", h.Product.RefreshConnections).
		GET("/accounts/", h.Account.List).
		DELETE("/accounts/:id", h.Account.Delete).
		POST("/accounts/:id/products/sync", h.Product.Sync).
		POST("/create-account/", h.Account.Create).
		GET("/marketplace-types/", h.Account.PlatformTypes).
		GET("/platform-auth-fields/:platform_type/", h.Account.AuthFields).
		POST("/export-report/", h.Export.Export).
		GET("/order-items/", h.Order.List).
		GET("/get-orders-counts/", h.Order.Counts)

	NewRouter(engine).Register(public).Register(protected).Setup()
	return engine
}
