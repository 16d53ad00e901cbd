package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	identityapp "github.com/erp/reconciler/internal/application/identity"
	"github.com/erp/reconciler/internal/infrastructure/auth"
	"github.com/erp/reconciler/internal/infrastructure/cache"
	"github.com/erp/reconciler/internal/infrastructure/config"
	"github.com/erp/reconciler/internal/infrastructure/event"
	"github.com/erp/reconciler/internal/infrastructure/export"
	"github.com/erp/reconciler/internal/infrastructure/logger"
	"github.com/erp/reconciler/internal/infrastructure/persistence"
	"github.com/erp/reconciler/internal/infrastructure/scheduler"
	"github.com/erp/reconciler/internal/infrastructure/storage"
	"github.com/erp/reconciler/internal/interfaces/http/handler"
	"github.com/erp/reconciler/internal/interfaces/http/middleware"
	"github.com/erp/reconciler/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	var (
		registerEmail    string
		registerPassword string
		registerStaff    bool
	)
	flag.StringVar(&registerEmail, "register-user", "", "Create a user with this email and exit")
	flag.StringVar(&registerPassword, "password", "", "Password of the user created with -register-user")
	flag.BoolVar(&registerStaff, "staff", false, "Mark the user created with -register-user as staff")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting reconciler",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log.Named("gorm"), cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	platformRepo := persistence.NewGormPlatformRepository(db.DB)
	orderItemRepo := persistence.NewGormOrderItemRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()
	if err := persistence.EnsureAll(startupCtx, platformRepo); err != nil {
		log.Fatal("Failed to seed platforms", zap.Error(err))
	}

	store, err := cache.NewStore(cfg.Redis, cache.WithLogger(log.Named("cache")))
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewTokenBlacklist(store)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, auth.NewBcryptHasher(), log.Named("auth"))

	if registerEmail != "" {
		user, err := authService.Register(startupCtx, identityapp.RegisterInput{
			Email:    registerEmail,
			Password: registerPassword,
			IsStaff:  registerStaff,
		})
		if err != nil {
			log.Fatal("Failed to register user", zap.String("email", registerEmail), zap.Error(err))
		}
		fmt.Printf("created user %d (%s)\n", user.ID, user.Email)
		return
	}

	// Domain events
	eventBus := event.NewInMemoryEventBus(log.Named("events"))
	eventBus.Subscribe(catalogapp.NewCountsInvalidationHandler(store, log))
	eventBus.Subscribe(catalogapp.NewAuditLogHandler(log))
	if err := eventBus.Start(startupCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	serviceOpts := []catalogapp.Option{
		catalogapp.WithLogger(log),
		catalogapp.WithEventPublisher(eventBus),
	}

	archive, memoryArchive := newArchive(startupCtx, cfg, log)

	productService := catalogapp.NewProductService(productRepo, accountRepo, serviceOpts...)
	accountService := catalogapp.NewAccountService(accountRepo, platformRepo, store, cfg.Redis.LabelsTTL, serviceOpts...)
	orderService := catalogapp.NewOrderService(orderItemRepo, store, cfg.Redis.OrdersCountsTTL, serviceOpts...)
	exportService := catalogapp.NewExportService(productRepo, export.NewXLSXWriter(), archive,
		cfg.Storage.PresignExpiration, serviceOpts...)

	var refreshScheduler *scheduler.RefreshScheduler
	if cfg.Scheduler.Enabled {
		refreshScheduler, err = scheduler.NewRefreshScheduler(cfg.Scheduler, productService, userRepo, store, log)
		if err != nil {
			log.Fatal("Failed to create refresh scheduler", zap.Error(err))
		}
		if err := refreshScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start refresh scheduler", zap.Error(err))
		}
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var archiveReader handler.ArchiveReader
	if memoryArchive != nil {
		archiveReader = memoryArchive
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORS.AllowOrigins
	cors.AllowMethods = cfg.CORS.AllowMethods
	cors.AllowHeaders = cfg.CORS.AllowHeaders

	engine := router.NewEngine(router.Config{
		JWT: middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			Logger:     log,
		},
		CORS:         cors,
		MaxBodySize:  cfg.HTTP.MaxBodySize,
		LoginLimiter: middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow),
		Logger:       log,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Account: handler.NewAccountHandler(accountService),
		Order:   handler.NewOrderHandler(orderService),
		Export:  handler.NewExportHandler(exportService, archiveReader),
		System:  handler.NewSystemHandler(cfg.App.Name, version, healthChecks(db, store)),
	})
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(ctx); err != nil {
			log.Warn("Refresh scheduler did not stop cleanly", zap.Error(err))
		}
	}
	_ = eventBus.Stop(ctx)

	log.Info("Server exited gracefully")
}

// newArchive picks where exported reports are kept. A configured bucket uses
// S3; otherwise reports stay in memory and are served by the API itself. The
// second return value is non-nil only for the in-memory archive.
func newArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ExportArchive, *storage.MemoryArchive) {
	if cfg.Storage.Bucket == "" {
		mem := storage.NewMemoryArchive(fmt.Sprintf("http://localhost:%s/api/v1/exports", cfg.App.Port))
		log.Info("Export archive kept in memory")
		return mem, mem
	}

	s3Archive, err := storage.NewS3Archive(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create export archive", zap.Error(err))
	}
	if err := s3Archive.EnsureBucket(ctx); err != nil {
		log.Fatal("Export bucket unavailable", zap.String("bucket", s3Archive.Bucket()), zap.Error(err))
	}
	log.Info("Export archive in S3", zap.String("bucket", s3Archive.Bucket()))
	return s3Archive, nil
}

func healthChecks(db *persistence.Database, store cache.Store) map[string]handler.HealthCheck {
	return map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"cache": func(ctx context.Context) error {
			_, _, err := store.Get(ctx, "health:ping")
			return err
		},
	}
}
