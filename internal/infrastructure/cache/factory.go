package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/infrastructure/config"
)

// sweepInterval is how often the in-memory store drops expired keys
const sweepInterval = time.Minute

// FactoryOption configures NewStore
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// memory. It is allowed by default.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStore returns a Redis store when a host is configured and reachable, an
// in-memory store otherwise.
func NewStore(cfg config.RedisConfig, opts ...FactoryOption) (Store, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if cfg.Host == "" {
		f.logger.Info("Redis not configured, using in-memory cache")
		return NewInMemoryStore(sweepInterval), nil
	}

	store, err := NewRedisStore(cfg)
	if err == nil {
		f.logger.Info("using Redis cache", zap.String("addr", cfg.Addr()))
		return store, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory cache; instances will not share counters",
		zap.Error(err))
	return NewInMemoryStore(sweepInterval), nil
}
