package catalog

import (
	"time"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/domain/shared"
)

type serviceOptions struct {
	logger    *zap.Logger
	publisher shared.EventPublisher
	now       func() time.Time
}

// Option configures a catalog service
type Option func(*serviceOptions)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithEventPublisher publishes catalog events after successful changes
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(o *serviceOptions) {
		o.publisher = p
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

func newServiceOptions(opts []Option) serviceOptions {
	o := serviceOptions{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
