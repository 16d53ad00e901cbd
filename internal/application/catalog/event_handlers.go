package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
	"github.com/erp/reconciler/internal/infrastructure/cache"
)

// CountsInvalidationHandler drops a user's cached orders counters when a
// feed sync deleted products, and with them order items.
type CountsInvalidationHandler struct {
	cache  cache.Store
	logger *zap.Logger
}

// NewCountsInvalidationHandler creates a CountsInvalidationHandler
func NewCountsInvalidationHandler(store cache.Store, logger *zap.Logger) *CountsInvalidationHandler {
	return &CountsInvalidationHandler{cache: store, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CountsInvalidationHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductsSynced}
}

// Handle processes a ProductsSyncedEvent
func (h *CountsInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	synced, ok := event.(*catalog.ProductsSyncedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeProductsSynced),
			zap.String("actual", event.EventType()))
		return nil
	}
	if synced.Deleted == 0 {
		return nil
	}
	return h.cache.Delete(ctx, OrdersCountsKey(synced.UserID(), synced.OccurredAt()))
}

// AuditLogHandler writes every catalog change to the log
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes returns the event types this handler is interested in
func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeConnectionCreated,
		catalog.EventTypeConnectionsRefreshed,
		catalog.EventTypeProductsSynced,
	}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.Int64("user_id", event.UserID()),
		zap.Int64("aggregate_id", event.AggregateID()),
	}
	switch e := event.(type) {
	case *catalog.ConnectionCreatedEvent:
		fields = append(fields, zap.Int64("warehouse_product_id", e.WarehouseProductID))
	case *catalog.ConnectionsRefreshedEvent:
		fields = append(fields, zap.Int("changed", e.Changed))
	case *catalog.ProductsSyncedEvent:
		fields = append(fields,
			zap.Int("created", e.Created),
			zap.Int("updated", e.Updated),
			zap.Int("deleted", e.Deleted))
	}
	h.logger.Info("catalog changed", fields...)
	return nil
}
