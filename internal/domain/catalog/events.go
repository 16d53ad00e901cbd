package catalog

import "github.com/erp/reconciler/internal/domain/shared"

// Catalog event types
const (
	EventTypeConnectionCreated    = "ConnectionCreated"
	EventTypeConnectionsRefreshed = "ConnectionsRefreshed"
	EventTypeProductsSynced       = "ProductsSynced"
)

// AggregateTypeProduct is the aggregate type of catalog events
const AggregateTypeProduct = "Product"

// ConnectionCreatedEvent is raised when a user links two products by hand
type ConnectionCreatedEvent struct {
	shared.BaseDomainEvent
	MarketplaceProductID int64 `json:"marketplace_product_id"`
	WarehouseProductID   int64 `json:"warehouse_product_id"`
}

// NewConnectionCreatedEvent creates a ConnectionCreatedEvent
func NewConnectionCreatedEvent(userID int64, marketplace, warehouse *Product) *ConnectionCreatedEvent {
	return &ConnectionCreatedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(EventTypeConnectionCreated, AggregateTypeProduct, marketplace.ID, userID),
		MarketplaceProductID: marketplace.ID,
		WarehouseProductID:   warehouse.ID,
	}
}

// ConnectionsRefreshedEvent is raised after automatic connections were
// recomputed for a user.
type ConnectionsRefreshedEvent struct {
	shared.BaseDomainEvent
	Changed int `json:"changed"`
}

// NewConnectionsRefreshedEvent creates a ConnectionsRefreshedEvent
func NewConnectionsRefreshedEvent(userID int64, changed int) *ConnectionsRefreshedEvent {
	return &ConnectionsRefreshedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConnectionsRefreshed, AggregateTypeProduct, 0, userID),
		Changed:         changed,
	}
}

// ProductsSyncedEvent is raised after an account's products were synced with
// its platform feed. Deleted products take their order items with them.
type ProductsSyncedEvent struct {
	shared.BaseDomainEvent
	AccountID int64 `json:"account_id"`
	Created   int   `json:"created"`
	Updated   int   `json:"updated"`
	Deleted   int   `json:"deleted"`
}

// NewProductsSyncedEvent creates a ProductsSyncedEvent from an applied plan
func NewProductsSyncedEvent(userID int64, account *Account, plan SyncPlan) *ProductsSyncedEvent {
	return &ProductsSyncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductsSynced, AggregateTypeProduct, account.ID, userID),
		AccountID:       account.ID,
		Created:         len(plan.Create),
		Updated:         len(plan.Update),
		Deleted:         len(plan.Delete),
	}
}
