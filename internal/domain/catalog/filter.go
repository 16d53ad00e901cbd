package catalog

import (
	"time"

	"github.com/erp/reconciler/internal/domain/shared"
)

// ProductFilter selects a page of a user's products.
type ProductFilter struct {
	UserID int64
	// Connected is nil for any product, false for products without a
	// connection and true for connected ones.
	Connected *bool
	// OnlyNoConnections keeps products that are not manually connected and
	// whose barcode no automatically connected product shares.
	OnlyNoConnections bool
	PlatformTypes     []PlatformType
	AccountIDs        []int64
	// Search is matched against the folded name and brand.
	Search string
	Sort   RowSort
	Paging shared.Paging
}

// OrderItemFilter selects a page of a user's order items.
type OrderItemFilter struct {
	UserID        int64
	Type          OrdersType
	PlatformTypes []PlatformType
	AccountIDs    []int64
	Search        string
	Sort          OrderSort
	Paging        shared.Paging
	// Now anchors the "today" tab
	Now time.Time
}
