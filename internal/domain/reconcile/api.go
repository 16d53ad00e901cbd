package reconcile

import (
	"context"
	"io"
)

// CatalogAPI is the catalog backend as seen by the filter and selection
// engine. List calls take the descriptors built by ProductsQuery and
// OrdersQuery. Failures are reported as *NetworkError.
type CatalogAPI interface {
	ListProducts(ctx context.Context, q QueryDescriptor) ([]Product, error)
	ListOrderItems(ctx context.Context, q QueryDescriptor) ([]OrderItem, error)
	GetOrdersCounts(ctx context.Context) (OrdersCounts, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	// ListPlatformTypes returns platform labels; the index is the platform id.
	ListPlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error)
	// ExportReport submits the queued identifiers and streams back the workbook.
	ExportReport(ctx context.Context, ids []ID) (io.ReadCloser, error)
	CreateManualConnection(ctx context.Context, marketplaceID, warehouseID ID) error
	RefreshConnections(ctx context.Context) error
}
