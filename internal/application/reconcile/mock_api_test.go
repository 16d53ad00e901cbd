package reconcile

import (
	"context"
	"io"

	domain "github.com/erp/reconciler/internal/domain/reconcile"
	"github.com/stretchr/testify/mock"
)

// MockCatalogAPI is a mock implementation of domain.CatalogAPI
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) ListProducts(ctx context.Context, q domain.QueryDescriptor) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) ListOrderItems(ctx context.Context, q domain.QueryDescriptor) ([]domain.OrderItem, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockCatalogAPI) GetOrdersCounts(ctx context.Context) (domain.OrdersCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.OrdersCounts), args.Error(1)
}

func (m *MockCatalogAPI) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockCatalogAPI) ListPlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error) {
	args := m.Called(ctx, withWarehouse)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogAPI) ExportReport(ctx context.Context, ids []domain.ID) (io.ReadCloser, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockCatalogAPI) CreateManualConnection(ctx context.Context, marketplaceID, warehouseID domain.ID) error {
	args := m.Called(ctx, marketplaceID, warehouseID)
	return args.Error(0)
}

func (m *MockCatalogAPI) RefreshConnections(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// byQuery matches a descriptor by its encoded form.
func byQuery(encoded string) interface{} {
	return mock.MatchedBy(func(q domain.QueryDescriptor) bool {
		return q.Encode() == encoded
	})
}

func product(marketplaceID, warehouseID domain.ID) domain.Product {
	var p domain.Product
	if marketplaceID != 0 {
		p.OtherMarketplace = &domain.Entity{ID: marketplaceID, Name: "listing"}
	}
	if warehouseID != 0 {
		p.MoySklad = &domain.Entity{ID: warehouseID, Name: "item"}
	}
	return p
}
