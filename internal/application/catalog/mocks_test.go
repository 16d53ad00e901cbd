package catalog

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, userID int64, ids []int64) ([]catalog.Product, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindPage(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByAccount(ctx context.Context, accountID int64) ([]catalog.Product, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByUser(ctx context.Context, userID int64, warehouse bool) ([]catalog.Product, error) {
	args := m.Called(ctx, userID, warehouse)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) SaveConnections(ctx context.Context, products []catalog.Product) error {
	return m.Called(ctx, products).Error(0)
}

func (m *MockProductRepository) ApplySync(ctx context.Context, plan catalog.SyncPlan) error {
	return m.Called(ctx, plan).Error(0)
}

// MockAccountRepository is a mock implementation of catalog.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id int64) (*catalog.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByUser(ctx context.Context, userID int64, includeWarehouse bool) ([]catalog.Account, error) {
	args := m.Called(ctx, userID, includeWarehouse)
	return args.Get(0).([]catalog.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Account, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *catalog.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockPlatformRepository is a mock implementation of catalog.PlatformRepository
type MockPlatformRepository struct {
	mock.Mock
}

func (m *MockPlatformRepository) FindAll(ctx context.Context) ([]catalog.Platform, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Platform), args.Error(1)
}

func (m *MockPlatformRepository) FindByType(ctx context.Context, t catalog.PlatformType) (*catalog.Platform, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Platform), args.Error(1)
}

func (m *MockPlatformRepository) Save(ctx context.Context, platform *catalog.Platform) error {
	return m.Called(ctx, platform).Error(0)
}

// MockOrderItemRepository is a mock implementation of catalog.OrderItemRepository
type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) FindPage(ctx context.Context, filter catalog.OrderItemFilter) ([]catalog.OrderItemView, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.OrderItemView), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderItemRepository) Counts(ctx context.Context, userID int64, now time.Time) (catalog.OrdersCounts, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(catalog.OrdersCounts), args.Error(1)
}

// recordingPublisher keeps published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func product(id int64, t catalog.PlatformType, name, barcode string) catalog.Product {
	return catalog.Product{
		BaseEntity:   shared.BaseEntity{ID: id},
		AccountID:    int64(t) + 100,
		PlatformType: t,
		Name:         name,
		Barcode:      barcode,
	}
}

func connected(p catalog.Product, warehouseID int64) catalog.Product {
	p.ConnectionID = &warehouseID
	return p
}
