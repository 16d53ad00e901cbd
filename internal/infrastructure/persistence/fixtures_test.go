package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/infrastructure/persistence/models"
)

// fixture is a migrated in-memory database with helpers to seed it
type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB

	users     *GormUserRepository
	platforms *GormPlatformRepository
	accounts  *GormAccountRepository
	products  *GormProductRepository
	items     *GormOrderItemRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        database.DB,
		users:     NewGormUserRepository(database.DB),
		platforms: NewGormPlatformRepository(database.DB),
		accounts:  NewGormAccountRepository(database.DB),
		products:  NewGormProductRepository(database.DB),
		items:     NewGormOrderItemRepository(database.DB),
	}
	require.NoError(t, EnsureAll(f.ctx, f.platforms))
	return f
}

func (f *fixture) user(email string) *catalog.User {
	f.t.Helper()
	u, err := catalog.NewUser(email, "hash")
	require.NoError(f.t, err)
	require.NoError(f.t, f.users.Save(f.ctx, u))
	return u
}

func (f *fixture) account(userID int64, t catalog.PlatformType, name string) *catalog.Account {
	f.t.Helper()
	p, err := f.platforms.FindByType(f.ctx, t)
	require.NoError(f.t, err)
	a := &catalog.Account{
		UserID:              userID,
		PlatformID:          p.ID,
		PlatformType:        t,
		Name:                name,
		AuthorizationFields: map[string]string{"token": "secret"},
	}
	require.NoError(f.t, f.accounts.Save(f.ctx, a))
	return a
}

func (f *fixture) product(a *catalog.Account, name, barcode string) *catalog.Product {
	f.t.Helper()
	p, err := catalog.NewProduct(a.ID, a.PlatformType, catalog.FeedItem{Name: name, Brand: "Acme", Barcode: barcode})
	require.NoError(f.t, err)
	require.NoError(f.t, f.products.Save(f.ctx, p))
	return p
}

func (f *fixture) connect(p *catalog.Product, warehouseID int64, manual bool) {
	f.t.Helper()
	p.Connect(warehouseID)
	p.HasManualConnection = manual
	require.NoError(f.t, f.products.SaveConnections(f.ctx, []catalog.Product{*p}))
}

func (f *fixture) status(name string, position int) int64 {
	f.t.Helper()
	m := &models.OrderStatusModel{Name: name, Color: "#fff", StatusCode: position, Position: position}
	require.NoError(f.t, f.db.Create(m).Error)
	return m.ID
}

func (f *fixture) order(a *catalog.Account, statusID int64, number string, createdOn time.Time) int64 {
	f.t.Helper()
	m := &models.OrderModel{
		AccountID:  a.ID,
		StatusID:   statusID,
		Number:     number,
		CreatedOn:  createdOn,
		TotalPrice: decimal.NewFromInt(100),
	}
	require.NoError(f.t, f.db.Create(m).Error)
	return m.ID
}

func (f *fixture) item(orderID, productID int64, express bool) int64 {
	f.t.Helper()
	m := &models.OrderItemModel{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  1,
		Price:     decimal.NewFromInt(100),
		IsExpress: express,
	}
	require.NoError(f.t, f.db.Create(m).Error)
	return m.ID
}

func ids(products []catalog.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
