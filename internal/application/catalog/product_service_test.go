package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
)

type productEnv struct {
	products  *MockProductRepository
	accounts  *MockAccountRepository
	publisher *recordingPublisher
	service   *ProductService
}

func newProductEnv() *productEnv {
	env := &productEnv{
		products:  new(MockProductRepository),
		accounts:  new(MockAccountRepository),
		publisher: &recordingPublisher{},
	}
	env.service = NewProductService(env.products, env.accounts, WithEventPublisher(env.publisher))
	return env
}

func rowIDs(rows []ProductRowResponse) [][2]int64 {
	out := make([][2]int64, len(rows))
	for i, r := range rows {
		if r.OtherMarketplace != nil {
			out[i][0] = r.OtherMarketplace.ID
		}
		if r.MoySklad != nil {
			out[i][1] = r.MoySklad.ID
		}
	}
	return out
}

func TestProductService_ListRows(t *testing.T) {
	ctx := context.Background()
	page := []catalog.Product{
		connected(product(1, catalog.PlatformOzon, "Blender", "A"), 10),
		product(2, catalog.PlatformWildberries, "Air fryer", "B"),
		product(11, catalog.PlatformMoySklad, "Zeta", "Z"),
	}
	linked := []catalog.Product{product(10, catalog.PlatformMoySklad, "Blender WH", "A")}

	tests := []struct {
		name string
		sort string
		want [][2]int64
	}{
		{"marketplace ascending", "market", [][2]int64{{0, 11}, {2, 0}, {1, 10}}},
		{"marketplace descending", "-market", [][2]int64{{1, 10}, {2, 0}, {0, 11}}},
		{"warehouse ascending", "moy_sklad", [][2]int64{{2, 0}, {1, 10}, {0, 11}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newProductEnv()
			sort, err := catalog.ParseRowSort(tt.sort)
			require.NoError(t, err)
			filter := catalog.ProductFilter{UserID: 1, Sort: sort, Paging: shared.Paging{Limit: 3}}
			env.products.On("FindPage", ctx, filter).Return(page, int64(40), nil)
			env.products.On("FindByIDs", ctx, int64(1), []int64{10}).Return(linked, nil)

			res, err := env.service.ListRows(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, int64(40), res.Count)
			assert.Equal(t, tt.want, rowIDs(res.Results))
		})
	}

	t.Run("empty page", func(t *testing.T) {
		env := newProductEnv()
		filter := catalog.ProductFilter{UserID: 1}
		env.products.On("FindPage", ctx, filter).Return([]catalog.Product{}, int64(0), nil)

		res, err := env.service.ListRows(ctx, filter)
		require.NoError(t, err)
		assert.NotNil(t, res.Results)
		assert.Empty(t, res.Results)
		env.products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_CreateManualConnection(t *testing.T) {
	ctx := context.Background()
	req := CreateManualConnectionRequest{MarketplaceProductID: 5, WarehouseProductID: 9}

	t.Run("links both sides", func(t *testing.T) {
		env := newProductEnv()
		env.products.On("FindByIDs", ctx, int64(1), []int64{5, 9}).Return([]catalog.Product{
			product(5, catalog.PlatformOzon, "Kettle", "K"),
			product(9, catalog.PlatformMoySklad, "Kettle WH", "K2"),
		}, nil)
		env.products.On("SaveConnections", ctx, mock.MatchedBy(func(ps []catalog.Product) bool {
			return len(ps) == 2 &&
				ps[0].ConnectionID != nil && *ps[0].ConnectionID == 9 &&
				ps[0].HasManualConnection && ps[1].HasManualConnection
		})).Return(nil)

		require.NoError(t, env.service.CreateManualConnection(ctx, 1, req))
		env.products.AssertExpectations(t)
		assert.Equal(t, []string{catalog.EventTypeConnectionCreated}, env.publisher.types())
	})

	t.Run("unknown product", func(t *testing.T) {
		env := newProductEnv()
		env.products.On("FindByIDs", ctx, int64(1), []int64{5, 9}).Return([]catalog.Product{
			product(5, catalog.PlatformOzon, "Kettle", "K"),
		}, nil)

		err := env.service.CreateManualConnection(ctx, 1, req)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		assert.Empty(t, env.publisher.events)
	})

	t.Run("warehouse side must be a warehouse product", func(t *testing.T) {
		env := newProductEnv()
		env.products.On("FindByIDs", ctx, int64(1), []int64{5, 9}).Return([]catalog.Product{
			product(5, catalog.PlatformOzon, "Kettle", "K"),
			product(9, catalog.PlatformWildberries, "Kettle too", "K"),
		}, nil)

		err := env.service.CreateManualConnection(ctx, 1, req)
		assert.ErrorIs(t, err, catalog.ErrNotWarehouseProduct)
		env.products.AssertNotCalled(t, "SaveConnections", mock.Anything, mock.Anything)
	})

	t.Run("self connection", func(t *testing.T) {
		env := newProductEnv()
		err := env.service.CreateManualConnection(ctx, 1, CreateManualConnectionRequest{MarketplaceProductID: 5, WarehouseProductID: 5})
		assert.ErrorIs(t, err, catalog.ErrSelfConnection)
		env.products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_RefreshConnections(t *testing.T) {
	ctx := context.Background()

	manual := connected(product(3, catalog.PlatformOzon, "Manual", "Q"), 20)
	manual.HasManualConnection = true
	marketplace := []catalog.Product{
		product(1, catalog.PlatformOzon, "Matches A", "A"),
		connected(product(2, catalog.PlatformOzon, "Lost B", "B"), 20),
		manual,
		connected(product(4, catalog.PlatformOzon, "Stays C", "C"), 20),
	}
	warehouse := []catalog.Product{
		product(20, catalog.PlatformMoySklad, "C", "C"),
		product(21, catalog.PlatformMoySklad, "A", "A"),
	}

	env := newProductEnv()
	env.products.On("FindByUser", ctx, int64(1), false).Return(marketplace, nil)
	env.products.On("FindByUser", ctx, int64(1), true).Return(warehouse, nil)
	var saved []catalog.Product
	env.products.On("SaveConnections", ctx, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]catalog.Product) }).
		Return(nil)

	res, err := env.service.RefreshConnections(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Changed)
	require.Len(t, saved, 2)
	assert.Equal(t, int64(1), saved[0].ID)
	assert.Equal(t, int64(21), *saved[0].ConnectionID)
	assert.Equal(t, int64(2), saved[1].ID)
	assert.Nil(t, saved[1].ConnectionID)
	assert.Equal(t, []string{catalog.EventTypeConnectionsRefreshed}, env.publisher.types())

	t.Run("nothing to change", func(t *testing.T) {
		env := newProductEnv()
		env.products.On("FindByUser", ctx, int64(1), false).Return([]catalog.Product{marketplace[3]}, nil)
		env.products.On("FindByUser", ctx, int64(1), true).Return(warehouse, nil)

		res, err := env.service.RefreshConnections(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, res.Changed)
		env.products.AssertNotCalled(t, "SaveConnections", mock.Anything, mock.Anything)
	})
}

func TestProductService_SyncAccountProducts(t *testing.T) {
	ctx := context.Background()
	account := &catalog.Account{BaseEntity: shared.BaseEntity{ID: 7}, UserID: 1, PlatformType: catalog.PlatformOzon}

	t.Run("applies the plan and relinks", func(t *testing.T) {
		env := newProductEnv()
		env.accounts.On("FindByID", ctx, int64(7)).Return(account, nil)
		env.products.On("FindByAccount", ctx, int64(7)).Return([]catalog.Product{
			product(1, catalog.PlatformOzon, "Old", "X"),
			product(2, catalog.PlatformOzon, "Kept", "K"),
		}, nil)
		env.products.On("ApplySync", ctx, mock.MatchedBy(func(p catalog.SyncPlan) bool {
			return assert.ObjectsAreEqual([]int64{1}, p.Delete) && len(p.Update) == 1 && len(p.Create) == 1
		})).Return(nil)
		env.products.On("FindByUser", ctx, int64(1), false).Return([]catalog.Product{}, nil)
		env.products.On("FindByUser", ctx, int64(1), true).Return([]catalog.Product{}, nil)

		res, err := env.service.SyncAccountProducts(ctx, 1, 7, []catalog.FeedItem{
			{Name: "Kept renamed", Barcode: "K"},
			{Name: "New", Barcode: "Y"},
		})
		require.NoError(t, err)
		assert.Equal(t, &SyncResult{Created: 1, Updated: 1, Deleted: 1}, res)
		assert.Equal(t, []string{catalog.EventTypeProductsSynced, catalog.EventTypeConnectionsRefreshed}, env.publisher.types())
	})

	t.Run("foreign account", func(t *testing.T) {
		env := newProductEnv()
		env.accounts.On("FindByID", ctx, int64(7)).Return(account, nil)

		_, err := env.service.SyncAccountProducts(ctx, 2, 7, nil)
		assert.ErrorIs(t, err, catalog.ErrForeignAccount)
	})

	t.Run("invalid feed item rejects everything", func(t *testing.T) {
		env := newProductEnv()
		env.accounts.On("FindByID", ctx, int64(7)).Return(account, nil)
		env.products.On("FindByAccount", ctx, int64(7)).Return([]catalog.Product{}, nil)

		_, err := env.service.SyncAccountProducts(ctx, 1, 7, []catalog.FeedItem{{Name: "ok"}, {Name: "  "}})
		assert.Error(t, err)
		env.products.AssertNotCalled(t, "ApplySync", mock.Anything, mock.Anything)
	})
}

func TestProductService_SuggestAnalogues(t *testing.T) {
	ctx := context.Background()
	env := newProductEnv()
	env.products.On("FindByIDs", ctx, int64(1), []int64{5}).Return([]catalog.Product{
		product(5, catalog.PlatformOzon, "Blender X", "111"),
	}, nil)
	env.products.On("FindByUser", ctx, int64(1), true).Return([]catalog.Product{
		product(31, catalog.PlatformMoySklad, "Blender X2", "222"),
		product(32, catalog.PlatformMoySklad, "Toaster", "333"),
		product(33, catalog.PlatformMoySklad, "Something else", "111"),
	}, nil)

	got, err := env.service.SuggestAnalogues(ctx, 1, 5, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(33), got[0].Product.ID)
	assert.Equal(t, int64(31), got[1].Product.ID)
	assert.Equal(t, 1, got[1].Distance)

	t.Run("warehouse products have no analogues", func(t *testing.T) {
		env := newProductEnv()
		env.products.On("FindByIDs", ctx, int64(1), []int64{31}).Return([]catalog.Product{
			product(31, catalog.PlatformMoySklad, "Blender X2", "222"),
		}, nil)
		_, err := env.service.SuggestAnalogues(ctx, 1, 31, 5)
		assert.ErrorIs(t, err, catalog.ErrNotMarketplaceProduct)
	})
}
