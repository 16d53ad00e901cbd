package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
)

// ProductService serves product rows and maintains product connections
type ProductService struct {
	productRepo catalog.ProductRepository
	accountRepo catalog.AccountRepository
	serviceOptions
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	accountRepo catalog.AccountRepository,
	opts ...Option,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		accountRepo:    accountRepo,
		serviceOptions: newServiceOptions(opts),
	}
}

// ListRows returns one page of paired rows. The page is cut over products,
// then each marketplace product is paired with its connection and sorted by
// the requested side's name.
func (s *ProductService) ListRows(ctx context.Context, filter catalog.ProductFilter) (shared.Page[ProductRowResponse], error) {
	page, total, err := s.productRepo.FindPage(ctx, filter)
	if err != nil {
		return shared.Page[ProductRowResponse]{}, err
	}
	rows, err := pairRows(ctx, s.productRepo, s.logger, filter.UserID, page)
	if err != nil {
		return shared.Page[ProductRowResponse]{}, err
	}
	catalog.SortRows(rows, filter.Sort)
	return shared.NewPage(ToProductRowResponses(rows), total), nil
}

// pairRows builds rows for products, loading the warehouse products they
// point at
func pairRows(
	ctx context.Context,
	repo catalog.ProductRepository,
	logger *zap.Logger,
	userID int64,
	products []catalog.Product,
) ([]catalog.Row, error) {
	connections := make(map[int64]catalog.Product)
	if ids := catalog.ConnectionIDs(products); len(ids) > 0 {
		linked, err := repo.FindByIDs(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range linked {
			connections[p.ID] = p
		}
		if len(linked) != len(ids) {
			logger.Warn("connections point at missing products",
				zap.Int64("user_id", userID),
				zap.Int("wanted", len(ids)),
				zap.Int("found", len(linked)))
		}
	}
	return catalog.BuildRows(products, connections), nil
}

// CreateManualConnection links a marketplace product to a warehouse product.
// Both must belong to the user.
func (s *ProductService) CreateManualConnection(ctx context.Context, userID int64, req CreateManualConnectionRequest) error {
	if req.MarketplaceProductID == req.WarehouseProductID {
		return catalog.ErrSelfConnection
	}
	found, err := s.productRepo.FindByIDs(ctx, userID, []int64{req.MarketplaceProductID, req.WarehouseProductID})
	if err != nil {
		return err
	}
	var marketplace, warehouse *catalog.Product
	for i := range found {
		switch found[i].ID {
		case req.MarketplaceProductID:
			marketplace = &found[i]
		case req.WarehouseProductID:
			warehouse = &found[i]
		}
	}
	if marketplace == nil || warehouse == nil {
		return catalog.ErrProductNotFound
	}

	if err := catalog.ConnectManually(marketplace, warehouse); err != nil {
		return err
	}
	if err := s.productRepo.SaveConnections(ctx, []catalog.Product{*marketplace, *warehouse}); err != nil {
		return err
	}

	s.logger.Info("manual connection created",
		zap.Int64("user_id", userID),
		zap.Int64("marketplace_product_id", marketplace.ID),
		zap.Int64("warehouse_product_id", warehouse.ID))
	s.publish(ctx, catalog.NewConnectionCreatedEvent(userID, marketplace, warehouse))
	return nil
}

// RefreshConnections relinks the user's marketplace products to warehouse
// products by barcode. Manual connections are kept.
func (s *ProductService) RefreshConnections(ctx context.Context, userID int64) (*RefreshResult, error) {
	marketplace, err := s.productRepo.FindByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	warehouse, err := s.productRepo.FindByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	changed := catalog.MatchByBarcode(marketplace, warehouse)
	if len(changed) > 0 {
		if err := s.productRepo.SaveConnections(ctx, changed); err != nil {
			return nil, err
		}
	}

	s.logger.Info("connections refreshed",
		zap.Int64("user_id", userID),
		zap.Int("marketplace_products", len(marketplace)),
		zap.Int("changed", len(changed)))
	s.publish(ctx, catalog.NewConnectionsRefreshedEvent(userID, len(changed)))
	return &RefreshResult{Changed: len(changed)}, nil
}

// SyncAccountProducts brings an account's products in line with a feed and
// then refreshes the user's barcode connections.
func (s *ProductService) SyncAccountProducts(ctx context.Context, userID, accountID int64, feed []catalog.FeedItem) (*SyncResult, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, catalog.ErrForeignAccount
	}

	existing, err := s.productRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	plan, err := catalog.PlanSync(account, existing, feed)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Created: len(plan.Create), Updated: len(plan.Update), Deleted: len(plan.Delete)}
	if plan.IsEmpty() {
		return result, nil
	}
	if err := s.productRepo.ApplySync(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("account products synced",
		zap.Int64("user_id", userID),
		zap.Int64("account_id", accountID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted))
	s.publish(ctx, catalog.NewProductsSyncedEvent(userID, account, plan))

	refreshed, err := s.RefreshConnections(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.Relinked = refreshed.Changed
	return result, nil
}

// SuggestAnalogues ranks the user's warehouse products as connection targets
// for a marketplace product.
func (s *ProductService) SuggestAnalogues(ctx context.Context, userID, productID int64, limit int) ([]AnalogueResponse, error) {
	found, err := s.productRepo.FindByIDs(ctx, userID, []int64{productID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, catalog.ErrProductNotFound
	}
	target := found[0]
	if target.IsWarehouse() {
		return nil, catalog.ErrNotMarketplaceProduct
	}

	warehouse, err := s.productRepo.FindByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	ranked := catalog.RankAnalogues(&target, warehouse, limit)
	out := make([]AnalogueResponse, len(ranked))
	for i, a := range ranked {
		out[i] = AnalogueResponse{Product: *toProductEntity(&a.Product), Distance: a.Distance}
	}
	return out, nil
}

func (s *ProductService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("failed to publish events", zap.Error(err))
	}
}

// RefreshUser runs RefreshConnections for the scheduler
func (s *ProductService) RefreshUser(ctx context.Context, userID int64) (int, error) {
	res, err := s.RefreshConnections(ctx, userID)
	if err != nil {
		return 0, err
	}
	return res.Changed, nil
}
