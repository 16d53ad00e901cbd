package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
	"github.com/erp/reconciler/internal/infrastructure/cache"
)

const defaultCountsTTL = 30 * time.Second

// OrderService reads the orders board
type OrderService struct {
	orderItemRepo catalog.OrderItemRepository
	cache         cache.Store
	countsTTL     time.Duration
	serviceOptions
}

// NewOrderService creates a new OrderService. Counters are cached for
// countsTTL; zero uses the default.
func NewOrderService(orderItemRepo catalog.OrderItemRepository, store cache.Store, countsTTL time.Duration, opts ...Option) *OrderService {
	if countsTTL <= 0 {
		countsTTL = defaultCountsTTL
	}
	return &OrderService{
		orderItemRepo:  orderItemRepo,
		cache:          store,
		countsTTL:      countsTTL,
		serviceOptions: newServiceOptions(opts),
	}
}

// ListOrderItems returns one page of the board
func (s *OrderService) ListOrderItems(ctx context.Context, filter catalog.OrderItemFilter) (shared.Page[OrderItemResponse], error) {
	if filter.Now.IsZero() {
		filter.Now = s.now()
	}
	items, total, err := s.orderItemRepo.FindPage(ctx, filter)
	if err != nil {
		return shared.Page[OrderItemResponse]{}, err
	}
	out := make([]OrderItemResponse, len(items))
	for i, v := range items {
		out[i] = toOrderItemResponse(v)
	}
	return shared.NewPage(out, total), nil
}

// Counts returns the number of items under each tab. Values may be up to the
// cache TTL old.
func (s *OrderService) Counts(ctx context.Context, userID int64) (catalog.OrdersCounts, error) {
	now := s.now()
	key := OrdersCountsKey(userID, now)
	if counts, found, err := cache.GetJSON[catalog.OrdersCounts](ctx, s.cache, key); err != nil {
		s.logger.Warn("orders counts cache read failed", zap.Error(err))
	} else if found {
		return counts, nil
	}

	counts, err := s.orderItemRepo.Counts(ctx, userID, now)
	if err != nil {
		return catalog.OrdersCounts{}, err
	}
	if err := cache.SetJSON(ctx, s.cache, key, counts, s.countsTTL); err != nil {
		s.logger.Warn("orders counts cache write failed", zap.Error(err))
	}
	return counts, nil
}

// OrdersCountsKey is the cache key of a user's counters on the day of now
func OrdersCountsKey(userID int64, now time.Time) string {
	return fmt.Sprintf("orders:counts:%d:%s", userID, now.Format(dateLayout))
}
