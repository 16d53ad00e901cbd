package reconcile

import (
	"context"
	"sync"

	domain "github.com/erp/reconciler/internal/domain/reconcile"
	"go.uber.org/zap"
)

// OrdersBoard is the read-only orders view: a tabbed, filterable list of order
// items plus the per-tab counters.
type OrdersBoard struct {
	api    domain.CatalogAPI
	logger *zap.Logger

	mu     sync.Mutex
	filter domain.OrderFilterState
	counts domain.OrdersCounts

	items *ResultCoordinator[domain.OrderItem]
}

// NewOrdersBoard creates a board on the all tab.
func NewOrdersBoard(api domain.CatalogAPI, logger *zap.Logger) *OrdersBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersBoard{
		api:    api,
		logger: logger,
		filter: domain.NewOrderFilterState(),
		items:  NewResultCoordinator(domain.CollectionOrderItems, api.ListOrderItems, logger),
	}
}

// Filter returns the current orders filter.
func (b *OrdersBoard) Filter() domain.OrderFilterState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Items returns the visible order items.
func (b *OrdersBoard) Items() []domain.OrderItem {
	return b.items.Rows()
}

// State returns the list state.
func (b *OrdersBoard) State() State {
	return b.items.State()
}

// LastError returns the error of the last failed list refresh.
func (b *OrdersBoard) LastError() error {
	return b.items.LastError()
}

// Counts returns the last loaded counters.
func (b *OrdersBoard) Counts() domain.OrdersCounts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Load refreshes the counters and the list. A counters failure is logged and
// the previous counters stay on screen; the list error is returned.
func (b *OrdersBoard) Load(ctx context.Context) error {
	if err := b.RefreshCounts(ctx); err != nil {
		b.logger.Warn("Keeping previous order counters", zap.Error(err))
	}
	return b.items.Refresh(ctx, domain.OrdersQuery(b.Filter()))
}

// RefreshCounts reloads the per-tab counters.
func (b *OrdersBoard) RefreshCounts(ctx context.Context) error {
	counts, err := b.api.GetOrdersCounts(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.counts = counts
	b.mu.Unlock()
	return nil
}

// SetTab switches the tab.
func (b *OrdersBoard) SetTab(ctx context.Context, tab domain.OrdersTab) error {
	return b.apply(ctx, func(f domain.OrderFilterState) (domain.OrderFilterState, error) {
		return f.WithTab(tab)
	})
}

// TogglePlatform adds or removes a platform from the filter.
func (b *OrdersBoard) TogglePlatform(ctx context.Context, id int) error {
	return b.apply(ctx, func(f domain.OrderFilterState) (domain.OrderFilterState, error) {
		return f.TogglePlatform(id), nil
	})
}

// ToggleAccount adds or removes an account from the filter.
func (b *OrdersBoard) ToggleAccount(ctx context.Context, id int) error {
	return b.apply(ctx, func(f domain.OrderFilterState) (domain.OrderFilterState, error) {
		return f.ToggleAccount(id), nil
	})
}

// SetSort sorts by an orders column, flipping on repeated calls.
func (b *OrdersBoard) SetSort(ctx context.Context, key domain.OrdersSortKey) error {
	return b.apply(ctx, func(f domain.OrderFilterState) (domain.OrderFilterState, error) {
		return f.WithSort(key)
	})
}

// SetSearchText replaces the search text.
func (b *OrdersBoard) SetSearchText(ctx context.Context, text string) error {
	return b.apply(ctx, func(f domain.OrderFilterState) (domain.OrderFilterState, error) {
		return f.WithSearchText(text), nil
	})
}

func (b *OrdersBoard) apply(ctx context.Context, transition func(domain.OrderFilterState) (domain.OrderFilterState, error)) error {
	b.mu.Lock()
	next, err := transition(b.filter)
	if err != nil {
		b.mu.Unlock()
		b.logger.Warn("Rejected orders filter change", zap.Error(err))
		return err
	}
	b.filter = next
	b.mu.Unlock()

	return b.items.Refresh(ctx, domain.OrdersQuery(next))
}
