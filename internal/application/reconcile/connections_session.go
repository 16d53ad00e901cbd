package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	domain "github.com/erp/reconciler/internal/domain/reconcile"
	"go.uber.org/zap"
)

// ErrNothingToExport is returned by Export when no identifier is queued.
var ErrNothingToExport = errors.New("reconcile: export selection is empty")

// ConnectionsSession is one operator session on the connections view. It owns
// the filter state, the selection and the product coordinator. Every filter
// intent produces exactly one fetch from the translated query.
type ConnectionsSession struct {
	api    domain.CatalogAPI
	logger *zap.Logger

	filterMu sync.Mutex
	filter   domain.FilterState

	// selMu is always taken after the coordinator lock, never before.
	selMu     sync.Mutex
	selection *domain.SelectionSet

	products *ResultCoordinator[domain.Product]
}

// SessionOption configures a ConnectionsSession.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	lastCompletedWins bool
	observer          func(from, to State)
}

// WithoutSequenceGuard lets the last completed response win.
func WithoutSequenceGuard() SessionOption {
	return func(o *sessionOptions) { o.lastCompletedWins = true }
}

// WithTransitions observes coordinator state transitions.
func WithTransitions(fn func(from, to State)) SessionOption {
	return func(o *sessionOptions) { o.observer = fn }
}

// NewConnectionsSession creates a session with the default filter and an
// empty selection. Nothing is fetched until Load.
func NewConnectionsSession(api domain.CatalogAPI, logger *zap.Logger, opts ...SessionOption) *ConnectionsSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &ConnectionsSession{
		api:       api,
		logger:    logger,
		filter:    domain.NewFilterState(),
		selection: domain.NewSelectionSet(),
	}

	coordOpts := []CoordinatorOption[domain.Product]{
		WithReplaceHook(s.reindex),
	}
	if o.lastCompletedWins {
		coordOpts = append(coordOpts, WithLastCompletedWins[domain.Product]())
	}
	if o.observer != nil {
		coordOpts = append(coordOpts, WithStateObserver[domain.Product](o.observer))
	}
	s.products = NewResultCoordinator(domain.CollectionProducts, api.ListProducts, logger, coordOpts...)
	return s
}

// Filter returns the current filter state.
func (s *ConnectionsSession) Filter() domain.FilterState {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()
	return s.filter
}

// Query returns the translated query of the current filter.
func (s *ConnectionsSession) Query() domain.QueryDescriptor {
	return domain.ProductsQuery(s.Filter())
}

// Rows returns the visible rows.
func (s *ConnectionsSession) Rows() []domain.Product {
	return s.products.Rows()
}

// State returns the coordinator state.
func (s *ConnectionsSession) State() State {
	return s.products.State()
}

// LastError returns the error indicator of the view.
func (s *ConnectionsSession) LastError() error {
	return s.products.LastError()
}

// Load fetches the rows for the current filter.
func (s *ConnectionsSession) Load(ctx context.Context) error {
	return s.products.Refresh(ctx, s.Query())
}

// SetLinkType switches between all, linked and unlinked rows.
func (s *ConnectionsSession) SetLinkType(ctx context.Context, t domain.LinkType) error {
	return s.apply(ctx, func(f domain.FilterState) (domain.FilterState, error) {
		return f.WithLinkType(t)
	})
}

// SetUnlinkedSubtype narrows the unlinked view. Selecting a subtype switches
// the link type to unlinked first.
func (s *ConnectionsSession) SetUnlinkedSubtype(ctx context.Context, sub domain.UnlinkedSubtype) error {
	return s.apply(ctx, func(f domain.FilterState) (domain.FilterState, error) {
		if sub != domain.SubtypeNone {
			next, err := f.WithLinkType(domain.LinkUnlinked)
			if err != nil {
				return f, err
			}
			f = next
		}
		return f.WithUnlinkedSubtype(sub)
	})
}

// TogglePlatform adds or removes a platform from the filter.
func (s *ConnectionsSession) TogglePlatform(ctx context.Context, id int) error {
	return s.apply(ctx, func(f domain.FilterState) (domain.FilterState, error) {
		return f.TogglePlatform(id), nil
	})
}

// ToggleAccount adds or removes an account from the filter.
func (s *ConnectionsSession) ToggleAccount(ctx context.Context, id int) error {
	return s.apply(ctx, func(f domain.FilterState) (domain.FilterState, error) {
		return f.ToggleAccount(id), nil
	})
}

// SetSort sorts by a column, flipping direction on repeated calls.
func (s *ConnectionsSession) SetSort(ctx context.Context, key domain.SortKey) error {
	return s.apply(ctx, func(f domain.FilterState) (domain.FilterState, error) {
		return f.WithSort(key)
	})
}

// SetSearchText replaces the search text.
func (s *ConnectionsSession) SetSearchText(ctx context.Context, text string) error {
	return s.apply(ctx, func(f domain.FilterState) (domain.FilterState, error) {
		return f.WithSearchText(text), nil
	})
}

// apply commits a filter transition and refreshes. A rejected transition
// leaves the state as it was and fetches nothing.
func (s *ConnectionsSession) apply(ctx context.Context, transition func(domain.FilterState) (domain.FilterState, error)) error {
	s.filterMu.Lock()
	next, err := transition(s.filter)
	if err != nil {
		s.filterMu.Unlock()
		s.logger.Warn("Rejected filter change", zap.Error(err))
		return err
	}
	s.filter = next
	q := domain.ProductsQuery(next)
	s.filterMu.Unlock()

	return s.products.Refresh(ctx, q)
}

// reindex runs under the coordinator lock after rows are replaced.
func (s *ConnectionsSession) reindex(rows []domain.Product) {
	s.selMu.Lock()
	broken := s.selection.Reindex(rows)
	s.selMu.Unlock()

	for _, e := range broken {
		s.logger.Warn("Row without identifiers skipped from selection",
			zap.Int("index", e.Index),
			zap.Error(e),
		)
	}
}

// ToggleID flips one identifier.
func (s *ConnectionsSession) ToggleID(id domain.ID) bool {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	return s.selection.Toggle(id)
}

// ToggleRow flips every identifier of a row together.
func (s *ConnectionsSession) ToggleRow(p domain.Product) (bool, error) {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	checked, err := s.selection.ToggleRow(p)
	if err != nil {
		s.logger.Warn("Cannot select row", zap.Error(err))
	}
	return checked, err
}

// ToggleAll is the master checkbox over the visible rows.
func (s *ConnectionsSession) ToggleAll() bool {
	ids := s.visibleIDs()
	s.selMu.Lock()
	defer s.selMu.Unlock()
	return s.selection.ToggleAll(ids)
}

// IsRowChecked reports the checkbox state of a row.
func (s *ConnectionsSession) IsRowChecked(p domain.Product) bool {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	return s.selection.IsRowChecked(p)
}

// IsMasterChecked reports the master checkbox state.
func (s *ConnectionsSession) IsMasterChecked() bool {
	ids := s.visibleIDs()
	s.selMu.Lock()
	defer s.selMu.Unlock()
	return s.selection.IsMasterChecked(ids)
}

// Selected returns the identifiers queued for export.
func (s *ConnectionsSession) Selected() []domain.ID {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	return s.selection.Export()
}

// DeselectAll clears the selection and the export queue.
func (s *ConnectionsSession) DeselectAll() {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	s.selection.DeselectAll()
}

// Export submits the queued identifiers and returns the workbook stream. The
// caller closes it.
func (s *ConnectionsSession) Export(ctx context.Context) (io.ReadCloser, error) {
	ids := s.Selected()
	if len(ids) == 0 {
		return nil, ErrNothingToExport
	}
	body, err := s.api.ExportReport(ctx, ids)
	if err != nil {
		s.logger.Error("Export failed", zap.Int("products", len(ids)), zap.Error(err))
		return nil, fmt.Errorf("export %d products: %w", len(ids), err)
	}
	s.logger.Info("Export requested", zap.Int("products", len(ids)))
	return body, nil
}

// LinkManually connects a marketplace listing to a warehouse item and reloads.
func (s *ConnectionsSession) LinkManually(ctx context.Context, marketplaceID, warehouseID domain.ID) error {
	if err := s.api.CreateManualConnection(ctx, marketplaceID, warehouseID); err != nil {
		s.logger.Error("Manual connection failed",
			zap.Int64("marketplace_id", int64(marketplaceID)),
			zap.Int64("warehouse_id", int64(warehouseID)),
			zap.Error(err),
		)
		return err
	}
	return s.Load(ctx)
}

// RefreshConnections asks the backend to relink by barcode and reloads.
func (s *ConnectionsSession) RefreshConnections(ctx context.Context) error {
	if err := s.api.RefreshConnections(ctx); err != nil {
		s.logger.Error("Connection refresh failed", zap.Error(err))
		return err
	}
	return s.Load(ctx)
}

// Accounts lists the accounts available as filter options.
func (s *ConnectionsSession) Accounts(ctx context.Context) ([]domain.Account, error) {
	return s.api.ListAccounts(ctx)
}

// PlatformTypes lists platform labels indexed by platform id.
func (s *ConnectionsSession) PlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error) {
	return s.api.ListPlatformTypes(ctx, withWarehouse)
}

func (s *ConnectionsSession) visibleIDs() []domain.ID {
	ids, _ := domain.VisibleIDs(s.products.Rows())
	return ids
}
