// Package reconcile wires the filter and selection engine to the catalog API:
// result coordination, the connections session and the orders board.
package reconcile

import (
	"context"
	"slices"
	"sync"

	domain "github.com/erp/reconciler/internal/domain/reconcile"
	"go.uber.org/zap"
)

// State is the lifecycle state of a ResultCoordinator.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// FetchFunc loads one result collection for a query.
type FetchFunc[T any] func(ctx context.Context, q domain.QueryDescriptor) ([]T, error)

// CoordinatorOption configures a ResultCoordinator.
type CoordinatorOption[T any] func(*ResultCoordinator[T])

// WithReplaceHook registers a callback run after the visible rows have been
// replaced, under the coordinator lock.
func WithReplaceHook[T any](fn func(rows []T)) CoordinatorOption[T] {
	return func(c *ResultCoordinator[T]) {
		c.onReplace = fn
	}
}

// WithStateObserver registers a callback for every state transition.
func WithStateObserver[T any](fn func(from, to State)) CoordinatorOption[T] {
	return func(c *ResultCoordinator[T]) {
		c.onTransition = fn
	}
}

// WithLastCompletedWins disables the sequence guard so that whichever
// response arrives last overwrites the rows.
func WithLastCompletedWins[T any]() CoordinatorOption[T] {
	return func(c *ResultCoordinator[T]) {
		c.sequenceGuard = false
	}
}

// ResultCoordinator issues queries, replaces the visible collection on success
// and keeps the previous one on failure.
//
// Each Refresh is stamped with an increasing sequence number. With the guard
// enabled (the default) a response older than the last settled one, applied
// or failed, is dropped, so a slow early request cannot overwrite a newer
// result or clear a newer error.
type ResultCoordinator[T any] struct {
	mu            sync.Mutex
	name          string
	fetch         FetchFunc[T]
	logger        *zap.Logger
	onReplace     func(rows []T)
	onTransition  func(from, to State)
	sequenceGuard bool

	state    State
	rows     []T
	lastErr  error
	lastQ    domain.QueryDescriptor
	issued   uint64
	settled  uint64
	inFlight int
}

// NewResultCoordinator creates a coordinator named for logging purposes.
func NewResultCoordinator[T any](name string, fetch FetchFunc[T], logger *zap.Logger, opts ...CoordinatorOption[T]) *ResultCoordinator[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ResultCoordinator[T]{
		name:          name,
		fetch:         fetch,
		logger:        logger.With(zap.String("collection", name)),
		sequenceGuard: true,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh runs one query. On success the visible rows are replaced and the
// replace hook runs; on failure the rows are kept, the coordinator passes
// through StateError and the error is returned.
func (c *ResultCoordinator[T]) Refresh(ctx context.Context, q domain.QueryDescriptor) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.inFlight++
	c.transition(StateLoading)
	c.mu.Unlock()

	c.logger.Debug("Fetching collection",
		zap.Uint64("seq", seq),
		zap.String("query", q.Encode()),
	)

	rows, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--

	if c.sequenceGuard && seq < c.settled {
		c.logger.Info("Discarding stale response",
			zap.Uint64("seq", seq),
			zap.Uint64("settled", c.settled),
			zap.Bool("failed", err != nil),
		)
		c.settle()
		return err
	}

	c.settled = seq
	if err != nil {
		c.lastErr = err
		c.transition(StateError)
		c.logger.Error("Failed to refresh collection",
			zap.Uint64("seq", seq),
			zap.String("query", q.Encode()),
			zap.Error(err),
		)
		c.settle()
		return err
	}

	c.rows = rows
	c.lastQ = q
	c.lastErr = nil
	if c.onReplace != nil {
		c.onReplace(slices.Clone(rows))
	}
	c.logger.Debug("Collection replaced",
		zap.Uint64("seq", seq),
		zap.Int("rows", len(rows)),
	)
	c.settle()
	return nil
}

// Rows returns a copy of the visible collection.
func (c *ResultCoordinator[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.rows)
}

// State returns the current lifecycle state.
func (c *ResultCoordinator[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error of the last failed refresh, cleared by the next
// successful one.
func (c *ResultCoordinator[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// LastQuery returns the query of the currently displayed rows.
func (c *ResultCoordinator[T]) LastQuery() domain.QueryDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastQ
}

// settle leaves the transient states once nothing is in flight.
func (c *ResultCoordinator[T]) settle() {
	if c.inFlight > 0 {
		c.transition(StateLoading)
		return
	}
	c.transition(StateIdle)
}

func (c *ResultCoordinator[T]) transition(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}
