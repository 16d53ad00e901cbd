package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/erp/reconciler/internal/application/reconcile"
	domain "github.com/erp/reconciler/internal/domain/reconcile"
)

type viewKind int

const (
	viewConnections viewKind = iota
	viewOrders
)

func (v viewKind) String() string {
	if v == viewOrders {
		return "Orders"
	}
	return "Connections"
}

const defaultTimeout = 30 * time.Second

// connections is the part of ConnectionsSession the console drives
type connections interface {
	Filter() domain.FilterState
	Rows() []domain.Product
	State() reconcile.State
	Load(ctx context.Context) error
	SetLinkType(ctx context.Context, t domain.LinkType) error
	SetUnlinkedSubtype(ctx context.Context, sub domain.UnlinkedSubtype) error
	TogglePlatform(ctx context.Context, id int) error
	ToggleAccount(ctx context.Context, id int) error
	SetSort(ctx context.Context, key domain.SortKey) error
	SetSearchText(ctx context.Context, text string) error
	ToggleID(id domain.ID) bool
	ToggleRow(p domain.Product) (bool, error)
	ToggleAll() bool
	IsRowChecked(p domain.Product) bool
	IsMasterChecked() bool
	Selected() []domain.ID
	Export(ctx context.Context) (io.ReadCloser, error)
	RefreshConnections(ctx context.Context) error
	Accounts(ctx context.Context) ([]domain.Account, error)
	PlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error)
}

// ordersBoard is the part of OrdersBoard the console drives
type ordersBoard interface {
	Filter() domain.OrderFilterState
	Items() []domain.OrderItem
	State() reconcile.State
	Counts() domain.OrdersCounts
	Load(ctx context.Context) error
	SetTab(ctx context.Context, tab domain.OrdersTab) error
	TogglePlatform(ctx context.Context, id int) error
	ToggleAccount(ctx context.Context, id int) error
	SetSort(ctx context.Context, key domain.OrdersSortKey) error
	SetSearchText(ctx context.Context, text string) error
}

type options struct {
	exportDir string
	timeout   time.Duration
	now       func() time.Time
}

type model struct {
	conns  connections
	orders ordersBoard
	opts   options

	view      viewKind
	platforms []string
	accounts  []domain.Account

	connCursor  int
	orderCursor int

	searching   bool
	searchQuery string

	loading   bool
	status    string
	statusErr bool

	width  int
	height int
}

func newModel(conns connections, orders ordersBoard, opts options) model {
	if opts.timeout <= 0 {
		opts.timeout = defaultTimeout
	}
	if opts.exportDir == "" {
		opts.exportDir = "."
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	return model{conns: conns, orders: orders, opts: opts, loading: true}
}

// Messages

type optionsLoadedMsg struct {
	platforms []string
	accounts  []domain.Account
	err       error
}

type loadedMsg struct {
	view viewKind
	err  error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

type refreshDoneMsg struct {
	err error
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.loadOptionsCmd(),
		m.intentCmd(viewConnections, m.conns.Load),
		m.intentCmd(viewOrders, m.orders.Load),
	)
}

// Commands

func (m model) loadOptionsCmd() tea.Cmd {
	conns, timeout := m.conns, m.opts.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		platforms, err := conns.PlatformTypes(ctx, false)
		if err != nil {
			return optionsLoadedMsg{err: err}
		}
		accounts, err := conns.Accounts(ctx)
		return optionsLoadedMsg{platforms: platforms, accounts: accounts, err: err}
	}
}

// intentCmd runs a filter intent off the UI goroutine. The session applies
// the transition and refetches; the result is read back on loadedMsg.
func (m model) intentCmd(view viewKind, intent func(context.Context) error) tea.Cmd {
	timeout := m.opts.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{view: view, err: intent(ctx)}
	}
}

func (m model) refreshConnectionsCmd() tea.Cmd {
	conns, timeout := m.conns, m.opts.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return refreshDoneMsg{err: conns.RefreshConnections(ctx)}
	}
}

func (m model) exportCmd() tea.Cmd {
	conns, opts := m.conns, m.opts
	return func() tea.Msg {
		count := len(conns.Selected())
		ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
		defer cancel()
		body, err := conns.Export(ctx)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer body.Close()

		name := fmt.Sprintf("products_report_%s.xlsx", opts.now().Format("2006-01-02_150405"))
		path := filepath.Join(opts.exportDir, name)
		if err := writeFile(path, body); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, count: count}
	}
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (m *model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m *model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}
