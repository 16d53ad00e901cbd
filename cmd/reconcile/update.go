package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/erp/reconciler/internal/application/reconcile"
	domain "github.com/erp/reconciler/internal/domain/reconcile"
)

var ordersSortColumns = []string{
	domain.OrdersSortNumber,
	domain.OrdersSortBrand,
	domain.OrdersSortCreated,
	domain.OrdersSortShipped,
	domain.OrdersSortStatus,
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case optionsLoadedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Filter options unavailable: %v", msg.err))
			return m, nil
		}
		m.platforms = msg.platforms
		m.accounts = msg.accounts
		return m, nil
	case loadedMsg:
		return m.handleLoaded(msg)
	case refreshDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("Refresh failed: %v", msg.err))
			return m, nil
		}
		m.clampCursors()
		m.setStatus("Connections refreshed.")
		return m, nil
	case exportDoneMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, reconcile.ErrNothingToExport) {
				m.setError("Nothing selected for export.")
			} else {
				m.setError(fmt.Sprintf("Export failed: %v", msg.err))
			}
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %d products to %s", msg.count, msg.path))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.clampCursors()
	if msg.err != nil {
		m.setError(fmt.Sprintf("%s: %v", msg.view, msg.err))
		return m, nil
	}
	if msg.view != m.view {
		return m, nil
	}
	switch msg.view {
	case viewOrders:
		m.setStatus(fmt.Sprintf("%d order items", len(m.orders.Items())))
	default:
		m.setStatus(fmt.Sprintf("%d rows, %d queued for export", len(m.conns.Rows()), len(m.conns.Selected())))
	}
	return m, nil
}

func (m *model) clampCursors() {
	m.connCursor = clamp(m.connCursor, len(m.conns.Rows()))
	m.orderCursor = clamp(m.orderCursor, len(m.orders.Items()))
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.view == viewConnections {
			m.view = viewOrders
		} else {
			m.view = viewConnections
		}
		m.status = ""
		return m, nil
	case "/":
		m.searching = true
		if m.view == viewOrders {
			m.searchQuery = m.orders.Filter().SearchText()
		} else {
			m.searchQuery = m.conns.Filter().SearchText()
		}
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	default:
		if id, ok := digitKey(key, ""); ok {
			return m.togglePlatform(id)
		}
		if n, ok := digitKey(key, "alt+"); ok {
			return m.toggleAccount(n - 1)
		}
	}

	if m.view == viewOrders {
		return m.handleOrdersKey(msg)
	}
	return m.handleConnectionsKey(msg)
}

func (m model) handleConnectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return m.runConnections(func(ctx context.Context) error { return m.conns.SetLinkType(ctx, domain.LinkAny) })
	case "l":
		return m.runConnections(func(ctx context.Context) error { return m.conns.SetLinkType(ctx, domain.LinkLinked) })
	case "u":
		return m.runConnections(func(ctx context.Context) error { return m.conns.SetLinkType(ctx, domain.LinkUnlinked) })
	case "m":
		return m.runConnections(func(ctx context.Context) error {
			return m.conns.SetUnlinkedSubtype(ctx, domain.SubtypeMarketplaceOnly)
		})
	case "w":
		return m.runConnections(func(ctx context.Context) error {
			return m.conns.SetUnlinkedSubtype(ctx, domain.SubtypeWarehouseOnly)
		})
	case "n":
		return m.runConnections(func(ctx context.Context) error {
			return m.conns.SetUnlinkedSubtype(ctx, domain.SubtypeNone)
		})
	case "s":
		key := domain.SortKey(m.conns.Filter().SortKey().Column())
		return m.runConnections(func(ctx context.Context) error { return m.conns.SetSort(ctx, key) })
	case "S":
		next := domain.SortColumnMoySklad
		if m.conns.Filter().SortKey().Column() == domain.SortColumnMoySklad {
			next = domain.SortColumnMarket
		}
		return m.runConnections(func(ctx context.Context) error { return m.conns.SetSort(ctx, domain.SortKey(next)) })
	case " ", "space":
		rows := m.conns.Rows()
		if m.connCursor >= len(rows) {
			return m, nil
		}
		if _, err := m.conns.ToggleRow(rows[m.connCursor]); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%d queued for export", len(m.conns.Selected())))
		return m, nil
	case "[":
		return m.toggleSide(func(p domain.Product) *domain.Entity { return p.OtherMarketplace }, "marketplace")
	case "]":
		return m.toggleSide(func(p domain.Product) *domain.Entity { return p.MoySklad }, "Moy Sklad")
	case "x":
		m.conns.ToggleAll()
		m.setStatus(fmt.Sprintf("%d queued for export", len(m.conns.Selected())))
		return m, nil
	case "e":
		m.loading = true
		m.setStatus("Exporting...")
		return m, m.exportCmd()
	case "r":
		m.loading = true
		m.setStatus("Refreshing connections...")
		return m, m.refreshConnectionsCmd()
	}
	return m, nil
}

func (m model) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tabs := map[string]domain.OrdersTab{
		"a": domain.OrdersTabAll,
		"u": domain.OrdersTabUrgent,
		"t": domain.OrdersTabToday,
		"o": domain.OrdersTabOther,
	}
	key := msg.String()
	if tab, ok := tabs[key]; ok {
		m.orderCursor = 0
		return m.runOrders(func(ctx context.Context) error { return m.orders.SetTab(ctx, tab) })
	}
	switch key {
	case "s":
		current := domain.OrdersSortKey(m.orders.Filter().SortKey().Column())
		return m.runOrders(func(ctx context.Context) error { return m.orders.SetSort(ctx, current) })
	case "S":
		next := nextSortColumn(m.orders.Filter().SortKey().Column())
		return m.runOrders(func(ctx context.Context) error { return m.orders.SetSort(ctx, domain.OrdersSortKey(next)) })
	case "r":
		return m.runOrders(m.orders.Load)
	}
	return m, nil
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchQuery = ""
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		text := strings.TrimSpace(m.searchQuery)
		if m.view == viewOrders {
			return m.runOrders(func(ctx context.Context) error { return m.orders.SetSearchText(ctx, text) })
		}
		return m.runConnections(func(ctx context.Context) error { return m.conns.SetSearchText(ctx, text) })
	case tea.KeyBackspace:
		if r := []rune(m.searchQuery); len(r) > 0 {
			m.searchQuery = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.searchQuery += " "
		return m, nil
	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

// toggleSide flips one entity of the row under the cursor without touching
// the other side.
func (m model) toggleSide(side func(domain.Product) *domain.Entity, label string) (tea.Model, tea.Cmd) {
	rows := m.conns.Rows()
	if m.connCursor >= len(rows) {
		return m, nil
	}
	e := side(rows[m.connCursor])
	if e == nil {
		m.setError(fmt.Sprintf("No %s product on this row", label))
		return m, nil
	}
	m.conns.ToggleID(e.ID)
	m.setStatus(fmt.Sprintf("%d queued for export", len(m.conns.Selected())))
	return m, nil
}

func (m model) togglePlatform(id int) (tea.Model, tea.Cmd) {
	if id >= len(m.platforms) {
		m.setError(fmt.Sprintf("No platform %d", id))
		return m, nil
	}
	if m.view == viewOrders {
		return m.runOrders(func(ctx context.Context) error { return m.orders.TogglePlatform(ctx, id) })
	}
	return m.runConnections(func(ctx context.Context) error { return m.conns.TogglePlatform(ctx, id) })
}

func (m model) toggleAccount(index int) (tea.Model, tea.Cmd) {
	if index < 0 || index >= len(m.accounts) {
		m.setError(fmt.Sprintf("No account #%d", index+1))
		return m, nil
	}
	id := m.accounts[index].ID
	if m.view == viewOrders {
		return m.runOrders(func(ctx context.Context) error { return m.orders.ToggleAccount(ctx, id) })
	}
	return m.runConnections(func(ctx context.Context) error { return m.conns.ToggleAccount(ctx, id) })
}

func (m model) runConnections(intent func(context.Context) error) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, m.intentCmd(viewConnections, intent)
}

func (m model) runOrders(intent func(context.Context) error) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, m.intentCmd(viewOrders, intent)
}

func (m *model) moveCursor(delta int) {
	if m.view == viewOrders {
		m.orderCursor = clamp(m.orderCursor+delta, len(m.orders.Items()))
		return
	}
	m.connCursor = clamp(m.connCursor+delta, len(m.conns.Rows()))
}

// digitKey parses a single digit after prefix
func digitKey(key, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || len(rest) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func nextSortColumn(current string) string {
	for i, col := range ordersSortColumns {
		if col == current {
			return ordersSortColumns[(i+1)%len(ordersSortColumns)]
		}
	}
	return ordersSortColumns[0]
}
