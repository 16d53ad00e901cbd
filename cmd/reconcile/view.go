package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	domain "github.com/erp/reconciler/internal/domain/reconcile"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	filterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")).Padding(0, 2)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	searchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

const nameWidth = 36

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Catalog reconciliation") + "  " + m.tabsView() + "\n")
	b.WriteString(m.filterView() + "\n")
	if m.searching {
		b.WriteString(searchStyle.Render("/ "+m.searchQuery+"_") + "  " + footerStyle.Render("(enter apply, esc cancel)") + "\n")
	}
	b.WriteString("\n")

	if m.view == viewOrders {
		b.WriteString(m.ordersView())
	} else {
		b.WriteString(m.connectionsView())
	}

	b.WriteString("\n" + m.statusView() + "\n")
	b.WriteString(footerStyle.Render(m.helpLine()))
	return b.String()
}

func (m model) tabsView() string {
	tabs := make([]string, 0, 2)
	for _, v := range []viewKind{viewConnections, viewOrders} {
		style := tabStyle
		if v == m.view {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(v.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m model) filterView() string {
	var parts []string
	if m.view == viewOrders {
		f := m.orders.Filter()
		counts := m.orders.Counts()
		var tabs []string
		for _, tab := range []domain.OrdersTab{domain.OrdersTabAll, domain.OrdersTabUrgent, domain.OrdersTabToday, domain.OrdersTabOther} {
			label := fmt.Sprintf("%s (%d)", tab, counts.ForTab(tab))
			if tab == f.Tab() {
				label = "[" + label + "]"
			}
			tabs = append(tabs, label)
		}
		parts = append(parts, strings.Join(tabs, " "), "sort: "+string(f.SortKey()))
		parts = append(parts, m.optionsSummary(f.PlatformIDs(), f.AccountIDs())...)
		if f.SearchText() != "" {
			parts = append(parts, fmt.Sprintf("search: %q", f.SearchText()))
		}
	} else {
		f := m.conns.Filter()
		link := "link: " + f.LinkType().String()
		if f.UnlinkedSubtype() != domain.SubtypeNone {
			link += "/" + f.UnlinkedSubtype().String()
		}
		parts = append(parts, link, "sort: "+string(f.SortKey()))
		parts = append(parts, m.optionsSummary(f.PlatformIDs(), f.AccountIDs())...)
		if f.SearchText() != "" {
			parts = append(parts, fmt.Sprintf("search: %q", f.SearchText()))
		}
	}
	return filterStyle.Render(strings.Join(parts, " | "))
}

func (m model) optionsSummary(platformIDs, accountIDs []int) []string {
	var out []string
	if len(platformIDs) > 0 {
		names := make([]string, 0, len(platformIDs))
		for _, id := range platformIDs {
			names = append(names, m.platformLabel(id))
		}
		out = append(out, "platforms: "+strings.Join(names, ","))
	}
	if len(accountIDs) > 0 {
		names := make([]string, 0, len(accountIDs))
		for _, id := range accountIDs {
			names = append(names, m.accountLabel(id))
		}
		out = append(out, "accounts: "+strings.Join(names, ","))
	}
	return out
}

func (m model) platformLabel(id int) string {
	if id >= 0 && id < len(m.platforms) && m.platforms[id] != "" {
		return m.platforms[id]
	}
	return fmt.Sprintf("#%d", id)
}

func (m model) accountLabel(id int) string {
	for _, a := range m.accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m model) connectionsView() string {
	rows := m.conns.Rows()
	var b strings.Builder

	master := checkbox(m.conns.IsMasterChecked())
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %-*s %-*s", master, nameWidth, "Marketplace", nameWidth, "Moy Sklad")) + "\n")
	if len(rows) == 0 {
		b.WriteString(missingStyle.Render(m.emptyText()) + "\n")
		return b.String()
	}

	start, end := m.window(m.connCursor, len(rows))
	for i := start; i < end; i++ {
		p := rows[i]
		line := fmt.Sprintf("%s %s %s",
			checkbox(m.conns.IsRowChecked(p)),
			entityCell(p.OtherMarketplace),
			entityCell(p.MoySklad),
		)
		if i == m.connCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) ordersView() string {
	items := m.orders.Items()
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-14s %-*s %-12s %4s %10s %-10s %-10s",
		"Order", nameWidth, "Product", "Platform", "Qty", "Price", "Created", "Shipped")) + "\n")
	if len(items) == 0 {
		b.WriteString(missingStyle.Render(m.emptyText()) + "\n")
		return b.String()
	}

	start, end := m.window(m.orderCursor, len(items))
	for i := start; i < end; i++ {
		it := items[i]
		shipped := "-"
		if it.IsShipped() {
			shipped = it.ShippedAt.Format(domain.DateLayout)
		}
		line := fmt.Sprintf("%-14s %-*s %-12s %4d %10s %-10s %-10s",
			truncate(it.OrderNumber, 14),
			nameWidth, truncate(it.ProductName, nameWidth),
			truncate(it.PlatformName, 12),
			it.Quantity,
			it.Price.StringFixed(2),
			it.CreatedAt.Format(domain.DateLayout),
			shipped,
		)
		if i == m.orderCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) emptyText() string {
	if m.loading {
		return "Loading..."
	}
	return "Nothing matches the filter."
}

// window returns the visible row range around cursor
func (m model) window(cursor, n int) (int, int) {
	visible := m.height - 8
	if visible <= 0 || visible >= n {
		return 0, n
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > n {
		start = n - visible
	}
	return start, start + visible
}

func (m model) statusView() string {
	text := m.status
	if m.loading && text == "" {
		text = "Loading..."
	}
	if m.statusErr {
		return errorStyle.Render(text)
	}
	return statusBarStyle.Render(text)
}

func (m model) helpLine() string {
	if m.view == viewOrders {
		return "tab view  a/u/t/o tab  0-9 platform  alt+1-9 account  s flip  S column  / search  r reload  q quit"
	}
	return "tab view  a/l/u link  m/w/n subtype  0-9 platform  alt+1-9 account  s flip  S column  / search  space select  [/] side  x all  e export  r relink  q quit"
}

func entityCell(e *domain.Entity) string {
	if e == nil {
		return missingStyle.Render(fmt.Sprintf("%-*s", nameWidth, "(none)"))
	}
	return fmt.Sprintf("%-*s", nameWidth, truncate(e.Name, nameWidth))
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
