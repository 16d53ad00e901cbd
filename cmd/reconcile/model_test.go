package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/reconciler/internal/application/reconcile"
	domain "github.com/erp/reconciler/internal/domain/reconcile"
)

type fakeAPI struct {
	mu       sync.Mutex
	products []domain.Product
	items    []domain.OrderItem
	queries  []domain.QueryDescriptor
	exported []domain.ID
}

func (f *fakeAPI) ListProducts(_ context.Context, q domain.QueryDescriptor) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.products, nil
}

func (f *fakeAPI) ListOrderItems(_ context.Context, q domain.QueryDescriptor) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.items, nil
}

func (f *fakeAPI) GetOrdersCounts(context.Context) (domain.OrdersCounts, error) {
	return domain.OrdersCounts{All: 3, Urgent: 1, Today: 1, Other: 1}, nil
}

func (f *fakeAPI) ListAccounts(context.Context) ([]domain.Account, error) {
	return []domain.Account{{ID: 11, Name: "WB main"}, {ID: 12, Name: "Ozon"}}, nil
}

func (f *fakeAPI) ListPlatformTypes(context.Context, bool) ([]string, error) {
	return []string{"Wildberries", "Yandex Market", "MegaMarket", "Ozon"}, nil
}

func (f *fakeAPI) ExportReport(_ context.Context, ids []domain.ID) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported = ids
	return io.NopCloser(strings.NewReader("PK-workbook")), nil
}

func (f *fakeAPI) CreateManualConnection(context.Context, domain.ID, domain.ID) error { return nil }

func (f *fakeAPI) RefreshConnections(context.Context) error { return nil }

func (f *fakeAPI) lastQuery() domain.QueryDescriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func newTestModel(t *testing.T) (model, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{
		products: []domain.Product{
			{OtherMarketplace: &domain.Entity{ID: 1, Name: "Mug"}, MoySklad: &domain.Entity{ID: 2, Name: "Mug 300ml"}},
			{OtherMarketplace: &domain.Entity{ID: 3, Name: "Plate"}},
		},
		items: []domain.OrderItem{{ID: 1, OrderNumber: "WB-1", ProductName: "Mug", Quantity: 1}},
	}
	m := newModel(
		reconcile.NewConnectionsSession(api, nil),
		reconcile.NewOrdersBoard(api, nil),
		options{
			exportDir: t.TempDir(),
			timeout:   time.Second,
			now:       func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) },
		},
	)
	return m, api
}

// step feeds msg to the model and runs the returned command once, feeding
// its message back.
func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd == nil {
		return m
	}
	out, _ := m.Update(cmd())
	return out.(model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	if rest, ok := strings.CutPrefix(s, "alt+"); ok {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(rest), Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T) (model, *fakeAPI) {
	t.Helper()
	m, api := newTestModel(t)
	out, _ := m.Update(m.loadOptionsCmd()())
	m = out.(model)
	out, _ = m.Update(m.intentCmd(viewConnections, m.conns.Load)())
	m = out.(model)
	out, _ = m.Update(m.intentCmd(viewOrders, m.orders.Load)())
	return out.(model), api
}

func TestModel_LoadOptions(t *testing.T) {
	m, _ := loaded(t)

	assert.Equal(t, "Wildberries", m.platforms[0])
	assert.Len(t, m.accounts, 2)
	assert.False(t, m.loading)
	assert.Equal(t, "2 rows, 0 queued for export", m.status)
}

func TestModel_ConnectionsFilterKeys(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		param string
		want  string
	}{
		{name: "linked", keys: []string{"l"}, param: domain.ParamConnectionIsNull, want: "false"},
		{name: "unlinked", keys: []string{"u"}, param: domain.ParamConnectionIsNull, want: "true"},
		{name: "subtype implies unlinked", keys: []string{"m"}, param: domain.ParamConnectionIsNull, want: "true"},
		{name: "sort flips", keys: []string{"s"}, param: domain.ParamSortBy, want: "-market"},
		{name: "sort other column", keys: []string{"S"}, param: domain.ParamSortBy, want: "moy_sklad"},
		{name: "account toggle", keys: []string{"alt+2"}, param: domain.ParamAccountIn, want: "12"},
		{name: "search", keys: []string{"/", "m", "u", "g", "enter"}, param: domain.ParamSearch, want: "mug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, api := loaded(t)
			for _, k := range tt.keys {
				m = step(t, m, key(k))
			}

			q := api.lastQuery()
			assert.Equal(t, domain.CollectionProducts, q.Collection)
			got, ok := q.Get(tt.param)
			require.True(t, ok, "missing %s in %s", tt.param, q.Encode())
			assert.Equal(t, tt.want, got)
			assert.False(t, m.statusErr, m.status)
		})
	}
}

func TestModel_UnknownPlatform(t *testing.T) {
	m, api := loaded(t)
	before := len(api.queries)

	m = step(t, m, key("9"))

	assert.True(t, m.statusErr)
	assert.Len(t, api.queries, before)
}

func TestModel_SelectAndExport(t *testing.T) {
	m, api := loaded(t)

	m = step(t, m, key(" "))
	assert.Equal(t, "2 queued for export", m.status)

	m = step(t, m, key("e"))
	require.False(t, m.statusErr, m.status)
	assert.Equal(t, []domain.ID{1, 2}, api.exported)

	path := filepath.Join(m.opts.exportDir, "products_report_2026-04-01_120000.xlsx")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK-workbook", string(data))
	assert.Contains(t, m.status, path)
}

func TestModel_ToggleSides(t *testing.T) {
	m, _ := loaded(t)
	row := m.conns.Rows()[0]

	m = step(t, m, key("["))
	assert.Equal(t, []domain.ID{1}, m.conns.Selected())
	assert.False(t, m.conns.IsRowChecked(row))

	m = step(t, m, key("]"))
	assert.Equal(t, []domain.ID{1, 2}, m.conns.Selected())
	assert.True(t, m.conns.IsRowChecked(row))

	m = step(t, m, key("["))
	assert.Equal(t, []domain.ID{2}, m.conns.Selected())
	assert.False(t, m.conns.IsRowChecked(row))
	assert.Equal(t, "1 queued for export", m.status)
}

func TestModel_ToggleMissingSide(t *testing.T) {
	m, _ := loaded(t)
	m = step(t, m, key("j"))

	m = step(t, m, key("]"))

	assert.True(t, m.statusErr)
	assert.Equal(t, "No Moy Sklad product on this row", m.status)
	assert.Empty(t, m.conns.Selected())
}

func TestModel_ExportNothingSelected(t *testing.T) {
	m, api := loaded(t)

	m = step(t, m, key("e"))

	assert.True(t, m.statusErr)
	assert.Equal(t, "Nothing selected for export.", m.status)
	assert.Nil(t, api.exported)
}

func TestModel_MasterToggle(t *testing.T) {
	m, _ := loaded(t)

	m = step(t, m, key("x"))
	assert.True(t, m.conns.IsMasterChecked())
	assert.Equal(t, []domain.ID{1, 2, 3}, m.conns.Selected())

	m = step(t, m, key("x"))
	assert.False(t, m.conns.IsMasterChecked())
}

func TestModel_OrdersTab(t *testing.T) {
	m, api := loaded(t)
	m = step(t, m, key("tab"))
	require.Equal(t, viewOrders, m.view)

	m = step(t, m, key("u"))

	q := api.lastQuery()
	assert.Equal(t, domain.CollectionOrderItems, q.Collection)
	v, _ := q.Get(domain.ParamOrdersType)
	assert.Equal(t, "0", v)
	assert.Equal(t, domain.OrdersTabUrgent, m.orders.Filter().Tab())
	assert.Contains(t, m.View(), "urgent (1)")
}

func TestModel_SearchEscape(t *testing.T) {
	m, api := loaded(t)
	before := len(api.queries)

	for _, k := range []string{"/", "a", "b", "esc"} {
		m = step(t, m, key(k))
	}

	assert.False(t, m.searching)
	assert.Empty(t, m.conns.Filter().SearchText())
	assert.Len(t, api.queries, before)
}

func TestDigitKey(t *testing.T) {
	tests := []struct {
		key, prefix string
		want        int
		ok          bool
	}{
		{"1", "", 1, true},
		{"9", "", 9, true},
		{"0", "", 0, true},
		{"alt+3", "alt+", 3, true},
		{"alt+3", "", 0, false},
		{"a", "", 0, false},
		{"12", "", 0, false},
	}
	for _, tt := range tests {
		got, ok := digitKey(tt.key, tt.prefix)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
}

func TestNextSortColumn(t *testing.T) {
	assert.Equal(t, domain.OrdersSortBrand, nextSortColumn(domain.OrdersSortNumber))
	assert.Equal(t, domain.OrdersSortNumber, nextSortColumn(domain.OrdersSortStatus))
	assert.Equal(t, domain.OrdersSortNumber, nextSortColumn("unknown"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Mug", truncate("Mug", 5))
	assert.Equal(t, "Кружк…", truncate("Кружка белая", 6))
}
