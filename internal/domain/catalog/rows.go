package catalog

import (
	"slices"
	"strings"
)

// Row pairs a marketplace product with the warehouse product it is connected
// to. Either side may be nil, never both.
type Row struct {
	Marketplace *Product
	Warehouse   *Product
}

// BuildRows turns one page of products into rows: every marketplace product
// with its connection (looked up in connections, which may hold products
// outside the page), then the warehouse products of the page that no row
// already shows.
func BuildRows(page []Product, connections map[int64]Product) []Row {
	rows := make([]Row, 0, len(page))
	shown := make(map[int64]struct{})

	for i := range page {
		p := page[i]
		if p.IsWarehouse() {
			continue
		}
		row := Row{Marketplace: &p}
		if p.ConnectionID != nil {
			if w, ok := connections[*p.ConnectionID]; ok {
				row.Warehouse = &w
				shown[w.ID] = struct{}{}
			}
		}
		rows = append(rows, row)
	}

	for i := range page {
		p := page[i]
		if !p.IsWarehouse() {
			continue
		}
		if _, ok := shown[p.ID]; ok {
			continue
		}
		rows = append(rows, Row{Warehouse: &p})
	}
	return rows
}

// ConnectionIDs returns the distinct warehouse ids referenced by the page.
func ConnectionIDs(page []Product) []int64 {
	ids := make([]int64, 0)
	seen := make(map[int64]struct{})
	for _, p := range page {
		if p.ConnectionID == nil {
			continue
		}
		if _, ok := seen[*p.ConnectionID]; ok {
			continue
		}
		seen[*p.ConnectionID] = struct{}{}
		ids = append(ids, *p.ConnectionID)
	}
	return ids
}

// Row sort keys
const (
	RowSortMarket   = "market"
	RowSortMoySklad = "moy_sklad"
)

// RowSort orders rows by the name of one side.
type RowSort struct {
	ByMarketplace bool
	Descending    bool
}

// DefaultRowSort sorts by marketplace name ascending
var DefaultRowSort = RowSort{ByMarketplace: true}

// ParseRowSort reads a sort_by value: market or moy_sklad with an optional
// "-" prefix for descending order. Empty means the default.
func ParseRowSort(raw string) (RowSort, error) {
	if raw == "" {
		return DefaultRowSort, nil
	}
	desc := strings.HasPrefix(raw, "-")
	switch strings.TrimPrefix(raw, "-") {
	case RowSortMarket:
		return RowSort{ByMarketplace: true, Descending: desc}, nil
	case RowSortMoySklad:
		return RowSort{ByMarketplace: false, Descending: desc}, nil
	default:
		return RowSort{}, ErrUnknownSortKey
	}
}

// String returns the wire form
func (s RowSort) String() string {
	key := RowSortMoySklad
	if s.ByMarketplace {
		key = RowSortMarket
	}
	if s.Descending {
		return "-" + key
	}
	return key
}

// SortRows sorts rows in place, stably, by the folded name of the chosen
// side. A missing side sorts as the empty string.
func SortRows(rows []Row, s RowSort) {
	key := func(r Row) string {
		side := r.Warehouse
		if s.ByMarketplace {
			side = r.Marketplace
		}
		if side == nil {
			return ""
		}
		return NormalizeSearch(side.Name)
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := strings.Compare(key(a), key(b))
		if s.Descending {
			return -c
		}
		return c
	})
}
