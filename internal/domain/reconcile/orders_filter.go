package reconcile

import "strings"

// Wire parameter names of the order items collection
const (
	ParamOrdersType           = "orders_type"
	ParamOrderPlatformTypeIn  = "order__account__platform__platform_type__in"
	ParamOrderAccountIn       = "order__account__in"
	ordersTypeUrgentWireValue = "0"
	ordersTypeTodayWireValue  = "1"
	ordersTypeOtherWireValue  = "2"
)

// OrdersTab selects a slice of the orders board.
type OrdersTab int

const (
	OrdersTabAll OrdersTab = iota
	OrdersTabUrgent
	OrdersTabToday
	OrdersTabOther
)

// String returns the display name of the tab.
func (t OrdersTab) String() string {
	switch t {
	case OrdersTabAll:
		return "all"
	case OrdersTabUrgent:
		return "urgent"
	case OrdersTabToday:
		return "today"
	case OrdersTabOther:
		return "other"
	default:
		return "unknown"
	}
}

// WireValue returns the orders_type value; empty for the all tab.
func (t OrdersTab) WireValue() string {
	switch t {
	case OrdersTabUrgent:
		return ordersTypeUrgentWireValue
	case OrdersTabToday:
		return ordersTypeTodayWireValue
	case OrdersTabOther:
		return ordersTypeOtherWireValue
	default:
		return ""
	}
}

// ParseOrdersTab maps an orders_type wire value back to a tab.
func ParseOrdersTab(raw string) (OrdersTab, error) {
	switch raw {
	case "":
		return OrdersTabAll, nil
	case ordersTypeUrgentWireValue:
		return OrdersTabUrgent, nil
	case ordersTypeTodayWireValue:
		return OrdersTabToday, nil
	case ordersTypeOtherWireValue:
		return OrdersTabOther, nil
	default:
		return OrdersTabAll, ErrUnknownOrdersTab
	}
}

// Sortable columns of the orders table
const (
	OrdersSortNumber  = "number"
	OrdersSortBrand   = "brand"
	OrdersSortCreated = "created"
	OrdersSortShipped = "shipped"
	OrdersSortStatus  = "status"
)

// OrdersSortKey is an orders column optionally prefixed with "-".
type OrdersSortKey string

// DefaultOrdersSortKey sorts by order number ascending.
const DefaultOrdersSortKey = OrdersSortKey(OrdersSortNumber)

// Column returns the column part of the key.
func (k OrdersSortKey) Column() string {
	return strings.TrimPrefix(string(k), descendingPrefix)
}

// Descending reports whether the key carries the descending marker.
func (k OrdersSortKey) Descending() bool {
	return strings.HasPrefix(string(k), descendingPrefix)
}

// ParseOrdersSortKey validates an orders sort key.
func ParseOrdersSortKey(raw string) (OrdersSortKey, error) {
	key := OrdersSortKey(strings.TrimSpace(raw))
	switch key.Column() {
	case OrdersSortNumber, OrdersSortBrand, OrdersSortCreated, OrdersSortShipped, OrdersSortStatus:
		return key, nil
	default:
		return "", ErrUnknownSortKey
	}
}

// OrderFilterState is the immutable filter of the orders board.
type OrderFilterState struct {
	tab         OrdersTab
	platformIDs idSet
	accountIDs  idSet
	sortKey     OrdersSortKey
	searchText  string
}

// NewOrderFilterState returns the initial orders filter.
func NewOrderFilterState() OrderFilterState {
	return OrderFilterState{tab: OrdersTabAll, sortKey: DefaultOrdersSortKey}
}

func (s OrderFilterState) Tab() OrdersTab          { return s.tab }
func (s OrderFilterState) SortKey() OrdersSortKey  { return s.sortKey }
func (s OrderFilterState) SearchText() string      { return s.searchText }
func (s OrderFilterState) PlatformIDs() []int      { return s.platformIDs.values() }
func (s OrderFilterState) AccountIDs() []int       { return s.accountIDs.values() }
func (s OrderFilterState) HasPlatform(id int) bool { return s.platformIDs.has(id) }
func (s OrderFilterState) HasAccount(id int) bool  { return s.accountIDs.has(id) }

// WithTab switches the orders tab.
func (s OrderFilterState) WithTab(tab OrdersTab) (OrderFilterState, error) {
	if tab < OrdersTabAll || tab > OrdersTabOther {
		return s, ErrUnknownOrdersTab
	}
	s.tab = tab
	return s, nil
}

// TogglePlatform adds the platform if absent, removes it otherwise.
func (s OrderFilterState) TogglePlatform(id int) OrderFilterState {
	s.platformIDs = s.platformIDs.toggle(id)
	return s
}

// ToggleAccount adds the account if absent, removes it otherwise.
func (s OrderFilterState) ToggleAccount(id int) OrderFilterState {
	s.accountIDs = s.accountIDs.toggle(id)
	return s
}

// WithSort flips direction on the active column, otherwise sorts the new
// column ascending.
func (s OrderFilterState) WithSort(key OrdersSortKey) (OrderFilterState, error) {
	key, err := ParseOrdersSortKey(string(key))
	if err != nil {
		return s, err
	}
	if key.Column() == s.sortKey.Column() {
		if s.sortKey.Descending() {
			s.sortKey = OrdersSortKey(key.Column())
		} else {
			s.sortKey = OrdersSortKey(descendingPrefix + key.Column())
		}
		return s, nil
	}
	s.sortKey = OrdersSortKey(key.Column())
	return s, nil
}

// WithSearchText replaces the search text.
func (s OrderFilterState) WithSearchText(text string) OrderFilterState {
	s.searchText = text
	return s
}

// OrdersQuery translates the orders filter into the order items request.
// Order: tab, platform, account, sort, search.
func OrdersQuery(s OrderFilterState) QueryDescriptor {
	q := QueryDescriptor{Collection: CollectionOrderItems}
	if v := s.tab.WireValue(); v != "" {
		q.Params = append(q.Params, Param{ParamOrdersType, v})
	}
	if len(s.platformIDs) > 0 {
		q.Params = append(q.Params, Param{ParamOrderPlatformTypeIn, joinInts(s.platformIDs)})
	}
	if len(s.accountIDs) > 0 {
		q.Params = append(q.Params, Param{ParamOrderAccountIn, joinInts(s.accountIDs)})
	}
	sortKey := s.sortKey
	if sortKey == "" {
		sortKey = DefaultOrdersSortKey
	}
	q.Params = append(q.Params, Param{ParamSortBy, string(sortKey)})
	if s.searchText != "" {
		q.Params = append(q.Params, Param{ParamSearch, s.searchText})
	}
	return q
}
