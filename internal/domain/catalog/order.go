package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erp/reconciler/internal/domain/shared"
)

// OrderStatus is a platform order status as shown on the orders board.
type OrderStatus struct {
	shared.BaseEntity
	Name       string
	Color      string
	StatusCode int
	Position   int
}

// Order is a marketplace order placed on one account.
type Order struct {
	shared.BaseEntity
	AccountID  int64
	StatusID   int64
	Number     string
	CreatedOn  time.Time
	ShippedOn  *time.Time
	TotalPrice decimal.Decimal
}

// OrderItem is one product line of an order.
type OrderItem struct {
	shared.BaseEntity
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
	Sticker   string
	IsExpress bool
}

// OrderItemView is an order item joined with its order, status, product and
// account, the shape the orders board lists.
type OrderItemView struct {
	ID           int64
	OrderID      int64
	OrderNumber  string
	ProductID    int64
	ProductName  string
	Brand        string
	SKU          string
	Barcode      string
	AccountID    int64
	AccountName  string
	PlatformType PlatformType
	StatusName   string
	StatusColor  string
	Quantity     int
	Price        decimal.Decimal
	Sticker      string
	IsExpress    bool
	CreatedOn    time.Time
	ShippedOn    *time.Time
}

// OrdersType is the orders board tab.
type OrdersType int

const (
	// OrdersTypeAll applies no tab filter
	OrdersTypeAll OrdersType = iota - 1
	// OrdersTypeUrgent holds express items
	OrdersTypeUrgent
	// OrdersTypeToday holds non-express items of orders created today
	OrdersTypeToday
	// OrdersTypeOther holds everything else
	OrdersTypeOther
)

// ParseOrdersType reads the orders_type parameter: "0", "1", "2" or empty.
func ParseOrdersType(raw string) (OrdersType, error) {
	switch raw {
	case "":
		return OrdersTypeAll, nil
	case "0":
		return OrdersTypeUrgent, nil
	case "1":
		return OrdersTypeToday, nil
	case "2":
		return OrdersTypeOther, nil
	default:
		return OrdersTypeAll, ErrUnknownOrdersType
	}
}

// DayBounds returns the start of the day containing now and the start of the
// next one, in now's location.
func DayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// Matches reports whether an item falls under the tab. The tabs partition
// all items: urgent wins over today.
func (t OrdersType) Matches(isExpress bool, createdOn, now time.Time) bool {
	start, end := DayBounds(now)
	today := !createdOn.Before(start) && createdOn.Before(end)
	switch t {
	case OrdersTypeUrgent:
		return isExpress
	case OrdersTypeToday:
		return !isExpress && today
	case OrdersTypeOther:
		return !isExpress && !today
	default:
		return true
	}
}

// OrdersCounts holds the number of items under each tab.
type OrdersCounts struct {
	All    int64 `json:"all"`
	Urgent int64 `json:"urgent"`
	Today  int64 `json:"today"`
	Other  int64 `json:"other"`
}

// Orders sort keys
const (
	OrderSortNumber  = "number"
	OrderSortBrand   = "brand"
	OrderSortCreated = "created"
	OrderSortShipped = "shipped"
	OrderSortStatus  = "status"
)

// OrderSort orders the orders board.
type OrderSort struct {
	Key        string
	Descending bool
}

// DefaultOrderSort is newest orders first
var DefaultOrderSort = OrderSort{Key: OrderSortCreated, Descending: true}

// ParseOrderSort reads a sort_by value with an optional "-" prefix.
func ParseOrderSort(raw string) (OrderSort, error) {
	if raw == "" {
		return DefaultOrderSort, nil
	}
	s := OrderSort{Key: strings.TrimPrefix(raw, "-"), Descending: strings.HasPrefix(raw, "-")}
	switch s.Key {
	case OrderSortNumber, OrderSortBrand, OrderSortCreated, OrderSortShipped, OrderSortStatus:
		return s, nil
	default:
		return OrderSort{}, ErrUnknownSortKey
	}
}
