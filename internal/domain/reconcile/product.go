// Package reconcile holds the client-side filter and selection engine used to
// browse paired marketplace/warehouse catalog rows and queue them for export.
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ID identifies a catalog entity on either side of a row.
type ID int64

// Entity is one side of a catalog row: a marketplace listing or a warehouse item.
type Entity struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	SKU     string `json:"sku"`
	Vendor  string `json:"vendor"`
	Barcode string `json:"barcode"`
}

// Product is a reconciliation row. Either side may be absent, never both in
// a row returned by the server.
type Product struct {
	OtherMarketplace *Entity `json:"other_marketplace"`
	MoySklad         *Entity `json:"moy_sklad"`
}

// HasMarketplace reports whether the row carries a marketplace listing.
func (p Product) HasMarketplace() bool {
	return p.OtherMarketplace != nil
}

// HasWarehouse reports whether the row carries a warehouse item.
func (p Product) HasWarehouse() bool {
	return p.MoySklad != nil
}

// IsLinked reports whether both sides are present.
func (p Product) IsLinked() bool {
	return p.HasMarketplace() && p.HasWarehouse()
}

// Account is a marketplace account the operator can filter by.
type Account struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// OrdersCounts holds the per-tab totals of the orders board.
type OrdersCounts struct {
	All    int `json:"all"`
	Urgent int `json:"urgent"`
	Today  int `json:"today"`
	Other  int `json:"other"`
}

// ForTab returns the count shown next to the given orders tab.
func (c OrdersCounts) ForTab(tab OrdersTab) int {
	switch tab {
	case OrdersTabUrgent:
		return c.Urgent
	case OrdersTabToday:
		return c.Today
	case OrdersTabOther:
		return c.Other
	default:
		return c.All
	}
}

// OrderItem is a read-only projection of one position of a marketplace order.
type OrderItem struct {
	ID             int64           `json:"id"`
	ProductID      ID              `json:"product"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Sticker        string          `json:"sticker"`
	OrderNumber    string          `json:"order_number"`
	StatusName     string          `json:"order_status_name"`
	StatusColor    string          `json:"order_status_color"`
	PlatformName   string          `json:"platform_name"`
	ProductName    string          `json:"product_name"`
	ProductBrand   string          `json:"product_brand"`
	ProductBarcode string          `json:"product_barcode"`
	CreatedAt      Date            `json:"created_dt"`
	ShippedAt      *Date           `json:"shipped_dt"`
}

// IsShipped reports whether the order has a shipment date.
func (o OrderItem) IsShipped() bool {
	return o.ShippedAt != nil && !o.ShippedAt.IsZero()
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts YYYY-MM-DD, RFC 3339 timestamps and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("reconcile: date must be a string: %w", err)
	}
	if raw == "" || raw == "-" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("reconcile: invalid date %q", raw)
	}
	d.Time = t
	return nil
}

// String renders the date in wire format, or "-" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(DateLayout)
}
