package catalog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/erp/reconciler/internal/domain/shared"
)

const maxProductFieldLength = 255

// Product is an item listed on one account. Marketplace products may point
// at the warehouse product they correspond to; warehouse products never hold
// a connection themselves.
type Product struct {
	shared.BaseEntity
	AccountID           int64
	PlatformType        PlatformType
	Name                string
	Brand               string
	SKU                 string
	Vendor              string
	Barcode             string
	ConnectionID        *int64
	HasManualConnection bool
}

// FeedItem is one product as reported by a platform's catalog feed.
type FeedItem struct {
	Name    string `json:"name" binding:"required"`
	Brand   string `json:"brand"`
	SKU     string `json:"sku"`
	Vendor  string `json:"vendor"`
	Barcode string `json:"barcode"`
}

// Validate checks the fields a product needs
func (f FeedItem) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrInvalidProductName
	}
	if utf8.RuneCountInString(f.Barcode) > maxProductFieldLength {
		return ErrInvalidBarcode
	}
	return nil
}

// NewProduct creates a product for an account from a feed item.
func NewProduct(accountID int64, platformType PlatformType, item FeedItem) (*Product, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	p := &Product{
		BaseEntity:   shared.NewBaseEntity(),
		AccountID:    accountID,
		PlatformType: platformType,
	}
	p.assign(item)
	return p, nil
}

// ApplyFeed overwrites the descriptive fields with the feed values. Links are
// left alone.
func (p *Product) ApplyFeed(item FeedItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	p.assign(item)
	p.Touch()
	return nil
}

func (p *Product) assign(item FeedItem) {
	p.Name = strings.TrimSpace(item.Name)
	p.Brand = strings.TrimSpace(item.Brand)
	p.SKU = strings.TrimSpace(item.SKU)
	p.Vendor = strings.TrimSpace(item.Vendor)
	p.Barcode = strings.TrimSpace(item.Barcode)
}

// IsWarehouse reports whether the product belongs to the warehouse system
func (p *Product) IsWarehouse() bool {
	return p.PlatformType.IsWarehouse()
}

// IsConnected reports whether the product points at a warehouse product
func (p *Product) IsConnected() bool {
	return p.ConnectionID != nil
}

// Connect points the product at a warehouse product. Manual links are set
// through ConnectManually.
func (p *Product) Connect(warehouseID int64) {
	p.ConnectionID = &warehouseID
	p.Touch()
}

// Disconnect clears the link and the manual flag
func (p *Product) Disconnect() {
	p.ConnectionID = nil
	p.HasManualConnection = false
	p.Touch()
}

// SearchKey is the case-folded text matched by search filters.
func (p *Product) SearchKey() string {
	return NormalizeSearch(p.Name + " " + p.Brand)
}

// NormalizeSearch folds case and collapses whitespace so that search text and
// stored keys compare the same way in every database.
func NormalizeSearch(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
