package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erp/reconciler/internal/domain/catalog"
)

// ProductEntity is one side of a product row
type ProductEntity struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Brand   string `json:"brand"`
	SKU     string `json:"sku"`
	Vendor  string `json:"vendor"`
	Barcode string `json:"barcode"`
}

// ProductRowResponse pairs a marketplace listing with its warehouse item
type ProductRowResponse struct {
	OtherMarketplace *ProductEntity `json:"other_marketplace"`
	MoySklad         *ProductEntity `json:"moy_sklad"`
}

func toProductEntity(p *catalog.Product) *ProductEntity {
	if p == nil {
		return nil
	}
	return &ProductEntity{
		ID:      p.ID,
		Name:    p.Name,
		Brand:   p.Brand,
		SKU:     p.SKU,
		Vendor:  p.Vendor,
		Barcode: p.Barcode,
	}
}

// ToProductRowResponses converts domain rows
func ToProductRowResponses(rows []catalog.Row) []ProductRowResponse {
	out := make([]ProductRowResponse, len(rows))
	for i, r := range rows {
		out[i] = ProductRowResponse{
			OtherMarketplace: toProductEntity(r.Marketplace),
			MoySklad:         toProductEntity(r.Warehouse),
		}
	}
	return out
}

// AnalogueResponse is a suggested warehouse product
type AnalogueResponse struct {
	Product  ProductEntity `json:"product"`
	Distance int           `json:"distance"`
}

// CreateManualConnectionRequest links two products by hand
type CreateManualConnectionRequest struct {
	MarketplaceProductID int64 `json:"other_marketplace_product" binding:"required,gt=0"`
	WarehouseProductID   int64 `json:"moy_sklad_product" binding:"required,gt=0"`
}

// SyncProductsRequest carries a platform feed
type SyncProductsRequest struct {
	Products []catalog.FeedItem `json:"products" binding:"dive"`
}

// SyncResult reports what a feed sync changed
type SyncResult struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
	Relinked int `json:"relinked"`
}

// RefreshResult reports how many connections a refresh changed
type RefreshResult struct {
	Changed int `json:"changed"`
}

// AccountResponse is an account as the filters list it
type AccountResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AccountDetailResponse is returned when an account is created
type AccountDetailResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PlatformType int       `json:"platform_type"`
	Platform     string    `json:"platform"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateAccountRequest creates an account on a platform
type CreateAccountRequest struct {
	Name                string            `json:"name" binding:"required,max=100"`
	PlatformType        *int              `json:"platform_type" binding:"required,min=0,max=4"`
	AuthorizationFields map[string]string `json:"authorization_fields" binding:"required"`
}

// OrderItemResponse is one line of the orders board
type OrderItemResponse struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Sticker        string          `json:"sticker"`
	IsExpress      bool            `json:"is_express"`
	OrderNumber    string          `json:"order_number"`
	StatusName     string          `json:"order_status_name"`
	StatusColor    string          `json:"order_status_color"`
	PlatformName   string          `json:"platform_name"`
	AccountName    string          `json:"account_name"`
	ProductName    string          `json:"product_name"`
	ProductBrand   string          `json:"product_brand"`
	ProductBarcode string          `json:"product_barcode"`
	CreatedAt      string          `json:"created_dt"`
	ShippedAt      *string         `json:"shipped_dt"`
}

const dateLayout = "2006-01-02"

func toOrderItemResponse(v catalog.OrderItemView) OrderItemResponse {
	r := OrderItemResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		Quantity:       v.Quantity,
		Price:          v.Price,
		Sticker:        v.Sticker,
		IsExpress:      v.IsExpress,
		OrderNumber:    v.OrderNumber,
		StatusName:     v.StatusName,
		StatusColor:    v.StatusColor,
		PlatformName:   v.PlatformType.Label(),
		AccountName:    v.AccountName,
		ProductName:    v.ProductName,
		ProductBrand:   v.Brand,
		ProductBarcode: v.Barcode,
		CreatedAt:      v.CreatedOn.Format(dateLayout),
	}
	if v.ShippedOn != nil {
		s := v.ShippedOn.Format(dateLayout)
		r.ShippedAt = &s
	}
	return r
}

// ExportRequest lists the product ids to export
type ExportRequest struct {
	Products []int64 `json:"products" binding:"required,min=1,max=10000"`
}

// ExportResult is a rendered report
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	// ArchiveURL is set when a copy was archived
	ArchiveURL string
}
