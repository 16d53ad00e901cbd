package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erp/reconciler/internal/domain/catalog"
)

// UserModel is the persistence model for catalog.User
type UserModel struct {
	BaseModel
	Email        string     `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	IsActive     bool       `gorm:"not null;default:true"`
	IsStaff      bool       `gorm:"not null;default:false"`
	LastLoginAt  *time.Time `gorm:"default:null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *catalog.User {
	return &catalog.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		IsStaff:      m.IsStaff,
		LastLoginAt:  m.LastLoginAt,
	}
}

// UserModelFromDomain creates a model from a domain User
func UserModelFromDomain(u *catalog.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsStaff:      u.IsStaff,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// PlatformModel is the persistence model for catalog.Platform
type PlatformModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null"`
	PlatformType int    `gorm:"not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PlatformModel) TableName() string {
	return "platforms"
}

// ToDomain converts the model to a domain Platform
func (m *PlatformModel) ToDomain() *catalog.Platform {
	return &catalog.Platform{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Type:       catalog.PlatformType(m.PlatformType),
	}
}

// PlatformModelFromDomain creates a model from a domain Platform
func PlatformModelFromDomain(p *catalog.Platform) *PlatformModel {
	m := &PlatformModel{Name: p.Name, PlatformType: int(p.Type)}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// AccountModel is the persistence model for catalog.Account. The platform
// type is read through a join and never written.
type AccountModel struct {
	BaseModel
	UserID              int64             `gorm:"not null;index"`
	PlatformID          int64             `gorm:"not null;index"`
	Name                string            `gorm:"type:varchar(100);not null"`
	AuthorizationFields map[string]string `gorm:"type:text;serializer:json"`
	PlatformType        int               `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the model to a domain Account
func (m *AccountModel) ToDomain() *catalog.Account {
	fields := m.AuthorizationFields
	if fields == nil {
		fields = map[string]string{}
	}
	return &catalog.Account{
		BaseEntity:          m.BaseModel.ToDomain(),
		UserID:              m.UserID,
		PlatformID:          m.PlatformID,
		PlatformType:        catalog.PlatformType(m.PlatformType),
		Name:                m.Name,
		AuthorizationFields: fields,
	}
}

// AccountModelFromDomain creates a model from a domain Account
func AccountModelFromDomain(a *catalog.Account) *AccountModel {
	m := &AccountModel{
		UserID:              a.UserID,
		PlatformID:          a.PlatformID,
		Name:                a.Name,
		AuthorizationFields: a.AuthorizationFields,
		PlatformType:        int(a.PlatformType),
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// ProductModel is the persistence model for catalog.Product. SearchKey holds
// the folded name and brand so that searches are case-insensitive for any
// script on every database.
type ProductModel struct {
	BaseModel
	AccountID           int64  `gorm:"not null;index"`
	Name                string `gorm:"type:text;not null"`
	Brand               string `gorm:"type:text;not null;default:''"`
	SKU                 string `gorm:"column:sku;type:varchar(255);not null;default:''"`
	Vendor              string `gorm:"type:varchar(255);not null;default:''"`
	Barcode             string `gorm:"type:varchar(255);not null;default:'';index"`
	ConnectionID        *int64 `gorm:"index"`
	HasManualConnection bool   `gorm:"not null;default:false"`
	SearchKey           string `gorm:"type:varchar(512);not null;default:''"`
	PlatformType        int    `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:          m.BaseModel.ToDomain(),
		AccountID:           m.AccountID,
		PlatformType:        catalog.PlatformType(m.PlatformType),
		Name:                m.Name,
		Brand:               m.Brand,
		SKU:                 m.SKU,
		Vendor:              m.Vendor,
		Barcode:             m.Barcode,
		ConnectionID:        m.ConnectionID,
		HasManualConnection: m.HasManualConnection,
	}
}

// ProductModelFromDomain creates a model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		AccountID:           p.AccountID,
		Name:                p.Name,
		Brand:               p.Brand,
		SKU:                 p.SKU,
		Vendor:              p.Vendor,
		Barcode:             p.Barcode,
		ConnectionID:        p.ConnectionID,
		HasManualConnection: p.HasManualConnection,
		SearchKey:           p.SearchKey(),
		PlatformType:        int(p.PlatformType),
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// OrderStatusModel is the persistence model for catalog.OrderStatus
type OrderStatusModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(100);not null"`
	Color      string `gorm:"type:varchar(20);not null;default:''"`
	StatusCode int    `gorm:"not null"`
	Position   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderStatusModel) TableName() string {
	return "order_statuses"
}

// ToDomain converts the model to a domain OrderStatus
func (m *OrderStatusModel) ToDomain() *catalog.OrderStatus {
	return &catalog.OrderStatus{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Color:      m.Color,
		StatusCode: m.StatusCode,
		Position:   m.Position,
	}
}

// OrderModel is the persistence model for catalog.Order
type OrderModel struct {
	BaseModel
	AccountID  int64           `gorm:"not null;index"`
	StatusID   int64           `gorm:"not null;index"`
	Number     string          `gorm:"type:varchar(100);not null"`
	CreatedOn  time.Time       `gorm:"not null;index"`
	ShippedOn  *time.Time      `gorm:"default:null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain Order
func (m *OrderModel) ToDomain() *catalog.Order {
	return &catalog.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		AccountID:  m.AccountID,
		StatusID:   m.StatusID,
		Number:     m.Number,
		CreatedOn:  m.CreatedOn,
		ShippedOn:  m.ShippedOn,
		TotalPrice: m.TotalPrice,
	}
}

// OrderItemModel is the persistence model for catalog.OrderItem
type OrderItemModel struct {
	BaseModel
	OrderID   int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"not null;index"`
	Quantity  int             `gorm:"not null;default:1"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Sticker   string          `gorm:"type:varchar(255);not null;default:''"`
	IsExpress bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model to a domain OrderItem
func (m *OrderItemModel) ToDomain() *catalog.OrderItem {
	return &catalog.OrderItem{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Price:      m.Price,
		Sticker:    m.Sticker,
		IsExpress:  m.IsExpress,
	}
}

// OrderItemViewRow is the flat result of the orders board query
type OrderItemViewRow struct {
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
	PlatformType int
	StatusName   string
	StatusColor  string
	Quantity     int
	Price        decimal.Decimal
	Sticker      string
	IsExpress    bool
	CreatedOn    time.Time
	ShippedOn    *time.Time
}

// ToDomain converts the row to a domain OrderItemView
func (r *OrderItemViewRow) ToDomain() catalog.OrderItemView {
	return catalog.OrderItemView{
		ID:           r.ID,
		OrderID:      r.OrderID,
		OrderNumber:  r.OrderNumber,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		Brand:        r.Brand,
		SKU:          r.SKU,
		Barcode:      r.Barcode,
		AccountID:    r.AccountID,
		AccountName:  r.AccountName,
		PlatformType: catalog.PlatformType(r.PlatformType),
		StatusName:   r.StatusName,
		StatusColor:  r.StatusColor,
		Quantity:     r.Quantity,
		Price:        r.Price,
		Sticker:      r.Sticker,
		IsExpress:    r.IsExpress,
		CreatedOn:    r.CreatedOn,
		ShippedOn:    r.ShippedOn,
	}
}

// All returns every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&PlatformModel{},
		&AccountModel{},
		&ProductModel{},
		&OrderStatusModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
