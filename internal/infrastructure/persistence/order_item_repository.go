package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/infrastructure/persistence/models"
)

const orderItemColumns = `order_items.id AS id,
	orders.id AS order_id,
	orders.number AS order_number,
	products.id AS product_id,
	products.name AS product_name,
	products.brand AS brand,
	products.sku AS sku,
	products.barcode AS barcode,
	accounts.id AS account_id,
	accounts.name AS account_name,
	platforms.platform_type AS platform_type,
	order_statuses.name AS status_name,
	order_statuses.color AS status_color,
	order_items.quantity AS quantity,
	order_items.price AS price,
	order_items.sticker AS sticker,
	order_items.is_express AS is_express,
	orders.created_on AS created_on,
	orders.shipped_on AS shipped_on`

// GormOrderItemRepository implements catalog.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

func (r *GormOrderItemRepository) scoped(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN order_statuses ON order_statuses.id = orders.status_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN accounts ON accounts.id = orders.account_id").
		Joins("JOIN platforms ON platforms.id = accounts.platform_id").
		Scopes(OwnedBy(userID))
}

// FindPage returns one page of the user's order items
func (r *GormOrderItemRepository) FindPage(ctx context.Context, filter catalog.OrderItemFilter) ([]catalog.OrderItemView, int64, error) {
	q := r.scoped(ctx, filter.UserID)
	q = applyOrdersType(q, filter.Type, filter.Now)
	q = q.Scopes(OnPlatforms(filter.PlatformTypes), InAccounts("orders.account_id", filter.AccountIDs))
	if search := catalog.NormalizeSearch(filter.Search); search != "" {
		pattern := likePattern(search)
		q = q.Where(`(products.search_key LIKE ? ESCAPE '\' OR LOWER(orders.number) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	paging := filter.Paging.Normalize()
	var rows []models.OrderItemViewRow
	err := q.Session(&gorm.Session{}).
		Select(orderItemColumns).
		Order(orderItemOrderClause(filter.Sort)).
		Limit(paging.Limit).
		Offset(paging.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]catalog.OrderItemView, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// applyOrdersType restricts the query to one board tab
func applyOrdersType(q *gorm.DB, t catalog.OrdersType, now time.Time) *gorm.DB {
	start, end := catalog.DayBounds(now)
	switch t {
	case catalog.OrdersTypeUrgent:
		return q.Where("order_items.is_express = ?", true)
	case catalog.OrdersTypeToday:
		return q.Where("order_items.is_express = ?", false).
			Where("orders.created_on >= ? AND orders.created_on < ?", start, end)
	case catalog.OrdersTypeOther:
		return q.Where("order_items.is_express = ?", false).
			Where("(orders.created_on < ? OR orders.created_on >= ?)", start, end)
	default:
		return q
	}
}

type ordersCountsRow struct {
	Total  int64
	Urgent int64
	Today  int64
	Other  int64
}

// Counts returns the number of the user's items under every tab in one query
func (r *GormOrderItemRepository) Counts(ctx context.Context, userID int64, now time.Time) (catalog.OrdersCounts, error) {
	start, end := catalog.DayBounds(now)
	var row ordersCountsRow
	err := r.scoped(ctx, userID).Select(
		`COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN order_items.is_express = ? THEN 1 ELSE 0 END), 0) AS urgent,
		COALESCE(SUM(CASE WHEN order_items.is_express = ? AND orders.created_on >= ? AND orders.created_on < ? THEN 1 ELSE 0 END), 0) AS today,
		COALESCE(SUM(CASE WHEN order_items.is_express = ? AND (orders.created_on < ? OR orders.created_on >= ?) THEN 1 ELSE 0 END), 0) AS other`,
		true, false, start, end, false, start, end,
	).Scan(&row).Error
	if err != nil {
		return catalog.OrdersCounts{}, err
	}
	return catalog.OrdersCounts{All: row.Total, Urgent: row.Urgent, Today: row.Today, Other: row.Other}, nil
}

var _ catalog.OrderItemRepository = (*GormOrderItemRepository)(nil)
