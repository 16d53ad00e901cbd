package persistence

import (
	"strings"

	"github.com/erp/reconciler/internal/domain/catalog"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if column, ok := allowedFields[trimmed]; ok {
		return column
	}
	return allowedFields[defaultField]
}

// OrderItemSortColumns maps the orders board sort keys to columns of the
// joined query
var OrderItemSortColumns = map[string]string{
	catalog.OrderSortNumber:  "orders.number",
	catalog.OrderSortBrand:   "products.brand",
	catalog.OrderSortCreated: "orders.created_on",
	catalog.OrderSortShipped: "orders.shipped_on",
	catalog.OrderSortStatus:  "order_statuses.position",
}

// orderItemOrderClause builds the ORDER BY clause of the orders board. Item
// id breaks ties so that pages are stable.
func orderItemOrderClause(s catalog.OrderSort) string {
	column := ValidateSortField(s.Key, OrderItemSortColumns, catalog.DefaultOrderSort.Key)
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	return column + " " + ValidateSortOrder(dir) + ", order_items.id " + dir
}
