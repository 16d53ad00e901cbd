package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
)

// Query parameters of the list endpoints
const (
	ParamConnectionIsNull  = "connection__isnull"
	ParamProductPlatformIn = "account__platform__platform_type__in"
	ParamProductAccountIn  = "account__in"
	ParamOnlyNoConnections = "only-no-connections"
	ParamOrdersType        = "orders_type"
	ParamOrderPlatformIn   = "order__account__platform__platform_type__in"
	ParamOrderAccountIn    = "order__account__in"
	ParamSortBy            = "sort_by"
	ParamSearch            = "search"
	ParamLimit             = "limit"
	ParamOffset            = "offset"
	ParamWithWarehouse     = "with_moy_sklad"
)

const (
	defaultSuggestionsLimit = 10
	maxSuggestionsLimit     = 50
)

func invalidParam(name, value string) error {
	return shared.NewDomainError("INVALID_FILTER", fmt.Sprintf("Invalid value %q for %s", value, name))
}

// ParseBool reads the boolean spellings a query string may carry
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func parseInt64List(name, raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n <= 0 {
			return nil, invalidParam(name, raw)
		}
		out = append(out, n)
	}
	return out, nil
}

func parsePlatformList(name, raw string) ([]catalog.PlatformType, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]catalog.PlatformType, 0, len(parts))
	for _, p := range parts {
		t, err := catalog.ParsePlatformType(strings.TrimSpace(p))
		if err != nil {
			return nil, invalidParam(name, raw)
		}
		out = append(out, t)
	}
	return out, nil
}

func parsePaging(q url.Values) (shared.Paging, error) {
	var p shared.Paging
	if raw := q.Get(ParamLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, invalidParam(ParamLimit, raw)
		}
		p.Limit = n
	}
	if raw := q.Get(ParamOffset); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, invalidParam(ParamOffset, raw)
		}
		p.Offset = n
	}
	return p.Normalize(), nil
}

// ParseProductFilter reads the product list parameters of a user
func ParseProductFilter(userID int64, q url.Values) (catalog.ProductFilter, error) {
	f := catalog.ProductFilter{UserID: userID}

	if raw := q.Get(ParamConnectionIsNull); raw != "" {
		isNull, ok := ParseBool(raw)
		if !ok {
			return f, invalidParam(ParamConnectionIsNull, raw)
		}
		connected := !isNull
		f.Connected = &connected
	}
	if raw, ok := q[ParamOnlyNoConnections]; ok {
		// a bare flag counts as set
		v := true
		if len(raw) > 0 && raw[0] != "" {
			v, ok = ParseBool(raw[0])
			if !ok {
				return f, invalidParam(ParamOnlyNoConnections, raw[0])
			}
		}
		f.OnlyNoConnections = v
	}

	var err error
	if f.PlatformTypes, err = parsePlatformList(ParamProductPlatformIn, q.Get(ParamProductPlatformIn)); err != nil {
		return f, err
	}
	if f.AccountIDs, err = parseInt64List(ParamProductAccountIn, q.Get(ParamProductAccountIn)); err != nil {
		return f, err
	}
	if f.Sort, err = catalog.ParseRowSort(q.Get(ParamSortBy)); err != nil {
		return f, err
	}
	f.Search = q.Get(ParamSearch)
	f.Paging, err = parsePaging(q)
	return f, err
}

// ParseOrderItemFilter reads the orders board parameters of a user
func ParseOrderItemFilter(userID int64, q url.Values) (catalog.OrderItemFilter, error) {
	f := catalog.OrderItemFilter{UserID: userID}

	var err error
	if f.Type, err = catalog.ParseOrdersType(q.Get(ParamOrdersType)); err != nil {
		return f, err
	}
	if f.PlatformTypes, err = parsePlatformList(ParamOrderPlatformIn, q.Get(ParamOrderPlatformIn)); err != nil {
		return f, err
	}
	if f.AccountIDs, err = parseInt64List(ParamOrderAccountIn, q.Get(ParamOrderAccountIn)); err != nil {
		return f, err
	}
	if f.Sort, err = catalog.ParseOrderSort(q.Get(ParamSortBy)); err != nil {
		return f, err
	}
	f.Search = q.Get(ParamSearch)
	f.Paging, err = parsePaging(q)
	return f, err
}

// ParseSuggestionsLimit reads the limit of analogue suggestions
func ParseSuggestionsLimit(raw string) (int, error) {
	if raw == "" {
		return defaultSuggestionsLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, invalidParam(ParamLimit, raw)
	}
	return min(n, maxSuggestionsLimit), nil
}
