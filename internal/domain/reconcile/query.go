package reconcile

import (
	"net/url"
	"strconv"
	"strings"
)

// Collections served by the catalog API
const (
	CollectionProducts   = "products"
	CollectionOrderItems = "order-items"
)

// Wire parameter names of the products collection
const (
	ParamConnectionIsNull = "connection__isnull"
	ParamPlatformTypeIn   = "account__platform__platform_type__in"
	ParamAccountIn        = "account__in"
	ParamSortBy           = "sort_by"
	ParamSearch           = "search"
)

// Platform ids as indexed by the platform types listing
const (
	PlatformWildberries  = 0
	PlatformYandexMarket = 1
	PlatformMegaMarket   = 2
	PlatformOzon         = 3
	// WarehousePlatformID is the pseudo-platform of the warehouse system.
	WarehousePlatformID = 4
)

// MarketplacePlatformIDs lists every platform that is not the warehouse.
func MarketplacePlatformIDs() []int {
	return []int{PlatformWildberries, PlatformYandexMarket, PlatformMegaMarket, PlatformOzon}
}

// Param is a single query parameter.
type Param struct {
	Name  string
	Value string
}

// QueryDescriptor is a canonical request description: a collection and its
// parameters in a fixed order.
type QueryDescriptor struct {
	Collection string
	Params     []Param
}

// Get returns the value of the named parameter.
func (q QueryDescriptor) Get(name string) (string, bool) {
	for _, p := range q.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether the named parameter is present.
func (q QueryDescriptor) Has(name string) bool {
	_, ok := q.Get(name)
	return ok
}

// Encode renders the parameters as a query string, preserving their order.
func (q QueryDescriptor) Encode() string {
	var b strings.Builder
	for i, p := range q.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Path returns the collection path with a trailing slash and the encoded query.
func (q QueryDescriptor) Path() string {
	path := q.Collection + "/"
	if len(q.Params) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// String implements fmt.Stringer
func (q QueryDescriptor) String() string {
	return q.Path()
}

// ProductsQuery translates a filter state into the products request. The
// parameter order is link, platform, account, sort, search. Empty sets and
// empty search are omitted since the server reads an absent parameter as
// "no restriction".
func ProductsQuery(s FilterState) QueryDescriptor {
	q := QueryDescriptor{Collection: CollectionProducts}

	switch s.linkType {
	case LinkLinked:
		q.Params = append(q.Params, Param{ParamConnectionIsNull, "false"})
	case LinkUnlinked:
		q.Params = append(q.Params, Param{ParamConnectionIsNull, "true"})
	}

	if platforms := effectivePlatforms(s); len(platforms) > 0 {
		q.Params = append(q.Params, Param{ParamPlatformTypeIn, joinInts(platforms)})
	}

	if len(s.accountIDs) > 0 {
		q.Params = append(q.Params, Param{ParamAccountIn, joinInts(s.accountIDs)})
	}

	sortKey := s.sortKey
	if sortKey == "" {
		sortKey = DefaultSortKey
	}
	q.Params = append(q.Params, Param{ParamSortBy, string(sortKey)})

	if s.searchText != "" {
		q.Params = append(q.Params, Param{ParamSearch, s.searchText})
	}
	return q
}

// effectivePlatforms applies the unlinked subtype override.
func effectivePlatforms(s FilterState) []int {
	if s.linkType == LinkUnlinked {
		switch s.unlinkedSubtype {
		case SubtypeWarehouseOnly:
			return []int{WarehousePlatformID}
		case SubtypeMarketplaceOnly:
			if len(s.platformIDs) == 0 {
				return MarketplacePlatformIDs()
			}
		}
	}
	return s.platformIDs
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
