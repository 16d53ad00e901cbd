// Package catalog holds the server-side model of marketplace accounts, their
// products, the links between marketplace listings and warehouse items, and
// marketplace orders.
package catalog

import (
	"encoding/json"
	"strconv"

	"github.com/erp/reconciler/internal/domain/shared"
)

// PlatformType identifies a sales platform. The numeric value is the index
// used by the platform type listing and in filters.
type PlatformType int

const (
	PlatformWildberries PlatformType = iota
	PlatformYandexMarket
	PlatformMegaMarket
	PlatformOzon
	// PlatformMoySklad is the warehouse system, not a marketplace.
	PlatformMoySklad
)

var platformLabels = [...]string{
	PlatformWildberries:  "Wildberries",
	PlatformYandexMarket: "Yandex Market",
	PlatformMegaMarket:   "MegaMarket",
	PlatformOzon:         "OZON",
	PlatformMoySklad:     "Moy Sklad",
}

// ParsePlatformType parses the numeric form used in URLs and filters.
func ParsePlatformType(raw string) (PlatformType, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrUnknownPlatformType
	}
	t := PlatformType(n)
	if !t.IsValid() {
		return 0, ErrUnknownPlatformType
	}
	return t, nil
}

// IsValid reports whether t is a known platform
func (t PlatformType) IsValid() bool {
	return t >= PlatformWildberries && t <= PlatformMoySklad
}

// IsWarehouse reports whether t is the warehouse pseudo-platform
func (t PlatformType) IsWarehouse() bool {
	return t == PlatformMoySklad
}

// Label returns the display name
func (t PlatformType) Label() string {
	if !t.IsValid() {
		return "unknown"
	}
	return platformLabels[t]
}

// String implements fmt.Stringer
func (t PlatformType) String() string {
	return t.Label()
}

// MarketplacePlatformTypes lists every platform except the warehouse.
func MarketplacePlatformTypes() []PlatformType {
	return []PlatformType{PlatformWildberries, PlatformYandexMarket, PlatformMegaMarket, PlatformOzon}
}

// PlatformLabels returns the labels indexed by platform type. The warehouse is
// last and only included on request.
func PlatformLabels(withWarehouse bool) []string {
	labels := platformLabels[:]
	if !withWarehouse {
		labels = labels[:PlatformMoySklad]
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// AuthFieldType is the input type of an authorization field
type AuthFieldType string

const (
	AuthFieldNumber   AuthFieldType = "number"
	AuthFieldText     AuthFieldType = "text"
	AuthFieldPassword AuthFieldType = "password"
)

// defaultAuthFieldMaxLength bounds every authorization value
const defaultAuthFieldMaxLength = 255

// AuthField describes one credential an account on a platform needs.
type AuthField struct {
	Key       string        `json:"-"`
	Name      string        `json:"name"`
	Type      AuthFieldType `json:"type"`
	MaxLength int           `json:"max_length"`
}

// AuthFields is an ordered field description. It encodes as an object keyed
// by field key.
type AuthFields []AuthField

// MarshalJSON encodes the description as {"key": {"name", "type", "max_length"}}
func (f AuthFields) MarshalJSON() ([]byte, error) {
	m := make(map[string]AuthField, len(f))
	for _, field := range f {
		m[field.Key] = field
	}
	return json.Marshal(m)
}

// Lookup finds a field by key
func (f AuthFields) Lookup(key string) (AuthField, bool) {
	for _, field := range f {
		if field.Key == key {
			return field, true
		}
	}
	return AuthField{}, false
}

// AuthFieldsDescription returns the credentials each platform requires.
func AuthFieldsDescription(t PlatformType) AuthFields {
	switch t {
	case PlatformOzon:
		return AuthFields{
			{Key: "token", Name: "Token", Type: AuthFieldText, MaxLength: defaultAuthFieldMaxLength},
			{Key: "client_id", Name: "Client ID", Type: AuthFieldText, MaxLength: defaultAuthFieldMaxLength},
		}
	case PlatformMoySklad:
		return AuthFields{
			{Key: "login", Name: "Login", Type: AuthFieldText, MaxLength: defaultAuthFieldMaxLength},
			{Key: "password", Name: "Password", Type: AuthFieldPassword, MaxLength: defaultAuthFieldMaxLength},
		}
	default:
		return AuthFields{
			{Key: "token", Name: "Token", Type: AuthFieldText, MaxLength: defaultAuthFieldMaxLength},
		}
	}
}

// Platform is a configured sales platform row.
type Platform struct {
	shared.BaseEntity
	Name string
	Type PlatformType
}
