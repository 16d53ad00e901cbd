package reconcile

import (
	"slices"
	"strings"
)

// LinkType filters rows by whether both sides are connected.
type LinkType int

const (
	LinkAny LinkType = iota
	LinkLinked
	LinkUnlinked
)

// String returns the display name of the link type.
func (l LinkType) String() string {
	switch l {
	case LinkAny:
		return "any"
	case LinkLinked:
		return "linked"
	case LinkUnlinked:
		return "unlinked"
	default:
		return "unknown"
	}
}

// IsValid reports whether l is one of the declared link types.
func (l LinkType) IsValid() bool {
	return l >= LinkAny && l <= LinkUnlinked
}

// UnlinkedSubtype narrows the unlinked view to the side that lacks a partner.
type UnlinkedSubtype int

const (
	SubtypeNone UnlinkedSubtype = iota
	SubtypeMarketplaceOnly
	SubtypeWarehouseOnly
)

// String returns the display name of the subtype.
func (s UnlinkedSubtype) String() string {
	switch s {
	case SubtypeNone:
		return "none"
	case SubtypeMarketplaceOnly:
		return "marketplace_only"
	case SubtypeWarehouseOnly:
		return "warehouse_only"
	default:
		return "unknown"
	}
}

// IsValid reports whether s is one of the declared subtypes.
func (s UnlinkedSubtype) IsValid() bool {
	return s >= SubtypeNone && s <= SubtypeWarehouseOnly
}

// SortColumn is a sortable column of the connections table.
type SortColumn string

const (
	SortColumnMarket   SortColumn = "market"
	SortColumnMoySklad SortColumn = "moy_sklad"
)

// descendingPrefix marks a descending sort key on the wire.
const descendingPrefix = "-"

// SortKey is a sort column optionally prefixed with "-" for descending order.
type SortKey string

// DefaultSortKey sorts by marketplace name ascending.
const DefaultSortKey SortKey = SortKey(SortColumnMarket)

// Column returns the column part of the key.
func (k SortKey) Column() SortColumn {
	return SortColumn(strings.TrimPrefix(string(k), descendingPrefix))
}

// Descending reports whether the key carries the descending marker.
func (k SortKey) Descending() bool {
	return strings.HasPrefix(string(k), descendingPrefix)
}

// Flip returns the same column in the opposite direction.
func (k SortKey) Flip() SortKey {
	if k.Descending() {
		return SortKey(k.Column())
	}
	return SortKey(descendingPrefix + string(k.Column()))
}

// ParseSortKey validates a connections sort key against the fixed vocabulary.
func ParseSortKey(raw string) (SortKey, error) {
	key := SortKey(strings.TrimSpace(raw))
	switch key.Column() {
	case SortColumnMarket, SortColumnMoySklad:
		return key, nil
	default:
		return "", ErrUnknownSortKey
	}
}

// FilterState is the immutable filter of the connections view. Transitions
// return a new value and never modify the receiver.
type FilterState struct {
	linkType        LinkType
	unlinkedSubtype UnlinkedSubtype
	platformIDs     idSet
	accountIDs      idSet
	sortKey         SortKey
	searchText      string
}

// NewFilterState returns the state a page starts with: any link type, no
// platform or account restriction, default sort, empty search.
func NewFilterState() FilterState {
	return FilterState{
		linkType:        LinkAny,
		unlinkedSubtype: SubtypeNone,
		sortKey:         DefaultSortKey,
	}
}

func (s FilterState) LinkType() LinkType               { return s.linkType }
func (s FilterState) UnlinkedSubtype() UnlinkedSubtype { return s.unlinkedSubtype }
func (s FilterState) SortKey() SortKey                 { return s.sortKey }
func (s FilterState) SearchText() string               { return s.searchText }

// PlatformIDs returns the selected platform ids in ascending order.
func (s FilterState) PlatformIDs() []int { return s.platformIDs.values() }

// AccountIDs returns the selected account ids in ascending order.
func (s FilterState) AccountIDs() []int { return s.accountIDs.values() }

// HasPlatform reports whether the platform is part of the filter.
func (s FilterState) HasPlatform(id int) bool { return s.platformIDs.has(id) }

// HasAccount reports whether the account is part of the filter.
func (s FilterState) HasAccount(id int) bool { return s.accountIDs.has(id) }

// WithLinkType sets the link type. Leaving the unlinked view clears the subtype.
func (s FilterState) WithLinkType(t LinkType) (FilterState, error) {
	if !t.IsValid() {
		return s, ErrUnknownLinkType
	}
	s.linkType = t
	if t != LinkUnlinked {
		s.unlinkedSubtype = SubtypeNone
	}
	return s, nil
}

// WithUnlinkedSubtype sets the subtype. Anything but SubtypeNone requires the
// unlinked link type. The platform set is left untouched; the warehouse
// override only happens at translation time.
func (s FilterState) WithUnlinkedSubtype(sub UnlinkedSubtype) (FilterState, error) {
	if !sub.IsValid() {
		return s, ErrUnknownSubtype
	}
	if sub != SubtypeNone && s.linkType != LinkUnlinked {
		return s, ErrSubtypeNeedsUnlinked
	}
	s.unlinkedSubtype = sub
	return s, nil
}

// TogglePlatform adds the platform if absent, removes it otherwise.
func (s FilterState) TogglePlatform(id int) FilterState {
	s.platformIDs = s.platformIDs.toggle(id)
	return s
}

// ToggleAccount adds the account if absent, removes it otherwise.
func (s FilterState) ToggleAccount(id int) FilterState {
	s.accountIDs = s.accountIDs.toggle(id)
	return s
}

// WithSort flips direction when key targets the column already driving the
// sort, otherwise adopts the key's column ascending.
func (s FilterState) WithSort(key SortKey) (FilterState, error) {
	key, err := ParseSortKey(string(key))
	if err != nil {
		return s, err
	}
	if key.Column() == s.sortKey.Column() {
		s.sortKey = s.sortKey.Flip()
		return s, nil
	}
	s.sortKey = SortKey(key.Column())
	return s, nil
}

// WithSearchText replaces the search text. Search narrows within the other
// filter dimensions.
func (s FilterState) WithSearchText(text string) FilterState {
	s.searchText = text
	return s
}

// Equal reports whether two states describe the same filter.
func (s FilterState) Equal(other FilterState) bool {
	return s.linkType == other.linkType &&
		s.unlinkedSubtype == other.unlinkedSubtype &&
		s.sortKey == other.sortKey &&
		s.searchText == other.searchText &&
		slices.Equal(s.platformIDs, other.platformIDs) &&
		slices.Equal(s.accountIDs, other.accountIDs)
}

// idSet is a sorted, duplicate-free set of ints. Mutations copy.
type idSet []int

func (s idSet) has(id int) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

func (s idSet) toggle(id int) idSet {
	i, found := slices.BinarySearch(s, id)
	out := make(idSet, 0, len(s)+1)
	out = append(out, s[:i]...)
	if !found {
		out = append(out, id)
		out = append(out, s[i:]...)
	} else {
		out = append(out, s[i+1:]...)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s idSet) values() []int {
	return slices.Clone([]int(s))
}
