package shared

// Paging limits a list query. A zero Limit means no limit.
type Paging struct {
	Limit  int
	Offset int
}

// DefaultPageSize is used when a list request does not ask for a page size
const DefaultPageSize = 100

// MaxPageSize caps the page size a client may request
const MaxPageSize = 1000

// Normalize clamps the paging values
func (p Paging) Normalize() Paging {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Page is a list result with the total number of matching records
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

// NewPage creates a page, never returning a nil results slice
func NewPage[T any](results []T, count int64) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Results: results}
}
