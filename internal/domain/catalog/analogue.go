package catalog

import (
	"slices"

	"github.com/agnivade/levenshtein"
)

// Analogue is a warehouse product suggested as a manual connection target.
type Analogue struct {
	Product  Product
	Distance int
}

// RankAnalogues orders candidates by edit distance between folded names, with
// a shared barcode ranking first. At most limit analogues are returned.
func RankAnalogues(target *Product, candidates []Product, limit int) []Analogue {
	name := NormalizeSearch(target.Name)
	out := make([]Analogue, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == target.ID || !c.IsWarehouse() {
			continue
		}
		d := levenshtein.ComputeDistance(name, NormalizeSearch(c.Name))
		if target.Barcode != "" && c.Barcode == target.Barcode {
			d = -1
		}
		out = append(out, Analogue{Product: c, Distance: d})
	}
	slices.SortStableFunc(out, func(a, b Analogue) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		switch {
		case a.Product.ID < b.Product.ID:
			return -1
		case a.Product.ID > b.Product.ID:
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
