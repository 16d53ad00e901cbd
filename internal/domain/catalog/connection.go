package catalog

import "slices"

// ValidateManualConnection checks that a marketplace product may be linked by
// hand to a warehouse product.
func ValidateManualConnection(marketplace, warehouse *Product) error {
	if marketplace.ID == warehouse.ID {
		return ErrSelfConnection
	}
	if !warehouse.IsWarehouse() {
		return ErrNotWarehouseProduct
	}
	if marketplace.IsWarehouse() {
		return ErrNotMarketplaceProduct
	}
	return nil
}

// ConnectManually links marketplace to warehouse and marks both sides as
// manually connected so that automatic refreshes and catalog syncs keep them.
func ConnectManually(marketplace, warehouse *Product) error {
	if err := ValidateManualConnection(marketplace, warehouse); err != nil {
		return err
	}
	marketplace.Connect(warehouse.ID)
	marketplace.HasManualConnection = true
	warehouse.HasManualConnection = true
	warehouse.Touch()
	return nil
}

// MatchByBarcode recomputes automatic connections. Every marketplace product
// without a manual connection is linked to the lowest-id warehouse product
// sharing its barcode, or unlinked when none does. Empty barcodes never
// match. Only the products whose connection changed are returned.
func MatchByBarcode(marketplace, warehouse []Product) []Product {
	byBarcode := make(map[string]int64, len(warehouse))
	sorted := slices.Clone(warehouse)
	slices.SortFunc(sorted, func(a, b Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	for _, w := range sorted {
		if w.Barcode == "" {
			continue
		}
		if _, ok := byBarcode[w.Barcode]; !ok {
			byBarcode[w.Barcode] = w.ID
		}
	}

	changed := make([]Product, 0)
	for _, p := range marketplace {
		if p.HasManualConnection || p.IsWarehouse() {
			continue
		}
		var target *int64
		if id, ok := byBarcode[p.Barcode]; ok && p.Barcode != "" {
			target = &id
		}
		if sameConnection(p.ConnectionID, target) {
			continue
		}
		if target == nil {
			p.Disconnect()
		} else {
			p.Connect(*target)
		}
		changed = append(changed, p)
	}
	return changed
}

func sameConnection(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
