package reconcile

// ResolveIDs returns the selection identifiers of a row: the marketplace id
// first, then the warehouse id. The result is empty only for a row with
// neither side present.
func ResolveIDs(p Product) []ID {
	ids := make([]ID, 0, 2)
	if p.OtherMarketplace != nil {
		ids = append(ids, p.OtherMarketplace.ID)
	}
	if p.MoySklad != nil {
		ids = append(ids, p.MoySklad.ID)
	}
	return ids
}

// ResolveIDsChecked is ResolveIDs with the empty case reported as a
// *DataIntegrityError carrying the row position.
func ResolveIDsChecked(index int, p Product) ([]ID, error) {
	ids := ResolveIDs(p)
	if len(ids) == 0 {
		return nil, &DataIntegrityError{Index: index, Row: p}
	}
	return ids, nil
}

// VisibleIDs flattens the identifiers of all rows in display order. Rows that
// fail resolution are skipped and reported.
func VisibleIDs(rows []Product) ([]ID, []*DataIntegrityError) {
	ids := make([]ID, 0, len(rows)*2)
	var broken []*DataIntegrityError
	for i, row := range rows {
		rowIDs, err := ResolveIDsChecked(i, row)
		if err != nil {
			broken = append(broken, err.(*DataIntegrityError))
			continue
		}
		ids = append(ids, rowIDs...)
	}
	return ids, broken
}
