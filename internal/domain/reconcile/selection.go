package reconcile

import "slices"

// SelectionSet tracks which identifiers are checked in the current view and
// which are queued for export.
//
// The visible index follows the displayed rows and is rebuilt on every
// Reindex. The export accumulator only grows through selection and only
// shrinks through an explicit per-id deselect or DeselectAll, so rows that
// scroll out of the current filter stay queued.
//
// SelectionSet is not safe for concurrent use.
type SelectionSet struct {
	visible     map[ID]bool
	accumulator map[ID]struct{}
}

// NewSelectionSet returns an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{
		visible:     make(map[ID]bool),
		accumulator: make(map[ID]struct{}),
	}
}

// Toggle flips the checked state of id and mirrors it into the export
// accumulator. An untracked id starts as unchecked, so its first toggle
// checks it. Returns the new state.
func (s *SelectionSet) Toggle(id ID) bool {
	checked := !s.visible[id]
	s.visible[id] = checked
	if checked {
		s.accumulator[id] = struct{}{}
	} else {
		delete(s.accumulator, id)
	}
	return checked
}

// ToggleRow checks every identifier of the row unless the row is already
// fully checked, in which case it unchecks them. Returns the row's new state.
func (s *SelectionSet) ToggleRow(p Product) (bool, error) {
	ids, err := ResolveIDsChecked(0, p)
	if err != nil {
		return false, err
	}
	target := !s.allChecked(ids)
	for _, id := range ids {
		if s.visible[id] != target {
			s.Toggle(id)
		}
	}
	return target, nil
}

// ToggleAll is the master checkbox. If every visible id is checked (which
// includes the empty list), all of them are unchecked and the accumulator is
// left as is. Otherwise all of them are checked and added to the accumulator.
// Returns true when the ids ended up checked.
func (s *SelectionSet) ToggleAll(visibleIDs []ID) bool {
	if s.allChecked(visibleIDs) {
		for _, id := range visibleIDs {
			s.visible[id] = false
		}
		return false
	}
	for _, id := range visibleIDs {
		s.visible[id] = true
		s.accumulator[id] = struct{}{}
	}
	return true
}

// Reindex aligns the visible index with a new row collection: new ids start
// unchecked, known ids keep their state, and ids no longer displayed leave
// the visible index. The export accumulator is never touched. Rows without
// identifiers are skipped and returned.
func (s *SelectionSet) Reindex(rows []Product) []*DataIntegrityError {
	ids, broken := VisibleIDs(rows)
	next := make(map[ID]bool, len(ids))
	for _, id := range ids {
		next[id] = s.visible[id]
	}
	s.visible = next
	return broken
}

// IsRowChecked reports whether every identifier of the row is checked. A row
// without identifiers is never checked.
func (s *SelectionSet) IsRowChecked(p Product) bool {
	ids := ResolveIDs(p)
	if len(ids) == 0 {
		return false
	}
	return s.allChecked(ids)
}

// IsMasterChecked reports the master checkbox state for the given ids. It is
// unchecked for an empty view.
func (s *SelectionSet) IsMasterChecked(visibleIDs []ID) bool {
	if len(visibleIDs) == 0 {
		return false
	}
	return s.allChecked(visibleIDs)
}

// IsChecked reports whether id is checked in the visible index.
func (s *SelectionSet) IsChecked(id ID) bool {
	return s.visible[id]
}

// Tracked reports whether id is part of the visible index.
func (s *SelectionSet) Tracked(id ID) bool {
	_, ok := s.visible[id]
	return ok
}

// IsQueued reports whether id is in the export accumulator.
func (s *SelectionSet) IsQueued(id ID) bool {
	_, ok := s.accumulator[id]
	return ok
}

// Export returns the accumulated identifiers in ascending order.
func (s *SelectionSet) Export() []ID {
	ids := make([]ID, 0, len(s.accumulator))
	for id := range s.accumulator {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of identifiers queued for export.
func (s *SelectionSet) Len() int {
	return len(s.accumulator)
}

// VisibleLen returns the size of the visible index.
func (s *SelectionSet) VisibleLen() int {
	return len(s.visible)
}

// DeselectAll unchecks every visible id and empties the export accumulator.
func (s *SelectionSet) DeselectAll() {
	for id := range s.visible {
		s.visible[id] = false
	}
	clear(s.accumulator)
}

func (s *SelectionSet) allChecked(ids []ID) bool {
	for _, id := range ids {
		if !s.visible[id] {
			return false
		}
	}
	return true
}
