// Package selection holds the set of selected grid cells and the drag
// gesture state. Transitions are pure functions over an immutable State;
// Store wraps them as the single writer for a running client.
package selection

import (
	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/constants"
)

// Anchor is the cell a drag started on.
type Anchor struct {
	Block    blockid.ID
	HalfHour bool
}

// State is a snapshot of the selection. Selected maps block keys to true;
// an absent key is unselected. Transitions never modify a State in place.
type State struct {
	Selected       map[string]bool
	Anchor         *Anchor
	Dragging       bool
	RefreshCounter uint64
}

// Initial returns the empty state.
func Initial() State {
	return State{Selected: map[string]bool{}}
}

// IsSelected reports whether the cell is selected.
func (s State) IsSelected(id blockid.ID) bool {
	return s.Selected[id.Key()]
}

// Len returns the number of selected cells.
func (s State) Len() int {
	n := 0
	for _, v := range s.Selected {
		if v {
			n++
		}
	}
	return n
}

func (s State) cloneSelected() map[string]bool {
	out := make(map[string]bool, len(s.Selected))
	for k, v := range s.Selected {
		if v {
			out[k] = v
		}
	}
	return out
}

// setBlock selects or deselects a cell, and its half-hour partner when
// halfHour is set.
func setBlock(sel map[string]bool, id blockid.ID, halfHour, selected bool) {
	ids := []blockid.ID{id}
	if halfHour {
		ids = append(ids, id.Pair())
	}
	for _, b := range ids {
		if selected {
			sel[b.Key()] = true
		} else {
			delete(sel, b.Key())
		}
	}
}

// Toggle flips the cell's selection. With halfHour the partner cell follows.
// Drag state is untouched.
func Toggle(s State, id blockid.ID, halfHour bool) State {
	next := s
	next.Selected = s.cloneSelected()
	setBlock(next.Selected, id, halfHour, !s.Selected[id.Key()])
	return next
}

// StartDrag discards the current selection, anchors a drag on the cell and
// selects it.
func StartDrag(s State, id blockid.ID, halfHour bool) State {
	next := s
	next.Selected = map[string]bool{}
	next.Anchor = &Anchor{Block: id, HalfHour: halfHour}
	next.Dragging = true
	setBlock(next.Selected, id, halfHour, true)
	return next
}

// UpdateDrag replaces the selection with the range between the anchor and
// the cell. It is a no-op unless a drag is in progress.
func UpdateDrag(s State, id blockid.ID, halfHour bool) State {
	if !s.Dragging || s.Anchor == nil {
		return s
	}
	next := s
	next.Selected = map[string]bool{}
	for _, b := range Range(s.Anchor.Block, id, halfHour) {
		setBlock(next.Selected, b, halfHour, true)
	}
	return next
}

// EndDrag finishes the gesture and keeps whatever the drag last selected.
func EndDrag(s State) State {
	next := s
	next.Dragging = false
	next.Anchor = nil
	return next
}

// Clear empties the selection and cancels any drag.
func Clear(s State) State {
	next := s
	next.Selected = map[string]bool{}
	next.Dragging = false
	next.Anchor = nil
	return next
}

// TriggerRefresh bumps the refresh counter by one.
func TriggerRefresh(s State) State {
	next := s
	next.RefreshCounter++
	return next
}

// Range lists the cells between anchor and end inclusive, stepping by 30
// minutes when halfHour and 15 otherwise. The two cells may be in either
// order.
//
// When the dates differ only the anchor's day from the anchor onward and the
// end's day up to the end are covered. Days in between are skipped.
func Range(anchor, end blockid.ID, halfHour bool) []blockid.ID {
	step := constants.QuarterMinutes
	if halfHour {
		step = constants.HalfHourMinutes
	}

	if anchor.Date == end.Date {
		lo, hi := anchor.Minutes(), end.Minutes()
		if lo > hi {
			lo, hi = hi, lo
		}
		return span(anchor, lo, hi, step)
	}

	ids := span(anchor, anchor.Minutes(), constants.MinutesPerDay-1, step)
	return append(ids, span(end, 0, end.Minutes(), step)...)
}

func span(day blockid.ID, from, to, step int) []blockid.ID {
	var ids []blockid.ID
	for m := from; m <= to; m += step {
		ids = append(ids, day.AtMinutes(m))
	}
	return ids
}
