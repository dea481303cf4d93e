package selection

import (
	"sort"
	"testing"

	"github.com/julianstephens/blockytime/internal/blockid"
)

func keys(s State) []string {
	out := make([]string, 0, len(s.Selected))
	for k, v := range s.Selected {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func equalKeys(t *testing.T, got State, want ...string) {
	t.Helper()
	g := keys(got)
	// canonical keys are unpadded
	for i, w := range want {
		want[i] = blockid.MustParse(w).Key()
	}
	sort.Strings(want)
	if len(g) != len(want) {
		t.Fatalf("selected %v, want %v", g, want)
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("selected %v, want %v", g, want)
		}
	}
}

func TestToggle(t *testing.T) {
	id := blockid.MustParse("2024-01-01-10-00")

	s := Toggle(Initial(), id, false)
	equalKeys(t, s, "2024-01-01-10-00")

	s = Toggle(s, id, false)
	equalKeys(t, s)
}

func TestToggleHalfHourPairs(t *testing.T) {
	tests := []struct {
		name string
		cell string
		pair string
	}{
		{"first quarter", "2024-01-01-10-00", "2024-01-01-10-15"},
		{"second quarter", "2024-01-01-10-15", "2024-01-01-10-00"},
		{"second half first quarter", "2024-01-01-10-30", "2024-01-01-10-45"},
		{"second half second quarter", "2024-01-01-10-45", "2024-01-01-10-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := blockid.MustParse(tt.cell)
			pair := blockid.MustParse(tt.pair)

			s := Toggle(Initial(), id, true)
			equalKeys(t, s, tt.cell, tt.pair)
			if s.IsSelected(id) != s.IsSelected(pair) {
				t.Fatal("pair out of sync after first toggle")
			}

			s = Toggle(s, id, true)
			equalKeys(t, s)
			if s.IsSelected(id) != s.IsSelected(pair) {
				t.Fatal("pair out of sync after second toggle")
			}
		})
	}
}

func TestToggleDoesNotTouchDrag(t *testing.T) {
	anchor := blockid.MustParse("2024-01-01-10-00")
	s := StartDrag(Initial(), anchor, false)
	s = Toggle(s, blockid.MustParse("2024-01-01-12-00"), false)

	if !s.Dragging || s.Anchor == nil || s.Anchor.Block != anchor {
		t.Fatalf("drag state changed by toggle: %+v", s)
	}
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	s0 := Toggle(Initial(), blockid.MustParse("2024-01-01-10-00"), false)
	_ = Toggle(s0, blockid.MustParse("2024-01-01-11-00"), false)
	_ = Clear(s0)
	_ = StartDrag(s0, blockid.MustParse("2024-01-01-09-00"), false)

	equalKeys(t, s0, "2024-01-01-10-00")
}

func TestStartDragReplacesSelection(t *testing.T) {
	s := Toggle(Initial(), blockid.MustParse("2024-01-01-08-00"), false)
	s = StartDrag(s, blockid.MustParse("2024-01-01-10-30"), true)

	equalKeys(t, s, "2024-01-01-10-30", "2024-01-01-10-45")
	if !s.Dragging {
		t.Error("expected dragging")
	}
	if s.Anchor == nil || !s.Anchor.HalfHour {
		t.Errorf("anchor = %+v", s.Anchor)
	}
}

func TestUpdateDragInclusiveEitherDirection(t *testing.T) {
	want := []string{
		"2024-01-01-10-00",
		"2024-01-01-10-15",
		"2024-01-01-10-30",
		"2024-01-01-10-45",
		"2024-01-01-11-00",
	}

	tests := []struct {
		name   string
		anchor string
		end    string
	}{
		{"forward", "2024-01-01-10-00", "2024-01-01-11-00"},
		{"backward", "2024-01-01-11-00", "2024-01-01-10-00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StartDrag(Initial(), blockid.MustParse(tt.anchor), false)
			s = UpdateDrag(s, blockid.MustParse(tt.end), false)
			equalKeys(t, s, want...)
		})
	}
}

func TestUpdateDragHalfHour(t *testing.T) {
	s := StartDrag(Initial(), blockid.MustParse("2024-01-01-10-00"), true)
	s = UpdateDrag(s, blockid.MustParse("2024-01-01-11-00"), true)

	equalKeys(t, s,
		"2024-01-01-10-00", "2024-01-01-10-15",
		"2024-01-01-10-30", "2024-01-01-10-45",
		"2024-01-01-11-00", "2024-01-01-11-15",
	)
}

func TestUpdateDragReplacesPreviousRange(t *testing.T) {
	s := StartDrag(Initial(), blockid.MustParse("2024-01-01-10-00"), false)
	s = UpdateDrag(s, blockid.MustParse("2024-01-01-12-00"), false)
	s = UpdateDrag(s, blockid.MustParse("2024-01-01-09-30"), false)

	equalKeys(t, s, "2024-01-01-09-30", "2024-01-01-09-45", "2024-01-01-10-00")
}

func TestUpdateDragWithoutDragIsNoop(t *testing.T) {
	s := Toggle(Initial(), blockid.MustParse("2024-01-01-08-00"), false)
	next := UpdateDrag(s, blockid.MustParse("2024-01-01-12-00"), false)
	equalKeys(t, next, "2024-01-01-08-00")

	ended := EndDrag(StartDrag(Initial(), blockid.MustParse("2024-01-01-10-00"), false))
	next = UpdateDrag(ended, blockid.MustParse("2024-01-01-12-00"), false)
	equalKeys(t, next, "2024-01-01-10-00")
}

func TestUpdateDragCrossDay(t *testing.T) {
	s := StartDrag(Initial(), blockid.MustParse("2024-01-01-23-00"), false)
	s = UpdateDrag(s, blockid.MustParse("2024-01-02-01-00"), false)

	equalKeys(t, s,
		"2024-01-01-23-00", "2024-01-01-23-15", "2024-01-01-23-30", "2024-01-01-23-45",
		"2024-01-02-00-00", "2024-01-02-00-15", "2024-01-02-00-30", "2024-01-02-00-45", "2024-01-02-01-00",
	)
}

func TestUpdateDragCrossDaySkipsIntermediateDays(t *testing.T) {
	s := StartDrag(Initial(), blockid.MustParse("2024-01-01-23-45"), false)
	s = UpdateDrag(s, blockid.MustParse("2024-01-03-00-00"), false)

	equalKeys(t, s, "2024-01-01-23-45", "2024-01-03-00-00")
}

func TestUpdateDragCrossDayHalfHourReachesLastQuarter(t *testing.T) {
	s := StartDrag(Initial(), blockid.MustParse("2024-01-01-23-30"), true)
	s = UpdateDrag(s, blockid.MustParse("2024-01-02-00-00"), true)

	equalKeys(t, s,
		"2024-01-01-23-30", "2024-01-01-23-45",
		"2024-01-02-00-00", "2024-01-02-00-15",
	)
}

func TestEndDragKeepsSelection(t *testing.T) {
	s := StartDrag(Initial(), blockid.MustParse("2024-01-01-10-00"), false)
	s = UpdateDrag(s, blockid.MustParse("2024-01-01-10-30"), false)
	s = EndDrag(s)

	if s.Dragging || s.Anchor != nil {
		t.Fatalf("drag not ended: %+v", s)
	}
	equalKeys(t, s, "2024-01-01-10-00", "2024-01-01-10-15", "2024-01-01-10-30")
}

func TestClear(t *testing.T) {
	s := StartDrag(Initial(), blockid.MustParse("2024-01-01-10-00"), false)
	s = Clear(s)

	if s.Len() != 0 || s.Dragging || s.Anchor != nil {
		t.Fatalf("not cleared: %+v", s)
	}
}

func TestTriggerRefreshIncrementsByOne(t *testing.T) {
	s := Initial()
	for i := uint64(1); i <= 3; i++ {
		s = TriggerRefresh(s)
		if s.RefreshCounter != i {
			t.Fatalf("counter = %d, want %d", s.RefreshCounter, i)
		}
	}

	s = Toggle(s, blockid.MustParse("2024-01-01-10-00"), false)
	s = Clear(s)
	if s.RefreshCounter != 3 {
		t.Errorf("counter changed by non-refresh transition: %d", s.RefreshCounter)
	}
}
