package selection

import (
	"sort"
	"sync"

	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/logger"
)

// RefreshEvent announces that a mutation was committed. Counter is the
// store's refresh counter after the increment; consumers compare it against
// the last value they handled.
type RefreshEvent struct {
	Counter uint64
}

// Store owns the current selection State. All writes go through it; readers
// get immutable snapshots.
type Store struct {
	mu    sync.RWMutex
	state State

	subs   map[int]chan RefreshEvent
	nextID int
}

// NewStore returns a store in the initial state.
func NewStore() *Store {
	return &Store{
		state: Initial(),
		subs:  make(map[int]chan RefreshEvent),
	}
}

// State returns the current snapshot. Callers must not modify its map.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) apply(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

func (s *Store) Toggle(id blockid.ID, halfHour bool) {
	st := s.apply(func(cur State) State { return Toggle(cur, id, halfHour) })
	logger.Debug("selection toggled", "block", id.Key(), "half_hour", halfHour, "selected", st.IsSelected(id))
}

func (s *Store) StartDrag(id blockid.ID, halfHour bool) {
	s.apply(func(cur State) State { return StartDrag(cur, id, halfHour) })
	logger.Debug("drag started", "anchor", id.Key(), "half_hour", halfHour)
}

func (s *Store) UpdateDrag(id blockid.ID, halfHour bool) {
	s.apply(func(cur State) State { return UpdateDrag(cur, id, halfHour) })
}

func (s *Store) EndDrag() {
	st := s.apply(EndDrag)
	logger.Debug("drag ended", "selected", st.Len())
}

func (s *Store) Clear() {
	s.apply(Clear)
}

// IsDragging reports whether a drag gesture is active.
func (s *Store) IsDragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Dragging
}

// IsSelected reports whether the cell is selected.
func (s *Store) IsSelected(id blockid.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsSelected(id)
}

// SelectedIDs returns the selected cells in chronological order. Keys that
// fail to parse are skipped and logged.
func (s *Store) SelectedIDs() []blockid.ID {
	s.mu.RLock()
	keys := make([]string, 0, len(s.state.Selected))
	for k, v := range s.state.Selected {
		if v {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()

	ids := make([]blockid.ID, 0, len(keys))
	for _, k := range keys {
		id, err := blockid.Parse(k)
		if err != nil {
			logger.Warn("dropping unparsable selection key", "key", k, "error", err)
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Before(ids[j]) })
	return ids
}

// Subscribe registers for refresh events. The returned function releases
// the subscription and closes the channel.
func (s *Store) Subscribe() (<-chan RefreshEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan RefreshEvent, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// TriggerRefresh increments the refresh counter and notifies subscribers.
// A subscriber that has not drained its previous event gets the newer one
// instead; counters only grow, so nothing is lost by coalescing.
func (s *Store) TriggerRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = TriggerRefresh(s.state)
	ev := RefreshEvent{Counter: s.state.RefreshCounter}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
	logger.Debug("refresh triggered", "counter", ev.Counter, "subscribers", len(s.subs))
	return ev.Counter
}
