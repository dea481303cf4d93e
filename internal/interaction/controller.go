// Package interaction turns raw pointer events on the grid into selection
// gestures. A press arms a long-press timer; if the pointer is released
// before it fires the press is a tap and toggles the cell, otherwise the
// press becomes a drag that extends as the pointer moves.
package interaction

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/logger"
)

// Store is the selection store as seen by the controller.
type Store interface {
	Toggle(id blockid.ID, halfHour bool)
	StartDrag(id blockid.ID, halfHour bool)
	UpdateDrag(id blockid.ID, halfHour bool)
	EndDrag()
	IsDragging() bool
}

// LongPressMsg is delivered when a press has been held for the threshold.
// Seq identifies the press; a message for an older press is ignored.
type LongPressMsg struct {
	Seq uint64
}

// Controller tracks exactly one pointer sequence.
type Controller struct {
	store     Store
	halfHour  func() bool
	threshold time.Duration

	mu      sync.Mutex
	armed   *blockid.ID
	seq     uint64
	pressed bool
	closed  bool
}

// New returns a controller. halfHour is consulted on every gesture so a
// precision change applies immediately.
func New(store Store, halfHour func() bool, threshold time.Duration) *Controller {
	if threshold <= 0 {
		threshold = constants.LongPressThreshold
	}
	if halfHour == nil {
		halfHour = func() bool { return false }
	}
	return &Controller{store: store, halfHour: halfHour, threshold: threshold}
}

// Press arms the long-press timer on id. The returned command delivers the
// LongPressMsg; it must be routed back to LongPress.
func (c *Controller) Press(id blockid.ID) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}

	c.seq++
	c.armed = &id
	c.pressed = true
	seq := c.seq
	return tea.Tick(c.threshold, func(time.Time) tea.Msg {
		return LongPressMsg{Seq: seq}
	})
}

// LongPress starts a drag if msg belongs to the press that is still armed.
// It reports whether a drag was started.
func (c *Controller) LongPress(msg LongPressMsg) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.armed == nil || msg.Seq != c.seq {
		logger.Debug("stale long press ignored", "seq", msg.Seq, "current", c.seq)
		return false
	}

	id := *c.armed
	c.armed = nil
	c.store.StartDrag(id, c.halfHour())
	return true
}

// Move handles the pointer entering id while held.
func (c *Controller) Move(id blockid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if c.store.IsDragging() {
		if c.pressed {
			c.store.UpdateDrag(id, c.halfHour())
		}
		return
	}
	if c.armed != nil && *c.armed != id {
		c.disarmLocked()
	}
}

// Release handles the pointer going up over id. A drag ends; an armed press
// on the same cell is a tap. A release over a different cell than the one
// pressed is an abandoned tap and changes nothing.
func (c *Controller) Release(id blockid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	armed := c.armed
	c.disarmLocked()
	c.pressed = false

	if c.store.IsDragging() {
		c.store.EndDrag()
		return
	}
	if armed != nil && *armed == id {
		c.store.Toggle(id, c.halfHour())
	}
}

// Leave abandons a pending tap. A drag in progress is unaffected.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.store.IsDragging() {
		return
	}
	c.disarmLocked()
}

// ReleaseOutside handles a release anywhere off the grid. It always disarms
// and ends a drag so the selection never stays stuck in drag mode.
func (c *Controller) ReleaseOutside() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.disarmLocked()
	c.pressed = false
	if c.store.IsDragging() {
		c.store.EndDrag()
	}
}

// Tap toggles id directly. Used for keyboard selection.
func (c *Controller) Tap(id blockid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.store.Toggle(id, c.halfHour())
}

// ToggleDrag starts a keyboard drag anchored on id, or ends the current one.
func (c *Controller) ToggleDrag(id blockid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.disarmLocked()
	if c.store.IsDragging() {
		c.store.EndDrag()
		return
	}
	c.store.StartDrag(id, c.halfHour())
}

// Extend moves the end of a keyboard drag to id.
func (c *Controller) Extend(id blockid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.store.IsDragging() {
		return
	}
	c.store.UpdateDrag(id, c.halfHour())
}

// Armed reports whether a press is waiting on its long-press timer.
func (c *Controller) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed != nil
}

// Close tears the controller down. Pending timers become no-ops and an
// active drag is ended.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.disarmLocked()
	c.pressed = false
	c.closed = true
	if c.store.IsDragging() {
		c.store.EndDrag()
	}
}

// disarmLocked cancels the pending timer by advancing the sequence.
func (c *Controller) disarmLocked() {
	c.armed = nil
	c.seq++
}
