package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/blockytime/internal/commit"
	apperrors "github.com/julianstephens/blockytime/internal/errors"
	"github.com/julianstephens/blockytime/internal/interaction"
	"github.com/julianstephens/blockytime/internal/logger"
	"github.com/julianstephens/blockytime/internal/tui/components/assign"
	"github.com/julianstephens/blockytime/internal/tui/components/grid"
	"github.com/julianstephens/blockytime/internal/tui/components/stats"
)

// chromeRows is the tab bar, status line and help line.
const chromeRows = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.grid.SetSize(msg.Width, msg.Height-chromeRows)
		m.stats.SetWidth(msg.Width)
		return m, nil

	case configLoadedMsg:
		if msg.err != nil {
			logger.Warn("loading server config", "error", msg.err)
			m.setStatus("config: "+apperrors.Describe(msg.err), true)
			return m, nil
		}
		halfHour := msg.cfg.MainTimePrecision.IsHalfHour()
		if m.halfHour.Swap(halfHour) != halfHour && len(m.store.SelectedIDs()) > 0 {
			// Cells picked at the old precision do not pair up at the new one.
			m.store.Clear()
			m.setStatus("precision changed, selection cleared", false)
		}
		m.grid.SetPrecision(msg.cfg.MainTimePrecision)
		return m, nil

	case typesLoadedMsg:
		if msg.err != nil {
			logger.Warn("loading types", "error", msg.err)
			m.setStatus("types: "+apperrors.Describe(msg.err), true)
			return m, nil
		}
		m.types = msg.types
		return m, nil

	case grid.LoadedMsg:
		if m.grid.Accept(msg) && msg.Err != nil {
			m.setStatus(apperrors.Describe(msg.Err), true)
		}
		return m, nil

	case stats.LoadedMsg:
		m.stats.Accept(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case interaction.LongPressMsg:
		m.ctrl.LongPress(msg)
		return m, nil

	case refreshMsg:
		if msg.closed {
			return m, nil
		}
		cmds := []tea.Cmd{waitForRefresh(m.refresh)}
		if msg.event.Counter > m.lastRefresh {
			m.lastRefresh = msg.event.Counter
			cmds = append(cmds, m.reload()...)
		}
		return m, tea.Batch(cmds...)

	case committedMsg:
		switch {
		case errors.Is(msg.err, commit.ErrEmptySelection):
			m.setStatus("nothing selected", true)
		case msg.err != nil:
			m.setStatus(apperrors.Describe(msg.err), true)
		default:
			m.setStatus(fmt.Sprintf("%s %d block(s)", msg.verb, msg.count), false)
		}
		return m, nil
	}

	switch m.state {
	case StateAssign, StateConfirmErase:
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if m.state == StateGrid {
			cmd := m.handleMouse(msg)
			return m, cmd
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.Close()
	return tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		cmd := m.quit()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.PrevDays):
		m.grid.Shift(-1)
		cmds := m.reload()
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.NextDays):
		m.grid.Shift(1)
		cmds := m.reload()
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.Reload):
		m.deps.Blocks.Invalidate()
		m.setStatus("", false)
		cmds := m.reload()
		return m, tea.Batch(cmds...)
	}

	if m.state != StateGrid {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.PageUp):
		m.grid.Scroll(-6)
	case key.Matches(msg, m.keys.PageDown):
		m.grid.Scroll(6)
	case key.Matches(msg, m.keys.Select):
		m.ctrl.Tap(m.grid.Cursor())
	case key.Matches(msg, m.keys.Drag):
		m.ctrl.ToggleDrag(m.grid.Cursor())
	case key.Matches(msg, m.keys.Clear):
		m.store.Clear()
		m.setStatus("", false)
	case key.Matches(msg, m.keys.Assign):
		return m.openAssign()
	case key.Matches(msg, m.keys.Erase):
		return m.openErase()
	}
	return m, nil
}

func (m *Model) moveCursor(dx, dy int) {
	m.grid.MoveCursor(dx, dy)
	m.ctrl.Extend(m.grid.Cursor())
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	id, onGrid := m.grid.At(msg.X, msg.Y-gridTop)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.grid.Scroll(-1)
		case tea.MouseButtonWheelDown:
			m.grid.Scroll(1)
		case tea.MouseButtonLeft:
			if onGrid {
				m.grid.SetCursor(id)
				return m.ctrl.Press(id)
			}
		}
	case tea.MouseActionMotion:
		if onGrid {
			m.ctrl.Move(id)
		} else {
			m.ctrl.Leave()
		}
	case tea.MouseActionRelease:
		if onGrid {
			m.ctrl.Release(id)
		} else {
			m.ctrl.ReleaseOutside()
		}
	}
	return nil
}

func (m Model) openAssign() (tea.Model, tea.Cmd) {
	n := len(m.store.SelectedIDs())
	if n == 0 {
		m.setStatus("nothing selected", true)
		return m, nil
	}
	if len(assign.Visible(m.types)) == 0 {
		m.setStatus("no block types available", true)
		return m, nil
	}
	m.assignForm = &assign.FormModel{}
	m.form = assign.NewForm(m.assignForm, m.types, n)
	m.state = StateAssign
	return m, m.form.Init()
}

func (m Model) openErase() (tea.Model, tea.Cmd) {
	n := len(m.store.SelectedIDs())
	if n == 0 {
		m.setStatus("nothing selected", true)
		return m, nil
	}
	m.confirmed = new(bool)
	m.form = assign.NewConfirmForm(m.confirmed, n)
	m.state = StateConfirmErase
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var commitCmd tea.Cmd
		if m.state == StateAssign {
			a, err := m.assignForm.Result()
			if err != nil {
				m.setStatus(err.Error(), true)
			} else {
				commitCmd = runCommit("assigned", m.deps.Timeout, func(ctx context.Context) (int, error) {
					return m.committer.Assign(ctx, a)
				})
			}
		} else if m.confirmed != nil && *m.confirmed {
			commitCmd = runCommit("erased", m.deps.Timeout, func(ctx context.Context) (int, error) {
				return m.committer.Erase(ctx, "")
			})
		}
		m.closeForm()
		return m, commitCmd
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.assignForm = nil
	m.confirmed = nil
	m.state = StateGrid
}
