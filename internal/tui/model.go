// Package tui is the interactive grid for selecting and labelling blocks.
package tui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/blockytime/internal/commit"
	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/interaction"
	"github.com/julianstephens/blockytime/internal/models"
	"github.com/julianstephens/blockytime/internal/selection"
	"github.com/julianstephens/blockytime/internal/tui/components/assign"
	"github.com/julianstephens/blockytime/internal/tui/components/grid"
	"github.com/julianstephens/blockytime/internal/tui/components/stats"
)

type SessionState int

const (
	StateGrid SessionState = iota
	StateStats
	StateAssign
	StateConfirmErase
)

// tabCount is the number of states reachable with tab.
const tabCount = 2

// gridTop is the screen row where the grid starts, below the tab bar.
const gridTop = 1

// Backend is the read side of the server API.
type Backend interface {
	GetConfig(ctx context.Context) (models.ServerConfig, error)
	GetTypes(ctx context.Context) ([]models.BlockType, error)
	stats.Source
}

// Blocks is the cached block source the grid reads and commits write to.
type Blocks interface {
	grid.Source
	commit.Mutator
	Invalidate()
}

type Deps struct {
	Backend   Backend
	Blocks    Blocks
	Location  *time.Location
	Days      int
	Timeout   time.Duration
	LongPress time.Duration
	Now       func() time.Time
}

type Model struct {
	deps      Deps
	store     *selection.Store
	ctrl      *interaction.Controller
	committer *commit.Committer
	halfHour  *atomic.Bool

	refresh     <-chan selection.RefreshEvent
	unsubscribe func()
	lastRefresh uint64

	state      SessionState
	keys       KeyMap
	help       help.Model
	spinner    spinner.Model
	grid       grid.Model
	stats      stats.Model
	types      []models.BlockType
	form       *huh.Form
	assignForm *assign.FormModel
	confirmed  *bool
	startup    []tea.Cmd

	status    string
	statusErr bool
	quitting  bool
	width     int
	height    int
}

func NewModel(deps Deps) Model {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Timeout <= 0 {
		deps.Timeout = constants.DefaultTimeout
	}

	store := selection.NewStore()
	halfHour := &atomic.Bool{}
	ch, unsubscribe := store.Subscribe()

	m := Model{
		deps:        deps,
		store:       store,
		ctrl:        interaction.New(store, halfHour.Load, deps.LongPress),
		committer:   commit.New(deps.Blocks, store, deps.Location),
		halfHour:    halfHour,
		refresh:     ch,
		unsubscribe: unsubscribe,
		state:       StateGrid,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(statusStyle)),
		grid:        grid.New(deps.Now(), deps.Location, deps.Days, store.IsSelected),
		stats:       stats.New(),
	}
	m.startup = m.reload()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateGrid {
		keys = append(keys, m.keys.Select, m.keys.Drag, m.keys.Assign, m.keys.Erase)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Reload}
	navigation := []key.Binding{m.keys.PrevDays, m.keys.NextDays}

	var actions []key.Binding
	if m.state == StateGrid {
		navigation = append(navigation, m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.PageUp, m.keys.PageDown)
		actions = []key.Binding{m.keys.Select, m.keys.Drag, m.keys.Clear, m.keys.Assign, m.keys.Erase}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{}, m.startup...)
	cmds = append(cmds,
		loadConfig(m.deps.Backend, m.deps.Timeout),
		loadTypes(m.deps.Backend, m.deps.Timeout),
		waitForRefresh(m.refresh),
		m.spinner.Tick,
	)
	return tea.Batch(cmds...)
}

// Close releases the controller and the refresh subscription. It is safe to
// call more than once.
func (m Model) Close() {
	m.ctrl.Close()
	m.unsubscribe()
}

// reload refetches the grid window and the matching stats range.
func (m *Model) reload() []tea.Cmd {
	w := m.grid.Window()
	return []tea.Cmd{
		m.grid.StartLoading(m.deps.Blocks, m.deps.Timeout),
		m.stats.StartLoading(m.deps.Backend, w.Start, w.End, m.deps.Timeout),
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}
