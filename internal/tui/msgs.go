package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/blockytime/internal/models"
	"github.com/julianstephens/blockytime/internal/selection"
)

type configLoadedMsg struct {
	cfg models.ServerConfig
	err error
}

type typesLoadedMsg struct {
	types []models.BlockType
	err   error
}

// refreshMsg is delivered for every refresh event; closed is set once the
// subscription has been cancelled.
type refreshMsg struct {
	event  selection.RefreshEvent
	closed bool
}

type committedMsg struct {
	verb  string
	count int
	err   error
}

func loadConfig(b Backend, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		cfg, err := b.GetConfig(ctx)
		return configLoadedMsg{cfg: cfg, err: err}
	}
}

func loadTypes(b Backend, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		types, err := b.GetTypes(ctx)
		return typesLoadedMsg{types: types, err: err}
	}
}

// waitForRefresh blocks on the subscription until the next event.
func waitForRefresh(ch <-chan selection.RefreshEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return refreshMsg{event: ev, closed: !ok}
	}
}

func runCommit(verb string, timeout time.Duration, fn func(context.Context) (int, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		n, err := fn(ctx)
		return committedMsg{verb: verb, count: n, err: err}
	}
}
