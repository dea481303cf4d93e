package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/blockytime/internal/tui"
)

type TuiCmd struct {
	Days int `help:"Number of days to show (1-7). Defaults to the configured value." default:"0"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	days := ctx.Config.Days
	if c.Days != 0 {
		if c.Days < 1 || c.Days > 7 {
			return fmt.Errorf("--days must be between 1 and 7, got %d", c.Days)
		}
		days = c.Days
	}

	m := tui.NewModel(tui.Deps{
		Backend:   ctx.Client,
		Blocks:    ctx.Cache,
		Location:  ctx.Location,
		Days:      days,
		Timeout:   ctx.Config.Timeout,
		LongPress: ctx.Config.LongPress,
		Now:       ctx.Now,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
