package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/models"
)

type TypesCmd struct {
	All bool `help:"Include hidden types."`
}

func (cmd *TypesCmd) Run(ctx *Context) error {
	rctx, cancel := ctx.Request()
	defer cancel()
	types, err := ctx.Client.GetTypes(rctx)
	if err != nil {
		return remote("listing types", err)
	}

	if !cmd.All {
		visible := types[:0]
		for _, t := range types {
			if t.Hidden == nil || !*t.Hidden {
				visible = append(visible, t)
			}
		}
		types = visible
	}
	ctx.Printer.Types(types)
	return nil
}

// DateWindow is the shared start/end pair for the statistics commands.
type DateWindow struct {
	Start string `help:"Start date. Defaults to the end date minus --days." short:"s"`
	End   string `help:"End date. Defaults to today." short:"e"`
	Days  int    `help:"Window length when --start is omitted." default:"${trend_days}"`
}

func (w DateWindow) resolve(ctx *Context) (string, string, error) {
	end, err := ctx.ResolveDate(w.End)
	if err != nil {
		return "", "", err
	}
	if w.Start == "" {
		days := w.Days
		if days < 1 {
			days = constants.DefaultTrendDays
		}
		t, _ := time.Parse(constants.DateFormat, end)
		return t.AddDate(0, 0, -(days - 1)).Format(constants.DateFormat), end, nil
	}
	return ctx.ResolveRange(w.Start, end)
}

type StatsCmd struct {
	DateWindow `embed:""`
	Types      []int `help:"Restrict to these type uids." name:"type"`
	Slot       int   `help:"Time slot length in minutes for hour/minute filters." default:"-1"`
	Hour       int   `help:"Only count blocks in this hour (0-23)." default:"-1"`
	Minute     int   `help:"Only count blocks at this minute (0, 15, 30, 45)." default:"-1"`
	Weekday    int   `help:"Only count blocks on this weekday (0=Sunday)." default:"-1"`
}

func optional(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}

func (cmd *StatsCmd) Run(ctx *Context) error {
	start, end, err := cmd.resolve(ctx)
	if err != nil {
		return err
	}
	if cmd.Hour > 23 {
		return fmt.Errorf("--hour must be between 0 and 23, got %d", cmd.Hour)
	}
	if cmd.Weekday > 6 {
		return fmt.Errorf("--weekday must be between 0 and 6, got %d", cmd.Weekday)
	}

	rctx, cancel := ctx.Request()
	defer cancel()
	stats, err := ctx.Client.GetStats(rctx, models.StatsQuery{
		StartDate:       start,
		EndDate:         end,
		TimeSlotMinutes: optional(cmd.Slot),
		Hour:            optional(cmd.Hour),
		Minute:          optional(cmd.Minute),
		DayOfWeek:       optional(cmd.Weekday),
		TypeUIDs:        cmd.Types,
	})
	if err != nil {
		return remote("loading stats", err)
	}

	fmt.Fprintf(ctx.Printer.Out, "%s → %s\n", start, end)
	ctx.Printer.Stats(stats)
	return nil
}

type TrendsCmd struct {
	DateWindow `embed:""`
	GroupBy    string `help:"Bucket size." enum:"DAY,WEEK,MONTH" default:"DAY" name:"group-by"`
}

func (cmd *TrendsCmd) Run(ctx *Context) error {
	start, end, err := cmd.resolve(ctx)
	if err != nil {
		return err
	}
	groupBy, err := models.ParseGroupBy(cmd.GroupBy)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Request()
	defer cancel()
	series, err := ctx.Client.GetTrends(rctx, start, end, groupBy)
	if err != nil {
		return remote("loading trends", err)
	}

	ctx.Printer.Trends(series)
	return nil
}

type SleepCmd struct {
	DateWindow `embed:""`
	Decay      float64 `help:"Exponential decay factor for the moving averages." default:"0.1"`
	Window     int     `help:"Moving-average window in days." default:"7"`
}

func (cmd *SleepCmd) Run(ctx *Context) error {
	start, end, err := cmd.resolve(ctx)
	if err != nil {
		return err
	}
	if cmd.Window < 1 {
		return fmt.Errorf("--window must be positive, got %d", cmd.Window)
	}

	rctx, cancel := ctx.Request()
	defer cancel()
	stats, err := ctx.Client.GetSleepStats(rctx, models.SleepQuery{
		StartDate:   start,
		EndDate:     end,
		DecayFactor: &cmd.Decay,
		WindowSize:  &cmd.Window,
	})
	if err != nil {
		return remote("loading sleep stats", err)
	}

	ctx.Printer.Sleep(stats)
	return nil
}

type ServerConfigCmd struct{}

func (cmd *ServerConfigCmd) Run(ctx *Context) error {
	rctx, cancel := ctx.Request()
	defer cancel()
	cfg, err := ctx.Client.GetConfig(rctx)
	if err != nil {
		return remote("loading server config", err)
	}

	ctx.Printer.ServerConfig(cfg)
	return nil
}
