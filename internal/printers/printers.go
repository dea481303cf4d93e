// Package printers renders API results as terminal tables for the CLI.
package printers

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/models"
)

// Printer writes tables to Out.
type Printer struct {
	Out io.Writer
}

// New returns a printer on color.Output, which handles Windows consoles
// and honours NO_COLOR.
func New() *Printer {
	return &Printer{Out: color.Output}
}

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint, color.Italic)
)

func (p *Printer) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	return tbl
}

func (p *Printer) flush(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(p.Out, tbl)
}

func (p *Printer) none() {
	_, _ = faint.Fprintln(p.Out, " none")
}

// Hours formats an hour count the way the grid reports it.
func Hours(h float64) string {
	return fmt.Sprintf("%.2fh", h)
}

func typeName(t *models.BlockType) string {
	if t == nil {
		return "-"
	}
	return t.Name
}

// Blocks prints one row per block, converting dates to cells in loc.
func (p *Printer) Blocks(blocks []models.Block, loc *time.Location) {
	if len(blocks) == 0 {
		p.none()
		return
	}
	sorted := append([]models.Block(nil), blocks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	tbl := p.table()
	tbl.AddRow(bold.Sprint("BLOCK"), bold.Sprint("TYPE"), bold.Sprint("PROJECT"), bold.Sprint("COMMENT"))
	for _, b := range sorted {
		project := "-"
		if b.Project != nil {
			project = b.Project.Name
		}
		tbl.AddRow(blockid.FromUnix(b.Date, loc).String(), typeName(b.Type), project, b.Comment)
	}
	p.flush(tbl)
}

// Types prints the activity types ordered by uid.
func (p *Printer) Types(types []models.BlockType) {
	if len(types) == 0 {
		p.none()
		return
	}
	sorted := append([]models.BlockType(nil), types...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UID < sorted[j].UID })

	tbl := p.table()
	tbl.AddRow(bold.Sprint("UID"), bold.Sprint("NAME"), bold.Sprint("CATEGORY"), bold.Sprint("COLOR"), bold.Sprint("HIDDEN"))
	for _, t := range sorted {
		hidden := ""
		if t.Hidden != nil && *t.Hidden {
			hidden = "yes"
		}
		tbl.AddRow(t.UID, t.Name, t.CategoryUID, t.Hex(), hidden)
	}
	tbl.RightAlign(0)
	p.flush(tbl)
}

// Stats prints per-type durations, largest first, with a share column.
func (p *Printer) Stats(stats []models.TypeDuration) {
	if len(stats) == 0 {
		p.none()
		return
	}
	sorted := append([]models.TypeDuration(nil), stats...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Duration > sorted[j].Duration })

	var total float64
	for _, s := range sorted {
		total += s.Duration
	}

	tbl := p.table()
	tbl.AddRow(bold.Sprint("TYPE"), bold.Sprint("HOURS"), bold.Sprint("SHARE"))
	for _, s := range sorted {
		share := 0.0
		if total > 0 {
			share = s.Duration / total * 100
		}
		tbl.AddRow(s.Type.Name, Hours(s.Duration), fmt.Sprintf("%.1f%%", share))
	}
	tbl.AddRow(faint.Sprint("total"), faint.Sprint(Hours(total)), "")
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	p.flush(tbl)
}

// Trends prints one row per type with a column per bucket label.
func (p *Printer) Trends(series []models.TrendSeries) {
	if len(series) == 0 {
		p.none()
		return
	}

	labelSet := map[string]bool{}
	for _, s := range series {
		for _, item := range s.Items {
			labelSet[item.TimeLabel] = true
		}
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	tbl := p.table()
	header := []interface{}{bold.Sprint("TYPE")}
	for _, l := range labels {
		header = append(header, bold.Sprint(l))
	}
	header = append(header, bold.Sprint("TOTAL"))
	tbl.AddRow(header...)

	for _, s := range series {
		byLabel := make(map[string]float64, len(s.Items))
		for _, item := range s.Items {
			byLabel[item.TimeLabel] += item.Duration
		}
		row := []interface{}{s.Type.Name}
		for _, l := range labels {
			row = append(row, fmt.Sprintf("%.2f", byLabel[l]))
		}
		row = append(row, Hours(s.Total()))
		tbl.AddRow(row...)
	}
	p.flush(tbl)
}

// Sleep prints the server's moving averages, one row per date.
func (p *Printer) Sleep(stats models.SleepStats) {
	if len(stats.MovingAvgDates) == 0 {
		p.none()
		return
	}

	tbl := p.table()
	tbl.AddRow(bold.Sprint("DATE"), bold.Sprint("BED"), bold.Sprint("WAKE"), bold.Sprint("DURATION"))
	for i, d := range stats.MovingAvgDates {
		tbl.AddRow(d, clock(at(stats.StartMovingAvg, i)), clock(at(stats.EndMovingAvg, i)), Hours(at(stats.DurationMovingAvg, i)))
	}
	p.flush(tbl)
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// clock renders fractional hours as HH:MM, wrapping past midnight.
func clock(h float64) string {
	mins := int(h*60+0.5) % (24 * 60)
	if mins < 0 {
		mins += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ServerConfig prints the server's client configuration.
func (p *Printer) ServerConfig(cfg models.ServerConfig) {
	periods := make([]string, 0, len(cfg.SpecialTimePeriod))
	for _, sp := range cfg.SpecialTimePeriod {
		periods = append(periods, fmt.Sprintf("%d-%d", sp[0], sp[1]))
	}
	if len(periods) == 0 {
		periods = append(periods, "-")
	}

	tbl := p.table()
	tbl.AddRow(bold.Sprint("Precision:"), cfg.MainTimePrecision.String())
	tbl.AddRow(bold.Sprint("Pixelate:"), !cfg.DisablePixelate)
	tbl.AddRow(bold.Sprint("Special periods:"), strings.Join(periods, ", "))
	p.flush(tbl)
}
