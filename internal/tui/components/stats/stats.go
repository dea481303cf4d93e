// Package stats shows per-type totals and daily trends for the grid window.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/blockytime/internal/models"
)

const (
	nameWidth = 16
	maxBar    = 40
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(nameWidth)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Source is the subset of the API client the stats view needs.
type Source interface {
	GetStats(ctx context.Context, q models.StatsQuery) ([]models.TypeDuration, error)
	GetTrends(ctx context.Context, start, end string, groupBy models.GroupBy) ([]models.TrendSeries, error)
}

// LoadedMsg carries both datasets for one date range.
type LoadedMsg struct {
	Start, End string
	Seq        uint64
	Stats      []models.TypeDuration
	Trends     []models.TrendSeries
	Err        error
}

// Load fetches totals and per-day trends for start..end.
func Load(src Source, start, end string, seq uint64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg := LoadedMsg{Start: start, End: end, Seq: seq}
		msg.Stats, msg.Err = src.GetStats(ctx, models.StatsQuery{StartDate: start, EndDate: end})
		if msg.Err != nil {
			return msg
		}
		msg.Trends, msg.Err = src.GetTrends(ctx, start, end, models.GroupByDay)
		return msg
	}
}

type Model struct {
	start, end string
	stats      []models.TypeDuration
	trends     []models.TrendSeries
	loading    bool
	seq        uint64
	err        error
	width      int
}

func New() Model {
	return Model{}
}

func (m *Model) SetWidth(w int) {
	m.width = w
}

// StartLoading targets a new range and returns its fetch.
func (m *Model) StartLoading(src Source, start, end string, timeout time.Duration) tea.Cmd {
	m.start, m.end = start, end
	m.loading = true
	m.seq++
	return Load(src, start, end, m.seq, timeout)
}

// Accept applies msg if it answers the latest load of the targeted range.
func (m *Model) Accept(msg LoadedMsg) bool {
	if msg.Start != m.start || msg.End != m.end || msg.Seq != m.seq {
		return false
	}
	m.loading = false
	m.err = msg.Err
	if msg.Err == nil {
		m.stats = msg.Stats
		m.trends = msg.Trends
	}
	return true
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s → %s", m.start, m.end)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		return b.String()
	case m.loading && len(m.stats) == 0:
		b.WriteString(mutedStyle.Render("loading…"))
		return b.String()
	case len(m.stats) == 0:
		b.WriteString(mutedStyle.Render("no tracked time in this range"))
		return b.String()
	}

	b.WriteString(m.viewTotals())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Per day"))
	b.WriteString("\n")
	b.WriteString(m.viewDaily())
	return b.String()
}

func (m Model) barWidth() int {
	w := m.width - nameWidth - 12
	if w <= 0 || w > maxBar {
		return maxBar
	}
	return w
}

func (m Model) viewTotals() string {
	sorted := append([]models.TypeDuration(nil), m.stats...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Duration > sorted[j].Duration })

	top := sorted[0].Duration
	lines := make([]string, 0, len(sorted))
	for _, s := range sorted {
		bar := lipgloss.NewStyle()
		if hex := s.Type.Hex(); hex != "" {
			bar = bar.Foreground(lipgloss.Color(hex))
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			nameStyle.Render(truncate(s.Type.Name, nameWidth)),
			bar.Render(Bar(s.Duration, top, m.barWidth())),
			valueStyle.Render(fmt.Sprintf("%.2fh", s.Duration)),
		))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewDaily() string {
	totals := DailyTotals(m.trends)
	labels := make([]string, 0, len(totals))
	var top float64
	for l, v := range totals {
		labels = append(labels, l)
		if v > top {
			top = v
		}
	}
	sort.Strings(labels)

	lines := make([]string, 0, len(labels))
	for _, l := range labels {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			nameStyle.Render(l),
			Bar(totals[l], top, m.barWidth()),
			valueStyle.Render(fmt.Sprintf("%.2fh", totals[l])),
		))
	}
	return strings.Join(lines, "\n")
}

// DailyTotals sums every series per time label.
func DailyTotals(series []models.TrendSeries) map[string]float64 {
	totals := map[string]float64{}
	for _, s := range series {
		for _, item := range s.Items {
			totals[item.TimeLabel] += item.Duration
		}
	}
	return totals
}

// Bar draws v relative to max in at most width cells.
func Bar(v, max float64, width int) string {
	if max <= 0 || v <= 0 {
		return ""
	}
	n := int(v/max*float64(width) + 0.5)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w-1]) + "…"
}
