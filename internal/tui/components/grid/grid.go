// Package grid renders a window of days as an hour-by-cell grid and resolves
// screen positions back to block ids.
package grid

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/models"
)

const (
	labelWidth = 6 // "HH:00 "
	dayWidth   = 8 // characters per day per hour
	daySep     = 1
	headerRows = 1
)

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	todayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	selectStyle = lipgloss.NewStyle().Background(lipgloss.Color("212")).Foreground(lipgloss.Color("0"))
)

// Source loads blocks for a date range.
type Source interface {
	GetBlocksByDateString(ctx context.Context, start, end string) ([]models.Block, error)
}

// Window is the inclusive date range the grid shows.
type Window struct {
	Start string
	End   string
}

// LoadedMsg carries the result of a block fetch for a window. Seq identifies
// the load that produced it.
type LoadedMsg struct {
	Window Window
	Seq    uint64
	Blocks []models.Block
	Err    error
}

// Load fetches the window's blocks.
func Load(src Source, w Window, seq uint64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		blocks, err := src.GetBlocksByDateString(ctx, w.Start, w.End)
		return LoadedMsg{Window: w, Seq: seq, Blocks: blocks, Err: err}
	}
}

type pos struct{ x, y int }

// Model is the grid state. It is a value type; mutating methods take a
// pointer and the parent stores the result.
type Model struct {
	loc       *time.Location
	first     time.Time
	days      int
	today     string
	precision models.Precision

	blocks  map[string]models.Block
	loaded  bool
	loading bool
	loadSeq uint64
	err     error

	cursor blockid.ID
	offset int
	width  int
	height int

	// hits maps grid-relative screen positions to serialized block keys.
	hits map[pos]string

	isSelected func(blockid.ID) bool
}

// New returns a grid of days ending on the day containing now.
func New(now time.Time, loc *time.Location, days int, isSelected func(blockid.ID) bool) Model {
	if loc == nil {
		loc = time.Local
	}
	if days < 1 {
		days = constants.DefaultGridDays
	}
	if isSelected == nil {
		isSelected = func(blockid.ID) bool { return false }
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	m := Model{
		loc:        loc,
		first:      today.AddDate(0, 0, -(days - 1)),
		days:       days,
		today:      today.Format(constants.DateFormat),
		precision:  models.PrecisionQuarterHour,
		blocks:     map[string]models.Block{},
		cursor:     blockid.FromTime(now),
		isSelected: isSelected,
	}
	m.relayout()
	return m
}

// Window returns the range currently displayed.
func (m Model) Window() Window {
	return Window{
		Start: m.first.Format(constants.DateFormat),
		End:   m.first.AddDate(0, 0, m.days-1).Format(constants.DateFormat),
	}
}

// Dates lists the visible dates.
func (m Model) Dates() []string {
	dates := make([]string, m.days)
	for i := range dates {
		dates[i] = m.first.AddDate(0, 0, i).Format(constants.DateFormat)
	}
	return dates
}

// Cursor returns the cell under the keyboard cursor.
func (m Model) Cursor() blockid.ID {
	return m.cursor
}

// Loading reports whether a fetch for the current window is pending.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the last load error for the current window.
func (m Model) Err() error {
	return m.err
}

// SetPrecision changes the cell width and snaps the cursor to a cell start.
func (m *Model) SetPrecision(p models.Precision) {
	m.precision = p
	if p.IsHalfHour() {
		m.cursor = m.cursor.HalfHourStart()
	}
	m.relayout()
}

// SetSize sets the available area including the header row.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.follow()
	m.relayout()
}

// StartLoading marks the current window as pending and returns the fetch.
// Any load still in flight is superseded.
func (m *Model) StartLoading(src Source, timeout time.Duration) tea.Cmd {
	m.loading = true
	m.loadSeq++
	return Load(src, m.Window(), m.loadSeq, timeout)
}

// LoadSeq returns the sequence of the most recent load.
func (m Model) LoadSeq() uint64 {
	return m.loadSeq
}

// Accept applies msg if it answers the latest load of the current window and
// reports whether it did. Responses for any other window or for a superseded
// load are dropped.
func (m *Model) Accept(msg LoadedMsg) bool {
	if msg.Window != m.Window() || msg.Seq != m.loadSeq {
		return false
	}
	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		return true
	}
	m.err = nil
	m.loaded = true
	m.blocks = make(map[string]models.Block, len(msg.Blocks))
	for _, b := range msg.Blocks {
		m.blocks[blockid.FromUnix(b.Date, m.loc).Key()] = b
	}
	return true
}

// Block returns the stored block for a cell.
func (m Model) Block(id blockid.ID) (models.Block, bool) {
	b, ok := m.blocks[id.Key()]
	return b, ok
}

// Shift moves the window by n days. The cursor keeps its time of day and
// stays inside the window.
func (m *Model) Shift(n int) {
	m.first = m.first.AddDate(0, 0, n)
	m.blocks = map[string]models.Block{}
	m.loaded = false
	m.err = nil
	m.clampCursorDate()
	m.relayout()
}

func (m *Model) clampCursorDate() {
	dates := m.Dates()
	if m.cursor.Date < dates[0] {
		m.cursor.Date = dates[0]
	}
	if m.cursor.Date > dates[len(dates)-1] {
		m.cursor.Date = dates[len(dates)-1]
	}
}

// MoveCursor moves by dx cells and dy hours. Horizontal moves wrap into the
// neighbouring day; movement stops at the window edges.
func (m *Model) MoveCursor(dx, dy int) {
	step := m.precision.CellMinutes()
	dates := m.Dates()
	day := indexOf(dates, m.cursor.Date)
	if day < 0 {
		day = 0
	}
	mins := m.cursor.Minutes()

	if dy != 0 {
		mins += dy * 60
		if mins < 0 || mins >= constants.MinutesPerDay {
			mins -= dy * 60
		}
	}
	if dx != 0 {
		mins += dx * step
		for mins < 0 && day > 0 {
			day--
			mins += constants.MinutesPerDay
		}
		for mins >= constants.MinutesPerDay && day < len(dates)-1 {
			day++
			mins -= constants.MinutesPerDay
		}
		if mins < 0 {
			mins = 0
		}
		if mins >= constants.MinutesPerDay {
			mins = constants.MinutesPerDay - step
		}
	}

	m.cursor = blockid.ID{Date: dates[day]}.AtMinutes(mins - mins%step)
	m.follow()
	m.relayout()
}

// SetCursor moves the cursor to id if it is inside the window.
func (m *Model) SetCursor(id blockid.ID) {
	if indexOf(m.Dates(), id.Date) < 0 {
		return
	}
	if m.precision.IsHalfHour() {
		id = id.HalfHourStart()
	}
	m.cursor = id
	m.follow()
	m.relayout()
}

// Scroll moves the visible hours by n rows.
func (m *Model) Scroll(n int) {
	m.offset = clamp(m.offset+n, 0, constants.HoursPerDay-m.visibleRows())
	m.relayout()
}

func (m Model) visibleRows() int {
	rows := m.height - headerRows
	if rows <= 0 || rows > constants.HoursPerDay {
		return constants.HoursPerDay
	}
	return rows
}

// follow scrolls so the cursor's hour is visible.
func (m *Model) follow() {
	rows := m.visibleRows()
	if m.cursor.Hour < m.offset {
		m.offset = m.cursor.Hour
	}
	if m.cursor.Hour >= m.offset+rows {
		m.offset = m.cursor.Hour - rows + 1
	}
	m.offset = clamp(m.offset, 0, constants.HoursPerDay-rows)
}

func (m Model) cellWidth() int {
	return dayWidth * m.precision.CellMinutes() / 60
}

// relayout rebuilds the hit map for the current window, size and offset.
func (m *Model) relayout() {
	m.hits = make(map[pos]string)
	cw := m.cellWidth()
	step := m.precision.CellMinutes()
	dates := m.Dates()

	for r := 0; r < m.visibleRows(); r++ {
		hour := m.offset + r
		if hour >= constants.HoursPerDay {
			break
		}
		for d, date := range dates {
			x0 := labelWidth + d*(dayWidth+daySep)
			for c := 0; c < 60/step; c++ {
				key := blockid.Format(blockid.ID{Date: date, Hour: hour, Minute: c * step})
				for i := 0; i < cw; i++ {
					m.hits[pos{x0 + c*cw + i, headerRows + r}] = key
				}
			}
		}
	}
}

// At resolves a grid-relative screen position to the cell drawn there.
func (m Model) At(x, y int) (blockid.ID, bool) {
	key, ok := m.hits[pos{x, y}]
	if !ok {
		return blockid.ID{}, false
	}
	id, err := blockid.Parse(key)
	if err != nil {
		return blockid.ID{}, false
	}
	return id, true
}

// View renders the header and visible hour rows.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", labelWidth))
	for d, date := range m.Dates() {
		if d > 0 {
			b.WriteString(strings.Repeat(" ", daySep))
		}
		style := headerStyle
		if date == m.today {
			style = todayStyle
		}
		b.WriteString(style.Render(fit(dayLabel(date), dayWidth)))
	}
	b.WriteString("\n")

	step := m.precision.CellMinutes()
	cw := m.cellWidth()
	dates := m.Dates()
	for r := 0; r < m.visibleRows(); r++ {
		hour := m.offset + r
		if hour >= constants.HoursPerDay {
			break
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%02d:00 ", hour)))
		for d, date := range dates {
			if d > 0 {
				b.WriteString(strings.Repeat(" ", daySep))
			}
			for c := 0; c < 60/step; c++ {
				b.WriteString(m.renderCell(blockid.ID{Date: date, Hour: hour, Minute: c * step}, cw))
			}
		}
		if r < m.visibleRows()-1 && hour < constants.HoursPerDay-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderCell(id blockid.ID, width int) string {
	fill := strings.Repeat("·", width)
	style := emptyStyle

	if blk, ok := m.blocks[id.Key()]; ok && blk.Type != nil {
		fill = strings.Repeat(" ", width)
		style = lipgloss.NewStyle()
		if hex := blk.Type.Hex(); hex != "" {
			style = style.Background(lipgloss.Color(hex))
		} else {
			fill = strings.Repeat("█", width)
		}
	}
	if m.isSelected(id) {
		style = selectStyle
		fill = strings.Repeat("▒", width)
	}
	if id == m.cursor {
		fill = "[" + strings.Repeat(" ", width-2) + "]"
		style = style.Foreground(lipgloss.Color("226")).Bold(true)
	}
	return style.Render(fill)
}

func dayLabel(date string) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02")
}

func fit(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
