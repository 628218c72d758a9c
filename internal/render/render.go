// Package render turns month grids into aligned, optionally colored text.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/username/termcal/internal/classify"
	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/grid"
	"github.com/username/termcal/internal/layout"
	"github.com/username/termcal/internal/locale"
)

// Column widths
const (
	DayWidth        = 2
	OrdinalWidth    = 3
	WeekNumberWidth = 3
	LabelWidth      = 2
)

// Options control what the renderer emits
type Options struct {
	Locale      locale.Table
	WeekStart   time.Weekday
	Color       bool
	Ordinals    bool
	WeekNumbers bool
	ShowYear    bool
	Vertical    bool
	// Highlight is drawn in reverse video when colors are on (zero = none)
	Highlight dates.Date
}

type palette struct {
	header    termenv.Style
	weekdays  termenv.Style
	weekend   termenv.Style
	shortened termenv.Style
	today     termenv.Style
}

var ansi = palette{
	header:    termenv.String().Foreground(termenv.ANSIBrightCyan),
	weekdays:  termenv.String().Foreground(termenv.ANSIBrightYellow),
	weekend:   termenv.String().Foreground(termenv.ANSIBrightRed),
	shortened: termenv.String().Foreground(termenv.ANSIBrightCyan),
	today:     termenv.String().Reverse(),
}

// Renderer formats month blocks with fixed options
type Renderer struct {
	opts Options
}

// New creates a Renderer; an empty locale falls back to English
func New(opts Options) *Renderer {
	if opts.Locale.ID == "" {
		opts.Locale = locale.English
	}
	return &Renderer{opts: opts}
}

// CellWidth is the width of one day cell
func (r *Renderer) CellWidth() int {
	if r.opts.Ordinals {
		return OrdinalWidth
	}
	return DayWidth
}

// BlockWidth is the width of one month block. In vertical mode the
// weekday label column is counted only when labeled is set.
func (r *Renderer) BlockWidth(labeled bool) int {
	cell := r.CellWidth()
	if r.opts.Vertical {
		w := layout.VerticalWeeks * (cell + 1)
		if labeled {
			w += LabelWidth
		}
		return w
	}

	w := grid.DaysPerWeek*cell + grid.DaysPerWeek - 1
	if r.opts.WeekNumbers {
		w += WeekNumberWidth
	}
	return w
}

func (r *Renderer) style(s termenv.Style, text string) string {
	if !r.opts.Color {
		return text
	}
	return s.Styled(text)
}

// Center pads text on both sides to width, the extra column going left
func Center(text string, width int) string {
	gap := width - lipgloss.Width(text)
	if gap <= 0 {
		return text
	}
	left := (gap + 1) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
}

func padLeft(text string, width int) string {
	gap := width - lipgloss.Width(text)
	if gap <= 0 {
		return text
	}
	return strings.Repeat(" ", gap) + text
}

// truncate cuts text to at most width columns
func truncate(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func (r *Renderer) headerText(m *grid.Month) string {
	name := r.opts.Locale.MonthName(m.Month)
	if r.opts.ShowYear {
		return fmt.Sprintf("%s %d", name, m.Year)
	}
	return name
}

// weekdayOrder lists weekdays starting at the configured week start
func (r *Renderer) weekdayOrder() [grid.DaysPerWeek]time.Weekday {
	var order [grid.DaysPerWeek]time.Weekday
	for i := range order {
		order[i] = (r.opts.WeekStart + time.Weekday(i)) % grid.DaysPerWeek
	}
	return order
}

// cell renders one day cell, already padded to the cell width
func (r *Renderer) cell(c grid.Cell, table *classify.Table) string {
	width := r.CellWidth()
	if c.Blank {
		return strings.Repeat(" ", width)
	}

	n := c.Date.Day
	if r.opts.Ordinals && c.Ordinal > 0 {
		n = c.Ordinal
	}
	text := padLeft(strconv.Itoa(n), width)

	if !r.opts.Color {
		return text
	}
	if c.Date == r.opts.Highlight {
		return r.style(ansi.today, text)
	}

	switch table.Cell(c) {
	case classify.Shortened:
		return r.style(ansi.shortened, text)
	case classify.Weekend, classify.Holiday:
		return r.style(ansi.weekend, text)
	default:
		return text
	}
}

// Month renders one block. labeled only matters in vertical mode, where the
// first block of a row carries the weekday labels.
func (r *Renderer) Month(m *grid.Month, table *classify.Table, labeled bool) layout.Block {
	if r.opts.Vertical {
		return r.vertical(m, table, labeled)
	}
	return r.horizontal(m, table)
}

func (r *Renderer) horizontal(m *grid.Month, table *classify.Table) layout.Block {
	width := r.BlockWidth(false)
	cellWidth := r.CellWidth()
	lines := make([]string, 0, 2+m.WeekCount())

	header := truncate(r.headerText(m), width)
	lines = append(lines, Center(r.style(ansi.header, header), width))

	prefix := ""
	if r.opts.WeekNumbers {
		prefix = strings.Repeat(" ", WeekNumberWidth)
	}

	labels := make([]string, 0, grid.DaysPerWeek)
	for _, wd := range r.weekdayOrder() {
		labels = append(labels, padLeft(r.opts.Locale.WeekdayAbbr(wd), cellWidth))
	}
	lines = append(lines, prefix+r.style(ansi.weekdays, strings.Join(labels, " ")))

	for i, week := range m.Weeks() {
		var sb strings.Builder
		if r.opts.WeekNumbers {
			if wk := m.RowWeek(i); wk > 0 {
				fmt.Fprintf(&sb, "%2d ", wk)
			} else {
				sb.WriteString(prefix)
			}
		}
		for j, c := range week {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(r.cell(c, table))
		}
		lines = append(lines, sb.String())
	}

	return layout.Block{Lines: lines, Width: width}
}

func (r *Renderer) vertical(m *grid.Month, table *classify.Table, labeled bool) layout.Block {
	width := r.BlockWidth(labeled)
	cellWidth := r.CellWidth()
	rows := layout.Transpose(m)
	lines := make([]string, 0, 2+len(rows))

	indent := 1
	if labeled {
		indent += LabelWidth
	}
	header := truncate(r.headerText(m), width-indent)
	lines = append(lines, strings.Repeat(" ", indent)+r.style(ansi.header, header))

	for i, wd := range r.weekdayOrder() {
		var sb strings.Builder
		if labeled {
			sb.WriteString(r.style(ansi.weekdays, padLeft(r.opts.Locale.WeekdayAbbr(wd), LabelWidth)))
		}
		for _, c := range rows[i] {
			sb.WriteByte(' ')
			sb.WriteString(r.cell(c, table))
		}
		lines = append(lines, sb.String())
	}

	if r.opts.WeekNumbers {
		var sb strings.Builder
		if labeled {
			sb.WriteString(strings.Repeat(" ", LabelWidth))
		}
		for w := 0; w < len(rows[0]); w++ {
			sb.WriteByte(' ')
			if wk := m.RowWeek(w); wk > 0 {
				sb.WriteString(padLeft(strconv.Itoa(wk), cellWidth))
			} else {
				sb.WriteString(strings.Repeat(" ", cellWidth))
			}
		}
		lines = append(lines, sb.String())
	}

	return layout.Block{Lines: lines, Width: width}
}

// Grid renders every row of g, separating rows of blocks with a blank line.
// Trailing spaces are trimmed from each output line.
func (r *Renderer) Grid(g layout.Grid, table *classify.Table, gutter int) []string {
	var out []string
	for i, row := range g.Rows {
		if i > 0 {
			out = append(out, "")
		}

		blocks := make([]layout.Block, 0, len(row))
		for j, m := range row {
			blocks = append(blocks, r.Month(m, table, j == 0))
		}
		for _, line := range layout.JoinRow(blocks, gutter) {
			out = append(out, strings.TrimRight(line, " "))
		}
	}
	return out
}

// Width returns the widest line of lines
func Width(lines []string) int {
	w := 0
	for _, l := range lines {
		if n := lipgloss.Width(l); n > w {
			w = n
		}
	}
	return w
}
