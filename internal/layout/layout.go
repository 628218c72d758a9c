// Package layout decides which months are shown and how their rendered
// blocks are arranged into rows of columns.
package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/grid"
)

// Mode is the display mode selected on the command line
type Mode int

const (
	ModeMonth Mode = iota
	ModeThree
	ModeYear
	ModeTwelve
	ModeCount
)

func (m Mode) String() string {
	switch m {
	case ModeMonth:
		return "month"
	case ModeThree:
		return "three"
	case ModeYear:
		return "year"
	case ModeTwelve:
		return "twelve"
	case ModeCount:
		return "count"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Orientation selects weeks-as-rows or weeks-as-columns
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Gutter widths between month blocks
const (
	GutterRegular  = 2
	GutterWide     = 3
	GutterVertical = 1
)

// DefaultWidth is assumed for auto columns when the terminal size is unknown
const DefaultWidth = 80

// Gutter returns the separator width for a mode and orientation
func Gutter(mode Mode, o Orientation) int {
	if o == Vertical {
		return GutterVertical
	}
	if mode == ModeYear || mode == ModeTwelve {
		return GutterWide
	}
	return GutterRegular
}

// Sequence lists the months shown for mode, in chronological order.
// anchor is the requested (or current) month; count applies to ModeCount.
// With span the window is centred on anchor, (n-1)/2 months before it.
func Sequence(mode Mode, anchor grid.YearMonth, count int, span bool) ([]grid.YearMonth, error) {
	var start grid.YearMonth
	var n int

	switch mode {
	case ModeMonth:
		start, n = anchor, 1
	case ModeThree:
		start, n = anchor.AddMonths(-1), 3
	case ModeYear:
		start, n = grid.YearMonth{Year: anchor.Year, Month: 1}, 12
	case ModeTwelve:
		start, n = anchor, 12
	case ModeCount:
		if count < 1 {
			return nil, fmt.Errorf("month count must be positive, got %d", count)
		}
		start, n = anchor, count
	default:
		return nil, fmt.Errorf("unknown display mode %v", mode)
	}

	if span && (mode == ModeTwelve || mode == ModeCount) {
		start = anchor.AddMonths(-(n - 1) / 2)
	}

	months := make([]grid.YearMonth, n)
	for i := range months {
		ym := start.AddMonths(i)
		if ym.Year < dates.MinYear || ym.Year > dates.MaxYear {
			return nil, &dates.DateError{
				Year:   ym.Year,
				Month:  int(ym.Month),
				Day:    1,
				Reason: fmt.Sprintf("month range leaves years %d-%d", dates.MinYear, dates.MaxYear),
			}
		}
		months[i] = ym
	}
	return months, nil
}

// ErrInvalidColumns is returned for a columns value that is neither a
// positive integer nor "auto"
var ErrInvalidColumns = errors.New("invalid columns value")

type policyKind int

const (
	policyDefault policyKind = iota
	policyFixed
	policyAuto
)

// Policy decides how many month blocks share one row
type Policy struct {
	kind policyKind
	n    int
}

// Default uses the per-mode column count
var Default = Policy{}

// Auto fits as many blocks as the output width allows
var Auto = Policy{kind: policyAuto}

// Fixed always uses n columns
func Fixed(n int) Policy {
	return Policy{kind: policyFixed, n: n}
}

// ParsePolicy accepts "auto", a positive integer, or "" for the default
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Default, nil
	case "auto":
		return Auto, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Policy{}, fmt.Errorf("%w: %q", ErrInvalidColumns, s)
	}
	return Fixed(n), nil
}

func (p Policy) String() string {
	switch p.kind {
	case policyFixed:
		return strconv.Itoa(p.n)
	case policyAuto:
		return "auto"
	default:
		return ""
	}
}

// Columns resolves the policy to a column count in [1, months]
func (p Policy) Columns(mode Mode, months, blockWidth, gutter, width int) int {
	var cols int

	switch p.kind {
	case policyFixed:
		cols = p.n
	case policyAuto:
		cols = autoColumns(blockWidth, gutter, width)
	default:
		switch mode {
		case ModeMonth:
			cols = 1
		case ModeThree, ModeYear, ModeTwelve:
			cols = 3
		default:
			cols = autoColumns(blockWidth, gutter, width)
		}
	}

	if cols > months {
		cols = months
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

func autoColumns(blockWidth, gutter, width int) int {
	if width <= 0 {
		width = DefaultWidth
	}
	if blockWidth <= 0 {
		return 1
	}
	cols := (width + gutter) / (blockWidth + gutter)
	if cols < 1 {
		return 1
	}
	return cols
}

// Grid is the row-major arrangement of month grids
type Grid struct {
	Rows        [][]*grid.Month
	Columns     int
	Orientation Orientation
}

// Arrange splits months into rows of cols
func Arrange(months []*grid.Month, cols int, o Orientation) Grid {
	if cols < 1 {
		cols = 1
	}

	g := Grid{Columns: cols, Orientation: o}
	for i := 0; i < len(months); i += cols {
		end := i + cols
		if end > len(months) {
			end = len(months)
		}
		g.Rows = append(g.Rows, months[i:end])
	}
	return g
}

// VerticalWeeks is the fixed number of week columns in a vertical block
const VerticalWeeks = 6

// Transpose turns a month into weekday rows across week columns. Row i holds
// the i-th weekday of the week start; there are always VerticalWeeks columns.
func Transpose(m *grid.Month) [][]grid.Cell {
	weeks := m.Weeks()
	cols := VerticalWeeks
	if len(weeks) > cols {
		cols = len(weeks)
	}

	rows := make([][]grid.Cell, grid.DaysPerWeek)
	for d := range rows {
		rows[d] = make([]grid.Cell, cols)
		for w := 0; w < cols; w++ {
			if w < len(weeks) {
				rows[d][w] = weeks[w][d]
			} else {
				rows[d][w] = grid.Cell{Blank: true}
			}
		}
	}
	return rows
}

// Block is one rendered month: text lines all at most Width columns wide
type Block struct {
	Lines []string
	Width int
}

// JoinRow places blocks side by side. Shorter blocks are padded with blank
// lines, every line is padded to its block width, and blocks are separated
// by gutter spaces. Lines wider than their block indicate a rendering bug
// and panic, as does a line-count mismatch after padding.
func JoinRow(blocks []Block, gutter int) []string {
	height := 0
	for _, b := range blocks {
		if len(b.Lines) > height {
			height = len(b.Lines)
		}
	}

	padded := make([][]string, len(blocks))
	for i, b := range blocks {
		lines := make([]string, height)
		for j := range lines {
			line := ""
			if j < len(b.Lines) {
				line = b.Lines[j]
			}
			w := lipgloss.Width(line)
			if w > b.Width {
				panic(fmt.Sprintf("layout: block %d line %d is %d columns wide, block width %d", i, j, w, b.Width))
			}
			lines[j] = line + strings.Repeat(" ", b.Width-w)
		}
		padded[i] = lines
	}

	sep := strings.Repeat(" ", gutter)
	out := make([]string, height)
	for j := range out {
		var sb strings.Builder
		for i := range padded {
			if len(padded[i]) != height {
				panic(fmt.Sprintf("layout: block %d has %d lines, want %d", i, len(padded[i]), height))
			}
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(padded[i][j])
		}
		out[j] = sb.String()
	}
	return out
}
