package grid

import (
	"fmt"
	"time"

	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/reform"
)

// DaysPerWeek is the row length of a month grid
const DaysPerWeek = 7

// YearMonth identifies one calendar month
type YearMonth struct {
	Year  int
	Month time.Month
}

// AddMonths returns the month n months after ym (n may be negative)
func (ym YearMonth) AddMonths(n int) YearMonth {
	total := ym.Year*12 + int(ym.Month) - 1 + n
	year := total / 12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Options control which annotations day cells carry
type Options struct {
	WeekStart   time.Weekday
	WeekNumbers bool
	WeekType    reform.WeekType
	Ordinals    bool
}

// Cell is either a blank pad or one existing date
type Cell struct {
	Blank   bool
	Date    dates.Date
	Weekday time.Weekday
	Week    int // 0 unless week numbers are enabled
	Ordinal int // 0 unless ordinals are enabled
}

// Month is the immutable day grid of one month
type Month struct {
	YearMonth
	opts  Options
	cells []Cell
}

// Build lays out (year, month) under rule. Cells before the first day's
// column and after the last day are blank; dates removed by the reform get
// no cell at all.
func Build(rule reform.Rule, year int, month time.Month, opts Options) (*Month, error) {
	if opts.WeekStart != time.Sunday && opts.WeekStart != time.Monday {
		return nil, fmt.Errorf("unsupported week start %v", opts.WeekStart)
	}

	first, err := dates.New(rule, year, month, 1)
	if err != nil {
		return nil, err
	}
	n, err := dates.DayNumberOf(rule, first)
	if err != nil {
		return nil, err
	}

	lead := (int(dates.WeekdayOf(n)) - int(opts.WeekStart) + DaysPerWeek) % DaysPerWeek
	count := dates.DaysInMonth(rule, year, month)

	cells := make([]Cell, 0, lead+count+DaysPerWeek)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Blank: true})
	}

	for day := 1; day <= dates.LastDay(rule, year, month); day++ {
		if rule.Skipped(year, int(month), day) {
			continue
		}

		cell := Cell{
			Date:    dates.Date{Year: year, Month: month, Day: day},
			Weekday: dates.WeekdayOf(n),
		}
		if opts.WeekNumbers {
			if cell.Week, err = dates.WeekNumber(rule, cell.Date, opts.WeekType); err != nil {
				return nil, err
			}
		}
		if opts.Ordinals {
			if cell.Ordinal, err = dates.DayOfYear(rule, cell.Date); err != nil {
				return nil, err
			}
		}

		cells = append(cells, cell)
		n++
	}

	for len(cells)%DaysPerWeek != 0 {
		cells = append(cells, Cell{Blank: true})
	}

	return &Month{
		YearMonth: YearMonth{Year: year, Month: month},
		opts:      opts,
		cells:     cells,
	}, nil
}

// Cells returns a copy of all cells in row-major order
func (m *Month) Cells() []Cell {
	out := make([]Cell, len(m.cells))
	copy(out, m.cells)
	return out
}

// Days returns the non-blank cells in calendar order
func (m *Month) Days() []Cell {
	out := make([]Cell, 0, len(m.cells))
	for _, c := range m.cells {
		if !c.Blank {
			out = append(out, c)
		}
	}
	return out
}

// WeekCount is the number of week rows
func (m *Month) WeekCount() int {
	return len(m.cells) / DaysPerWeek
}

// Weeks splits the grid into rows of seven cells
func (m *Month) Weeks() [][]Cell {
	rows := make([][]Cell, 0, m.WeekCount())
	for i := 0; i < len(m.cells); i += DaysPerWeek {
		row := make([]Cell, DaysPerWeek)
		copy(row, m.cells[i:i+DaysPerWeek])
		rows = append(rows, row)
	}
	return rows
}

// RowWeek labels week row i with the week number of the first day in it.
// Returns 0 when week numbers are disabled or the row is empty.
func (m *Month) RowWeek(i int) int {
	if !m.opts.WeekNumbers || i < 0 || i >= m.WeekCount() {
		return 0
	}

	for _, c := range m.cells[i*DaysPerWeek : (i+1)*DaysPerWeek] {
		if !c.Blank {
			return c.Week
		}
	}
	return 0
}
