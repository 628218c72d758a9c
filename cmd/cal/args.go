package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/locale"
)

// selection is the date chosen by positional arguments
type selection struct {
	year  int
	month time.Month
	day   int  // 0 = not given
	whole bool // a lone year argument asks for the whole year
}

// parseArgs reads [[day] month] year. With one argument a 4-digit number
// is a year and anything else must be a month number or name.
func parseArgs(args []string, today dates.Date) (selection, error) {
	sel := selection{year: today.Year, month: today.Month}

	switch len(args) {
	case 0:
		return sel, nil

	case 1:
		if n, err := strconv.Atoi(args[0]); err == nil && n >= 1000 && n <= dates.MaxYear {
			sel.year = n
			sel.whole = true
			return sel, nil
		}
		m, ok := locale.ParseMonth(args[0])
		if !ok {
			return sel, fmt.Errorf("invalid argument: %s", args[0])
		}
		sel.month = m
		return sel, nil

	case 2:
		m, err := parseMonth(args[0])
		if err != nil {
			return sel, err
		}
		y, err := parseYear(args[1])
		if err != nil {
			return sel, err
		}
		sel.year, sel.month = y, m
		return sel, nil

	case 3:
		d, err := strconv.Atoi(args[0])
		if err != nil {
			return sel, fmt.Errorf("invalid day: %s", args[0])
		}
		if d < 1 || d > 31 {
			return sel, fmt.Errorf("invalid day: %d (must be 1-31)", d)
		}
		m, err := parseMonth(args[1])
		if err != nil {
			return sel, err
		}
		y, err := parseYear(args[2])
		if err != nil {
			return sel, err
		}
		sel.year, sel.month, sel.day = y, m, d
		return sel, nil

	default:
		return sel, fmt.Errorf("too many arguments")
	}
}

func parseMonth(s string) (time.Month, error) {
	m, ok := locale.ParseMonth(s)
	if !ok {
		return 0, fmt.Errorf("invalid month: %s", s)
	}
	return m, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year: %s", s)
	}
	if y < dates.MinYear || y > dates.MaxYear {
		return 0, fmt.Errorf("invalid year: %d (must be %d-%d)", y, dates.MinYear, dates.MaxYear)
	}
	return y, nil
}
