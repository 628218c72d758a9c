// Package dates implements reform-aware calendar arithmetic on top of
// Julian Day Numbers. Every calendar label is converted to a day number
// before any weekday or distance computation, so the 1752 skip needs no
// special casing beyond label validation.
package dates

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/termcal/internal/reform"
)

// Supported year range
const (
	MinYear = 1
	MaxYear = 9999
)

// ErrInvalidDate is returned for out-of-range or skipped dates
var ErrInvalidDate = errors.New("invalid date")

// DateError describes a rejected calendar date
type DateError struct {
	Year, Month, Day int
	Reason           string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %04d-%02d-%02d: %s", e.Year, e.Month, e.Day, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidDate
func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

// DayNumber is a Julian Day Number: a day count independent of any reform
type DayNumber int

// Date is a calendar label interpreted under a reform rule
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

var monthLengths = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// New validates (year, month, day) under rule
func New(rule reform.Rule, year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := Validate(rule, d); err != nil {
		return Date{}, err
	}
	return d, nil
}

// Validate rejects out-of-range labels and dates removed by the reform
func Validate(rule reform.Rule, d Date) error {
	if d.Year < MinYear || d.Year > MaxYear {
		return &DateError{d.Year, int(d.Month), d.Day, fmt.Sprintf("year must be %d-%d", MinYear, MaxYear)}
	}
	if d.Month < time.January || d.Month > time.December {
		return &DateError{d.Year, int(d.Month), d.Day, "month must be 1-12"}
	}
	if last := LastDay(rule, d.Year, d.Month); d.Day < 1 || d.Day > last {
		return &DateError{d.Year, int(d.Month), d.Day, fmt.Sprintf("day must be 1-%d", last)}
	}
	if rule.Skipped(d.Year, int(d.Month), d.Day) {
		return &DateError{d.Year, int(d.Month), d.Day, "date removed by the " + rule.String() + " reform"}
	}
	return nil
}

// IsLeapYear applies the Julian or Gregorian rule depending on the era
func IsLeapYear(rule reform.Rule, year int) bool {
	if rule.GregorianYear(year) {
		return year%4 == 0 && (year%100 != 0 || year%400 == 0)
	}
	return year%4 == 0
}

// LastDay returns the highest day label of the month
func LastDay(rule reform.Rule, year int, month time.Month) int {
	if month < time.January || month > time.December {
		return 0
	}
	if month == time.February && IsLeapYear(rule, year) {
		return 29
	}
	return monthLengths[month]
}

// DaysInMonth returns the number of existing dates in the month
func DaysInMonth(rule reform.Rule, year int, month time.Month) int {
	n := LastDay(rule, year, month)
	if rule.HasCutover() && year == reform.CutoverYear && int(month) == reform.CutoverMonth {
		n -= reform.SkippedDays
	}
	return n
}

// DaysInYear returns the number of existing dates in the year
func DaysInYear(rule reform.Rule, year int) int {
	n := 0
	for m := time.January; m <= time.December; m++ {
		n += DaysInMonth(rule, year, m)
	}
	return n
}

// DayNumberOf converts a date to its day number
func DayNumberOf(rule reform.Rule, d Date) (DayNumber, error) {
	if err := Validate(rule, d); err != nil {
		return 0, err
	}
	return dayNumber(rule, d), nil
}

func dayNumber(rule reform.Rule, d Date) DayNumber {
	a := (14 - int(d.Month)) / 12
	y := d.Year + 4800 - a
	m := int(d.Month) + 12*a - 3
	base := d.Day + (153*m+2)/5 + 365*y + y/4

	// British labels before the cutover month are Julian; Validate has
	// already excluded the skipped days themselves.
	gregorian := rule.GregorianYear(d.Year)
	if rule.HasCutover() && d.Year == reform.CutoverYear {
		gregorian = int(d.Month) > reform.CutoverMonth ||
			(int(d.Month) == reform.CutoverMonth && d.Day > reform.CutoverLastDay)
	}

	if gregorian {
		return DayNumber(base - y/100 + y/400 - 32045)
	}
	return DayNumber(base - 32083)
}

// FromDayNumber converts a day number back to its label under rule
func FromDayNumber(rule reform.Rule, n DayNumber) Date {
	var b, c int
	if rule.GregorianDay(int(n)) {
		a := int(n) + 32044
		b = (4*a + 3) / 146097
		c = a - 146097*b/4
	} else {
		c = int(n) + 32082
	}

	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153

	return Date{
		Year:  100*b + d - 4800 + m/10,
		Month: time.Month(m + 3 - 12*(m/10)),
		Day:   e - (153*m+2)/5 + 1,
	}
}

// WeekdayOf returns the weekday of day number n
func WeekdayOf(n DayNumber) time.Weekday {
	return time.Weekday((int(n) + 1) % 7)
}

// Weekday returns the day of the week of d
func Weekday(rule reform.Rule, d Date) (time.Weekday, error) {
	n, err := DayNumberOf(rule, d)
	if err != nil {
		return 0, err
	}
	return WeekdayOf(n), nil
}

// DayOfYear returns the 1-based ordinal of d within its year, counting only
// dates that exist under rule
func DayOfYear(rule reform.Rule, d Date) (int, error) {
	n, err := DayNumberOf(rule, d)
	if err != nil {
		return 0, err
	}
	jan1 := dayNumber(rule, Date{Year: d.Year, Month: time.January, Day: 1})
	return int(n-jan1) + 1, nil
}

// AddDays moves d by days along the physical day sequence
func AddDays(rule reform.Rule, d Date, days int) (Date, error) {
	n, err := DayNumberOf(rule, d)
	if err != nil {
		return Date{}, err
	}
	next := FromDayNumber(rule, n+DayNumber(days))
	if err := Validate(rule, next); err != nil {
		return Date{}, err
	}
	return next, nil
}

// Next returns the date following d
func Next(rule reform.Rule, d Date) (Date, error) {
	return AddDays(rule, d, 1)
}
