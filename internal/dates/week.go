package dates

import (
	"time"

	"github.com/username/termcal/internal/reform"
)

// ISOWeek returns the ISO 8601 year and week of d. The year can differ from
// d.Year for dates in late December or early January.
func ISOWeek(rule reform.Rule, d Date) (year, week int, err error) {
	n, err := DayNumberOf(rule, d)
	if err != nil {
		return 0, 0, err
	}

	// Monday=0 .. Sunday=6
	offset := int(n) % 7
	thursday := n - DayNumber(offset) + 3
	year = FromDayNumber(rule, thursday).Year

	jan4 := dayNumber(rule, Date{Year: year, Month: time.January, Day: 4})
	week1 := jan4 - DayNumber(int(jan4)%7)

	return year, int(n-week1)/7 + 1, nil
}

// USWeek returns the US week number: week 1 is the Sunday-start week
// containing January 1, partial or not, and weeks never cross years.
func USWeek(rule reform.Rule, d Date) (int, error) {
	n, err := DayNumberOf(rule, d)
	if err != nil {
		return 0, err
	}

	jan1 := dayNumber(rule, Date{Year: d.Year, Month: time.January, Day: 1})
	lead := int(WeekdayOf(jan1))

	return (int(n-jan1)+lead)/7 + 1, nil
}

// WeekNumber dispatches on the configured numbering convention
func WeekNumber(rule reform.Rule, d Date, wt reform.WeekType) (int, error) {
	if wt == reform.WeekUS {
		return USWeek(rule, d)
	}
	_, week, err := ISOWeek(rule, d)
	return week, err
}
