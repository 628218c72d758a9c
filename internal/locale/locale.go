// Package locale holds the month and weekday name tables used by the
// renderer, and resolves the active table from the process environment.
package locale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// ErrLookupMiss is returned when no built-in table matches a locale id
var ErrLookupMiss = errors.New("locale not found")

// Table holds localized names. Weekdays are indexed by time.Weekday
// (Sunday first) and are two columns wide.
type Table struct {
	ID       string
	Months   [12]string
	Weekdays [7]string
}

// MonthName returns the nominative month name
func (t Table) MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return t.Months[m-1]
}

// WeekdayAbbr returns the two-column weekday abbreviation
func (t Table) WeekdayAbbr(d time.Weekday) string {
	return t.Weekdays[d]
}

// English is the fallback table
var English = Table{
	ID: "en",
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	Weekdays: [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
}

var tables = map[string]Table{
	"en": English,
	"ru": {
		ID: "ru",
		Months: [12]string{
			"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
			"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
		},
		Weekdays: [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
	},
	"uk": {
		ID: "uk",
		Months: [12]string{
			"Січень", "Лютий", "Березень", "Квітень", "Травень", "Червень",
			"Липень", "Серпень", "Вересень", "Жовтень", "Листопад", "Грудень",
		},
		Weekdays: [7]string{"Нд", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
	},
	"be": {
		ID: "be",
		Months: [12]string{
			"Студзень", "Люты", "Сакавік", "Красавік", "Май", "Чэрвень",
			"Ліпень", "Жнівень", "Верасень", "Кастрычнік", "Лістапад", "Снежань",
		},
		Weekdays: [7]string{"Нд", "Пн", "Аў", "Ср", "Чц", "Пт", "Сб"},
	},
	"de": {
		ID: "de",
		Months: [12]string{
			"Januar", "Februar", "März", "April", "Mai", "Juni",
			"Juli", "August", "September", "Oktober", "November", "Dezember",
		},
		Weekdays: [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	},
	"fr": {
		ID: "fr",
		Months: [12]string{
			"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
			"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
		},
		Weekdays: [7]string{"di", "lu", "ma", "me", "je", "ve", "sa"},
	},
}

// Lookup finds the table for a locale id such as "ru_RU.UTF-8" or "de"
func Lookup(id string) (Table, error) {
	lang := Language(id)
	if t, ok := tables[lang]; ok {
		return t, nil
	}
	return English, fmt.Errorf("%w: %q", ErrLookupMiss, id)
}

// Language extracts the lowercase language subtag from a POSIX locale id
func Language(id string) string {
	id = Strip(id)
	if i := strings.IndexAny(id, "_-"); i >= 0 {
		id = id[:i]
	}
	return strings.ToLower(id)
}

// Strip removes the encoding and modifier parts ("ru_RU.UTF-8@x" -> "ru_RU")
func Strip(id string) string {
	if i := strings.IndexAny(id, ".@"); i >= 0 {
		id = id[:i]
	}
	return strings.TrimSpace(id)
}

// Getenv matches os.Getenv and is injected for tests
type Getenv func(string) string

// FromEnv returns the locale id from LC_ALL, LC_TIME, LANG (first set)
func FromEnv(getenv Getenv) string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Resolve picks the table for the environment, falling back to English.
// The returned error is non-nil only to report the fallback.
func Resolve(getenv Getenv) (Table, error) {
	id := FromEnv(getenv)
	if id == "" || id == "C" || id == "POSIX" {
		return English, nil
	}
	return Lookup(id)
}

var (
	fold        = cases.Fold()
	monthLookup = buildMonthLookup()
)

var englishAbbrev = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

func buildMonthLookup() map[string]time.Month {
	lookup := make(map[string]time.Month)
	for i, abbr := range englishAbbrev {
		lookup[abbr] = time.Month(i + 1)
	}
	for _, t := range tables {
		for i, name := range t.Months {
			lookup[fold.String(name)] = time.Month(i + 1)
		}
	}
	return lookup
}

// ParseMonth accepts 1-12, English full or abbreviated names, and month
// names from every built-in table, case-insensitively
func ParseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}

	m, ok := monthLookup[fold.String(s)]
	return m, ok
}
