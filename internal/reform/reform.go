package reform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReformSpec is returned for an unrecognized reform selector
var ErrInvalidReformSpec = errors.New("invalid reform")

// Kind identifies the calendar rule variant
type Kind int

const (
	KindJulian Kind = iota + 1
	KindGregorian
	KindBritish
)

// British 1752 cutover: September 3-13 never existed
const (
	CutoverYear     = 1752
	CutoverMonth    = 9
	CutoverFirstDay = 3
	CutoverLastDay  = 13
	SkippedDays     = CutoverLastDay - CutoverFirstDay + 1

	// FirstGregorianDay is the Julian Day Number of 1752-09-14
	FirstGregorianDay = 2361222
)

// Rule is the calendar reform applied to all date math
type Rule struct {
	kind Kind
}

var (
	Julian    = Rule{kind: KindJulian}
	Gregorian = Rule{kind: KindGregorian}
	British   = Rule{kind: KindBritish}
)

// Kind returns the rule variant
func (r Rule) Kind() Kind {
	return r.kind
}

// IsZero reports whether r was never resolved
func (r Rule) IsZero() bool {
	return r.kind == 0
}

// GregorianYear reports whether year is counted with Gregorian leap rules
func (r Rule) GregorianYear(year int) bool {
	switch r.kind {
	case KindGregorian:
		return true
	case KindBritish:
		return year >= CutoverYear
	default:
		return false
	}
}

// GregorianLabels reports whether every date of year carries a Gregorian label.
// Unlike GregorianYear it is false for the cutover year itself.
func (r Rule) GregorianLabels(year int) bool {
	switch r.kind {
	case KindGregorian:
		return true
	case KindBritish:
		return year > CutoverYear
	default:
		return false
	}
}

// GregorianDay reports whether the physical day jdn is labelled in Gregorian
func (r Rule) GregorianDay(jdn int) bool {
	switch r.kind {
	case KindGregorian:
		return true
	case KindBritish:
		return jdn >= FirstGregorianDay
	default:
		return false
	}
}

// HasCutover reports whether the rule removes dates
func (r Rule) HasCutover() bool {
	return r.kind == KindBritish
}

// Skipped reports whether (year, month, day) falls inside the removed range
func (r Rule) Skipped(year, month, day int) bool {
	return r.kind == KindBritish &&
		year == CutoverYear &&
		month == CutoverMonth &&
		day >= CutoverFirstDay && day <= CutoverLastDay
}

func (r Rule) String() string {
	switch r.kind {
	case KindJulian:
		return "julian"
	case KindGregorian:
		return "gregorian"
	case KindBritish:
		return "1752"
	default:
		return "unknown"
	}
}

// WeekType selects the week numbering convention
type WeekType int

const (
	WeekISO WeekType = iota
	WeekUS
)

func (w WeekType) String() string {
	if w == WeekUS {
		return "us"
	}
	return "iso"
}

// ParseWeekType parses "iso" or "us"
func ParseWeekType(s string) (WeekType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iso", "":
		return WeekISO, nil
	case "us":
		return WeekUS, nil
	default:
		return WeekISO, fmt.Errorf("invalid week type %q (expected iso or us)", s)
	}
}

// Resolution is the outcome of resolving a reform selector
type Resolution struct {
	Rule Rule
	// PreferISOWeeks is set for the iso selector, which pairs with ISO weeks
	PreferISOWeeks bool
}

// Resolve turns a selector (1752, gregorian, julian, iso) into a Rule.
// The iso flag mirrors --iso and takes precedence over the selector.
func Resolve(selector string, iso bool) (Resolution, error) {
	if iso {
		return Resolution{Rule: Gregorian, PreferISOWeeks: true}, nil
	}

	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "1752", "":
		return Resolution{Rule: British}, nil
	case "gregorian":
		return Resolution{Rule: Gregorian}, nil
	case "julian":
		return Resolution{Rule: Julian}, nil
	case "iso":
		return Resolution{Rule: Gregorian, PreferISOWeeks: true}, nil
	default:
		return Resolution{}, fmt.Errorf("%w: %q (expected 1752, gregorian, julian or iso)", ErrInvalidReformSpec, selector)
	}
}
