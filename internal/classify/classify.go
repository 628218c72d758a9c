// Package classify resolves the working/weekend/holiday class of each day,
// merging an optional external source with the built-in weekend rule.
package classify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/grid"
	"github.com/username/termcal/internal/reform"
)

// Class is the category of a single day
type Class int

const (
	Unclassified Class = iota
	Working
	Weekend
	Shortened
	Holiday
)

func (c Class) String() string {
	switch c {
	case Working:
		return "working"
	case Weekend:
		return "weekend"
	case Shortened:
		return "shortened"
	case Holiday:
		return "holiday"
	default:
		return "unclassified"
	}
}

// FromCode maps a source code character to a class
func FromCode(code byte) (Class, bool) {
	switch code {
	case '0':
		return Working, true
	case '1':
		return Weekend, true
	case '2':
		return Shortened, true
	case '8':
		return Holiday, true
	default:
		return Unclassified, false
	}
}

// Default is the built-in rule used when no source data is available
func Default(wd time.Weekday) Class {
	if wd == time.Saturday || wd == time.Sunday {
		return Weekend
	}
	return Working
}

// ErrUnavailable marks a month that fell back to the built-in rule
var ErrUnavailable = errors.New("classification unavailable")

// errNoData is reported for months whose fetch already failed and was logged
var errNoData = fmt.Errorf("%w: no data", ErrUnavailable)

// DefaultTimeout bounds the whole prefetch of one render
const DefaultTimeout = 5 * time.Second

// Source supplies per-day codes for a country.
// DayTypes returns one code per day of the month, or of the whole year
// when month is 0.
type Source interface {
	DetectCountry() (string, bool)
	DayTypes(ctx context.Context, country string, year, month int) (string, error)
}

// Resolver fetches source data for the months of one render
type Resolver struct {
	source  Source
	country string
	timeout time.Duration
	logger  *zap.Logger
	flight  singleflight.Group
}

// NewResolver creates a Resolver. An empty country is detected from the
// source; a nil source or an undetectable country disables fetching.
func NewResolver(source Source, country string, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if source != nil && country == "" {
		detected, ok := source.DetectCountry()
		if ok {
			country = detected
		} else {
			logger.Debug("No country detected, holidays disabled")
			source = nil
		}
	}

	return &Resolver{
		source:  source,
		country: country,
		timeout: timeout,
		logger:  logger,
	}
}

// Country returns the country used for source requests ("" if none)
func (r *Resolver) Country() string {
	if r.source == nil {
		return ""
	}
	return r.country
}

// Key identifies one source request
type Key struct {
	Country string
	Year    int
	Month   int // 0 = whole year
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%04d/%02d", k.Country, k.Year, k.Month)
}

// Plan returns the distinct fetch keys for months under rule: one per year
// when a year contributes more than one month, otherwise one per month.
// Only years labelled entirely in Gregorian are eligible.
func Plan(rule reform.Rule, country string, months []grid.YearMonth) []Key {
	perYear := make(map[int]map[time.Month]bool)
	for _, ym := range months {
		if !rule.GregorianLabels(ym.Year) {
			continue
		}
		if perYear[ym.Year] == nil {
			perYear[ym.Year] = make(map[time.Month]bool)
		}
		perYear[ym.Year][ym.Month] = true
	}

	var keys []Key
	for year, ms := range perYear {
		if len(ms) > 1 {
			keys = append(keys, Key{Country: country, Year: year})
			continue
		}
		for m := range ms {
			keys = append(keys, Key{Country: country, Year: year, Month: int(m)})
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Month < keys[j].Month
	})
	return keys
}

// Resolve fetches source data for months and returns the classification
// table. It never fails: unavailable months use the built-in rule.
func (r *Resolver) Resolve(ctx context.Context, rule reform.Rule, months []grid.YearMonth) *Table {
	table := &Table{codes: make(map[grid.YearMonth]string)}
	if r.source == nil || len(months) == 0 {
		return table
	}

	keys := Plan(rule, r.country, months)
	if len(keys) == 0 {
		r.logger.Debug("No months eligible for holiday data", zap.String("reform", rule.String()))
		return table
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mu sync.Mutex
	fetched := make(map[Key]string, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			v, err, shared := r.flight.Do(key.String(), func() (interface{}, error) {
				return r.source.DayTypes(gctx, key.Country, key.Year, key.Month)
			})
			if err != nil {
				r.logger.Warn("Holiday data unavailable, using weekend rule",
					zap.String("key", key.String()),
					zap.Error(fmt.Errorf("%w: %v", ErrUnavailable, err)))
				return nil
			}

			r.logger.Debug("Holiday data fetched",
				zap.String("key", key.String()),
				zap.Bool("shared", shared))

			mu.Lock()
			fetched[key] = v.(string)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, ym := range months {
		if !rule.GregorianLabels(ym.Year) {
			continue
		}

		codes, err := monthCodes(rule, ym, r.country, fetched)
		if errors.Is(err, errNoData) {
			continue
		}
		if err != nil {
			r.logger.Warn("Invalid holiday data, using weekend rule",
				zap.String("month", ym.String()),
				zap.Error(err))
			continue
		}
		table.codes[ym] = codes
	}

	return table
}

// monthCodes extracts and validates the codes of ym from the fetched data
func monthCodes(rule reform.Rule, ym grid.YearMonth, country string, fetched map[Key]string) (string, error) {
	want := dates.DaysInMonth(rule, ym.Year, ym.Month)

	var codes string
	if data, ok := fetched[Key{Country: country, Year: ym.Year, Month: int(ym.Month)}]; ok {
		if len(data) != want {
			return "", fmt.Errorf("%w: %v has %d codes, want %d", ErrUnavailable, ym, len(data), want)
		}
		codes = data
	} else if data, ok := fetched[Key{Country: country, Year: ym.Year}]; ok {
		if yearDays := dates.DaysInYear(rule, ym.Year); len(data) != yearDays {
			return "", fmt.Errorf("%w: year %d has %d codes, want %d", ErrUnavailable, ym.Year, len(data), yearDays)
		}
		first, err := dates.DayOfYear(rule, dates.Date{Year: ym.Year, Month: ym.Month, Day: 1})
		if err != nil {
			return "", err
		}
		codes = data[first-1 : first-1+want]
	} else {
		return "", errNoData
	}

	for i := 0; i < len(codes); i++ {
		if _, ok := FromCode(codes[i]); !ok {
			return "", fmt.Errorf("%w: unknown code %q for %v day %d", ErrUnavailable, codes[i], ym, i+1)
		}
	}
	return codes, nil
}

// Table holds validated source codes per month
type Table struct {
	codes map[grid.YearMonth]string
}

// Sourced reports whether ym is classified from source data
func (t *Table) Sourced(ym grid.YearMonth) bool {
	if t == nil {
		return false
	}
	_, ok := t.codes[ym]
	return ok
}

// Classify returns the class of a date falling on weekday wd
func (t *Table) Classify(d dates.Date, wd time.Weekday) Class {
	if t != nil {
		codes, ok := t.codes[grid.YearMonth{Year: d.Year, Month: d.Month}]
		if ok && d.Day >= 1 && d.Day <= len(codes) {
			if c, ok := FromCode(codes[d.Day-1]); ok {
				return c
			}
		}
	}
	return Default(wd)
}

// Cell classifies a grid cell; blank cells are Unclassified
func (t *Table) Cell(c grid.Cell) Class {
	if c.Blank {
		return Unclassified
	}
	return t.Classify(c.Date, c.Weekday)
}
