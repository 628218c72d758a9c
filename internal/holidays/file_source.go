package holidays

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/locale"
	"github.com/username/termcal/internal/reform"
	"github.com/username/termcal/pkg/dateutil"
)

// ErrNotFound is returned when a source has no data for a period
var ErrNotFound = errors.New("no day types for period")

// FileSource serves day codes from a local text file.
//
// Format, one day per line (other days follow the weekend rule):
//
//	YYYY-MM-DD|DD.MM.YYYY type [hours] [note]
//	2026-01-01 holiday 0 New Year
//	2026-01-10 workday
//
// type is one of workday, weekend, holiday, shortened; hours and note are
// ignored.
type FileSource struct {
	filePath string
	getenv   locale.Getenv
	logger   *zap.Logger

	once    sync.Once
	loadErr error
	codes   map[dates.Date]byte
	years   map[int]bool // years with at least one entry
}

// NewFileSource creates a FileSource; the file is read on first use
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{
		filePath: filePath,
		getenv:   os.Getenv,
		logger:   logger,
	}
}

var typeCodes = map[string]byte{
	"workday":   '0',
	"weekend":   '1',
	"shortened": '2',
	"holiday":   '8',
}

// Load reads the file. It is safe to call more than once.
func (fs *FileSource) Load() error {
	fs.once.Do(func() {
		fs.loadErr = fs.load()
	})
	return fs.loadErr
}

func (fs *FileSource) load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	fs.codes = make(map[dates.Date]byte)
	fs.years = make(map[int]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			fs.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		t, err := dateutil.ParseDate(parts[0])
		if err != nil {
			fs.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		code, ok := typeCodes[strings.ToLower(parts[1])]
		if !ok {
			fs.logger.Warn("Unknown day type", zap.String("type", parts[1]))
			continue
		}

		d := dates.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
		fs.codes[d] = code
		fs.years[d.Year] = true
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("days", len(fs.codes)),
		zap.Int("years", len(fs.years)))

	return nil
}

// DetectCountry resolves the country from the locale environment
func (fs *FileSource) DetectCountry() (string, bool) {
	return DetectCountry(fs.getenv)
}

// DayTypes builds codes for a month (or the year when month is 0). The year
// must have at least one entry in the file; unlisted days follow the
// weekend rule.
func (fs *FileSource) DayTypes(_ context.Context, _ string, year, month int) (string, error) {
	if err := fs.Load(); err != nil {
		return "", err
	}
	if !fs.years[year] {
		return "", fmt.Errorf("%w: %04d", ErrNotFound, year)
	}

	first, last := month, month
	if month == 0 {
		first, last = 1, 12
	}

	var sb strings.Builder
	sb.Grow(expectedDays(year, month))
	for m := first; m <= last; m++ {
		for day := 1; day <= dates.DaysInMonth(reform.Gregorian, year, time.Month(m)); day++ {
			d := dates.Date{Year: year, Month: time.Month(m), Day: day}
			if code, ok := fs.codes[d]; ok {
				sb.WriteByte(code)
				continue
			}

			if dateutil.IsWeekend(time.Date(year, time.Month(m), day, 0, 0, 0, 0, time.UTC)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}

	return sb.String(), nil
}
