package holidays

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/termcal/internal/classify"
	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/grid"
	"github.com/username/termcal/internal/reform"
)

const holidayFile = `# Russian production calendar, excerpt
2026-01-01 holiday 0 New Year
2026-01-02 holiday 0
09.01.2026 holiday
2026-01-10 workday 8 Moved working day
2026-01-30 shortened 7
not-a-date holiday
2026-01-31 vacation
2026-02-23 holiday 0 Defender Day
`

func writeHolidayFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write holiday file: %v", err)
	}
	return path
}

func TestFileSource_DayTypes(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	fs := NewFileSource(writeHolidayFile(t, holidayFile), logger)

	codes, err := fs.DayTypes(context.Background(), "RU", 2026, 1)
	if err != nil {
		t.Fatalf("DayTypes() error = %v", err)
	}
	if len(codes) != 31 {
		t.Fatalf("len(codes) = %d, want 31", len(codes))
	}

	// January 2026 starts on Thursday
	want := map[int]byte{
		1:  '8', // listed holiday
		2:  '8',
		3:  '1', // Saturday by weekday
		5:  '0',
		9:  '8', // DD.MM.YYYY form
		10: '0', // listed working Saturday
		30: '2',
		31: '1', // unknown type is skipped, weekday rule applies
	}
	for day, code := range want {
		if codes[day-1] != code {
			t.Errorf("day %d = %c, want %c", day, codes[day-1], code)
		}
	}
}

func TestFileSource_UnlistedMonth(t *testing.T) {
	fs := NewFileSource(writeHolidayFile(t, holidayFile), zap.NewNop())

	// March 2026 has no lines; 1 March is a Sunday
	codes, err := fs.DayTypes(context.Background(), "RU", 2026, 3)
	if err != nil {
		t.Fatalf("DayTypes(2026-03) error = %v", err)
	}
	if len(codes) != 31 || codes[0] != '1' || codes[1] != '0' {
		t.Errorf("DayTypes(2026-03) = %q, want weekend rule", codes)
	}

	year, err := fs.DayTypes(context.Background(), "RU", 2026, 0)
	if err != nil {
		t.Fatalf("DayTypes(2026) error = %v", err)
	}
	if len(year) != 365 {
		t.Fatalf("len(year) = %d, want 365", len(year))
	}
	if year[0] != '8' || year[31+22] != '8' {
		t.Errorf("listed holidays lost in the whole year: Jan 1 = %c, Feb 23 = %c", year[0], year[31+22])
	}
	if year[31+28:31+28+31] != codes {
		t.Error("whole year and single month disagree on March")
	}
}

func TestFileSource_UnlistedYear(t *testing.T) {
	fs := NewFileSource(writeHolidayFile(t, holidayFile), zap.NewNop())

	for _, month := range []int{0, 1} {
		if _, err := fs.DayTypes(context.Background(), "RU", 2027, month); !errors.Is(err, ErrNotFound) {
			t.Errorf("DayTypes(2027, %d) error = %v, want ErrNotFound", month, err)
		}
	}
}

func TestFileSource_FallbackForQuarter(t *testing.T) {
	src := NewComposite(
		&stubSource{err: errors.New("api down")},
		NewFileSource(writeHolidayFile(t, holidayFile), zap.NewNop()),
		zap.NewNop())
	resolver := classify.NewResolver(src, "RU", time.Second, zap.NewNop())

	months := []grid.YearMonth{
		{Year: 2026, Month: time.January},
		{Year: 2026, Month: time.February},
		{Year: 2026, Month: time.March},
	}
	table := resolver.Resolve(context.Background(), reform.Gregorian, months)

	for _, ym := range months {
		if !table.Sourced(ym) {
			t.Errorf("%s not sourced from the fallback file", ym)
		}
	}
	if got := table.Classify(dates.Date{Year: 2026, Month: time.February, Day: 23}, time.Monday); got != classify.Holiday {
		t.Errorf("Feb 23 = %v, want %v", got, classify.Holiday)
	}
	if got := table.Classify(dates.Date{Year: 2026, Month: time.January, Day: 10}, time.Saturday); got != classify.Working {
		t.Errorf("Jan 10 = %v, want %v", got, classify.Working)
	}
}

func TestFileSource_DetectCountry(t *testing.T) {
	fs := NewFileSource(writeHolidayFile(t, holidayFile), nil)
	fs.getenv = func(key string) string {
		if key == "LANG" {
			return "be_BY.UTF-8"
		}
		return ""
	}

	if country, ok := fs.DetectCountry(); !ok || country != "BY" {
		t.Errorf("DetectCountry() = %q, %v; want BY, true", country, ok)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	fs := NewFileSource(filepath.Join(t.TempDir(), "absent.txt"), nil)

	if err := fs.Load(); err == nil {
		t.Fatal("Load() expected error for a missing file")
	}
	if _, err := fs.DayTypes(context.Background(), "RU", 2026, 1); err == nil {
		t.Error("DayTypes() expected error for a missing file")
	}
}
