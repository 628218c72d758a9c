package dates

import (
	"testing"
	"time"

	"github.com/username/termcal/internal/reform"
)

func TestISOWeek(t *testing.T) {
	tests := []struct {
		name     string
		date     Date
		wantYear int
		wantWeek int
	}{
		{"Dec 31 2018 belongs to 2019", Date{2018, time.December, 31}, 2019, 1},
		{"Jan 1 2021 belongs to 2020", Date{2021, time.January, 1}, 2020, 53},
		{"Jan 1 2022 belongs to 2021", Date{2022, time.January, 1}, 2021, 52},
		{"Jan 1 2024", Date{2024, time.January, 1}, 2024, 1},
		{"Dec 31 2015 week 53", Date{2015, time.December, 31}, 2015, 53},
		{"Mid January 2025", Date{2025, time.January, 15}, 2025, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week, err := ISOWeek(reform.Gregorian, tt.date)
			if err != nil {
				t.Fatalf("ISOWeek(%v) error = %v", tt.date, err)
			}
			if year != tt.wantYear || week != tt.wantWeek {
				t.Errorf("ISOWeek(%v) = (%d, %d), want (%d, %d)",
					tt.date, year, week, tt.wantYear, tt.wantWeek)
			}
		})
	}
}

func TestUSWeek(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want int
	}{
		{"Jan 1 2024 Monday", Date{2024, time.January, 1}, 1},
		{"Jan 6 2024 Saturday", Date{2024, time.January, 6}, 1},
		{"Jan 7 2024 Sunday", Date{2024, time.January, 7}, 2},
		{"Jan 1 2022 Saturday is partial week 1", Date{2022, time.January, 1}, 1},
		{"Jan 2 2022 Sunday", Date{2022, time.January, 2}, 2},
		{"Dec 31 2022", Date{2022, time.December, 31}, 53},
		{"Jan 1 2023 starts over", Date{2023, time.January, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := USWeek(reform.Gregorian, tt.date)
			if err != nil {
				t.Fatalf("USWeek(%v) error = %v", tt.date, err)
			}
			if got != tt.want {
				t.Errorf("USWeek(%v) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestWeekNumberAcrossCutover(t *testing.T) {
	// Wednesday 2nd and Thursday 14th share a Monday-start week
	before, err := WeekNumber(reform.British, Date{1752, time.September, 2}, reform.WeekISO)
	if err != nil {
		t.Fatalf("WeekNumber error = %v", err)
	}
	after, err := WeekNumber(reform.British, Date{1752, time.September, 14}, reform.WeekISO)
	if err != nil {
		t.Fatalf("WeekNumber error = %v", err)
	}
	if before != after {
		t.Errorf("ISO week of 1752-09-02 = %d, of 1752-09-14 = %d, want equal", before, after)
	}
}
