package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/reform"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, "log:\n  level: error\n", args...)
}

func executeWithConfig(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CAL_TEST_TIME", "2026-02-10")
	t.Setenv("LC_ALL", "C")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", path}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCal_CurrentMonth(t *testing.T) {
	got, err := execute(t)
	if err != nil {
		t.Fatalf("cal error = %v", err)
	}

	want := "    February 2026\n" +
		"Mo Tu We Th Fr Sa Su\n" +
		"                   1\n" +
		" 2  3  4  5  6  7  8\n" +
		" 9 10 11 12 13 14 15\n" +
		"16 17 18 19 20 21 22\n" +
		"23 24 25 26 27 28\n"
	if got != want {
		t.Errorf("cal output:\n%s\nwant:\n%s", got, want)
	}
}

func TestCal_Headers(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		first string
	}{
		{"month and year", []string{"3", "2026"}, "     March 2026"},
		{"month name", []string{"Февраль", "2026"}, "    February 2026"},
		{"lone year", []string{"2026"}, strings.Repeat(" ", 31) + "2026"},
		{"single month of a year", []string{"-1", "2026"}, "    February 2026"},
		{"sunday start", []string{"-s", "1", "2026"}, "    January 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("cal %v error = %v", tt.args, err)
			}
			if first := strings.SplitN(got, "\n", 2)[0]; first != tt.first {
				t.Errorf("cal %v first line = %q, want %q", tt.args, first, tt.first)
			}
		})
	}
}

func TestCal_WeekNumbers(t *testing.T) {
	got, err := execute(t, "--iso", "-w")
	if err != nil {
		t.Fatalf("cal error = %v", err)
	}
	lines := strings.Split(got, "\n")
	if lines[1] != "   Mo Tu We Th Fr Sa Su" {
		t.Errorf("weekday row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], " 5 ") {
		t.Errorf("first week row = %q, want ISO week 5", lines[2])
	}
}

func TestCal_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"exclusive modes", []string{"-y", "-n", "3"}, nil},
		{"bad reform", []string{"--reform", "1582"}, nil},
		{"skipped date", []string{"5", "9", "1752"}, dates.ErrInvalidDate},
		{"bad month", []string{"13", "2026"}, nil},
		{"zero columns", []string{"-c", "0"}, nil},
		{"zero months", []string{"-n", "0"}, nil},
		{"too many arguments", []string{"1", "2", "3", "4"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatalf("cal %v expected error", tt.args)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("cal %v error = %v, want %v", tt.args, err, tt.is)
			}
		})
	}
}

func TestCal_Config(t *testing.T) {
	_, err := executeWithConfig(t, "calendar:\n  reform: 1582\n")
	if !errors.Is(err, reform.ErrInvalidReformSpec) {
		t.Errorf("cal error = %v, want ErrInvalidReformSpec", err)
	}

	got, err := executeWithConfig(t, "calendar:\n  week_start: sunday\n  reform: julian\n")
	if err != nil {
		t.Fatalf("cal error = %v", err)
	}
	// today is 2026-01-28 in the Julian calendar
	if !strings.HasPrefix(got, "    January 2026\nSu Mo") {
		t.Errorf("cal output:\n%s", got)
	}
}

func TestTodayUnder(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	if got := todayUnder(reform.British, now); got != (dates.Date{Year: 2026, Month: time.February, Day: 10}) {
		t.Errorf("todayUnder(British) = %v", got)
	}
	// the Julian calendar runs 13 days behind in this century
	if got := todayUnder(reform.Julian, now); got != (dates.Date{Year: 2026, Month: time.January, Day: 28}) {
		t.Errorf("todayUnder(Julian) = %v", got)
	}
}
