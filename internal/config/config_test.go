package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// loadDefaults loads an empty config file
func loadDefaults(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	return cfg
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
calendar:
  reform: gregorian
  week_start: sunday
  week_type: us
  columns: auto
  color: false
holidays:
  enabled: true
  country: BY
  timeout: 2s
  cache_file: /tmp/termcal/holidays.db
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gregorian", cfg.Calendar.Reform)
	assert.Equal(t, "us", cfg.Calendar.WeekType)
	assert.Equal(t, "auto", cfg.Calendar.Columns)
	assert.False(t, cfg.Calendar.Color)
	assert.True(t, cfg.Holidays.Enabled)
	assert.Equal(t, "BY", cfg.Holidays.Country)
	assert.Equal(t, 2*time.Second, cfg.Holidays.GetTimeout())
	assert.Equal(t, "https://isdayoff.ru", cfg.Holidays.APIURL, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)

	ws, err := cfg.Calendar.GetWeekStart()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, ws)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "holidays:\n  country: RU\n")
	t.Setenv("CAL_HOLIDAYS_COUNTRY", "KZ")
	t.Setenv("CAL_HOLIDAYS_ENABLED", "true")
	t.Setenv("CAL_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "KZ", cfg.Holidays.Country)
	assert.True(t, cfg.Holidays.Enabled)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, loadDefaults(t), cfg)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, "1752", cfg.Calendar.Reform)
	assert.Equal(t, "iso", cfg.Calendar.WeekType)
	assert.True(t, cfg.Calendar.Color)
	assert.False(t, cfg.Holidays.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Holidays.GetTimeout())
	assert.Equal(t, "warn", cfg.Log.Level)
	require.NoError(t, cfg.Validate())

	ws, err := cfg.Calendar.GetWeekStart()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, ws)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"iso reform", func(c *Config) { c.Calendar.Reform = "ISO" }, false},
		{"bad reform", func(c *Config) { c.Calendar.Reform = "1582" }, true},
		{"bad week start", func(c *Config) { c.Calendar.WeekStart = "friday" }, true},
		{"bad week type", func(c *Config) { c.Calendar.WeekType = "broadcast" }, true},
		{"fixed columns", func(c *Config) { c.Calendar.Columns = "4" }, false},
		{"zero columns", func(c *Config) { c.Calendar.Columns = "0" }, true},
		{"bad timeout", func(c *Config) { c.Holidays.Timeout = "soon" }, true},
		{"negative timeout", func(c *Config) { c.Holidays.Timeout = "-1s" }, true},
		{"bad country", func(c *Config) { c.Holidays.Country = "Russia" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadDefaults(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetTimeout_Fallback(t *testing.T) {
	h := HolidaysConfig{Timeout: "garbage"}
	assert.Equal(t, 5*time.Second, h.GetTimeout())
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
