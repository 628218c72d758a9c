package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/termcal/internal/layout"
	"github.com/username/termcal/internal/reform"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents display defaults; command-line flags override them
type CalendarConfig struct {
	Reform    string `mapstructure:"reform"`     // 1752, gregorian, julian or iso
	WeekStart string `mapstructure:"week_start"` // monday or sunday
	WeekType  string `mapstructure:"week_type"`  // iso or us
	Columns   string `mapstructure:"columns"`    // N or auto; empty = mode default
	Color     bool   `mapstructure:"color"`
}

// HolidaysConfig represents the day classification source
type HolidaysConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Country      string `mapstructure:"country"` // empty = detect from locale
	APIURL       string `mapstructure:"api_url"`
	Timeout      string `mapstructure:"timeout"`
	CacheFile    string `mapstructure:"cache_file"`    // SQLite cache; empty = user cache dir
	FallbackFile string `mapstructure:"fallback_file"` // offline day list
}

// LogConfig represents diagnostic logging
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// EnvPrefix is prepended to environment overrides (CAL_HOLIDAYS_COUNTRY)
const EnvPrefix = "CAL"

const defaultTimeout = 5 * time.Second

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.reform", "1752")
	v.SetDefault("calendar.week_start", "monday")
	v.SetDefault("calendar.week_type", "iso")
	v.SetDefault("calendar.columns", "")
	v.SetDefault("calendar.color", true)

	v.SetDefault("holidays.enabled", false)
	v.SetDefault("holidays.country", "")
	v.SetDefault("holidays.api_url", "https://isdayoff.ru")
	v.SetDefault("holidays.timeout", defaultTimeout.String())
	v.SetDefault("holidays.cache_file", "")
	v.SetDefault("holidays.fallback_file", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")
}

// Load loads configuration. An explicit configPath must exist; otherwise
// config.yaml is searched for and defaults apply when none is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/termcal")
		v.AddConfigPath("/etc/termcal")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := reform.Resolve(c.Calendar.Reform, false); err != nil {
		return fmt.Errorf("calendar.reform: %w", err)
	}
	if _, err := c.Calendar.GetWeekStart(); err != nil {
		return err
	}
	if _, err := reform.ParseWeekType(c.Calendar.WeekType); err != nil {
		return fmt.Errorf("calendar.week_type: %w", err)
	}
	if _, err := layout.ParsePolicy(c.Calendar.Columns); err != nil {
		return fmt.Errorf("calendar.columns: %w", err)
	}

	if c.Holidays.Timeout != "" {
		d, err := time.ParseDuration(c.Holidays.Timeout)
		if err != nil {
			return fmt.Errorf("holidays.timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("holidays.timeout must be positive")
		}
	}
	if c.Holidays.Country != "" && len(c.Holidays.Country) != 2 {
		return fmt.Errorf("holidays.country must be a two-letter code, got '%s'", c.Holidays.Country)
	}

	return nil
}

// GetWeekStart returns the configured first day of the week
func (c *CalendarConfig) GetWeekStart() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "monday", "mon", "":
		return time.Monday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	default:
		return time.Monday, fmt.Errorf("calendar.week_start must be 'monday' or 'sunday', got '%s'", c.WeekStart)
	}
}

// GetTimeout returns the classification fetch budget
func (c *HolidaysConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return defaultTimeout
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil || duration <= 0 {
		return defaultTimeout
	}
	return duration
}
