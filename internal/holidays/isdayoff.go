// Package holidays implements day classification sources backed by
// isdayoff.ru and by a local file, with memory and SQLite caches.
package holidays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/locale"
	"github.com/username/termcal/internal/reform"
)

const (
	// DefaultBaseURL is the isdayoff.ru API root
	DefaultBaseURL     = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	maxResponseBytes   = 1 << 12
)

// ErrUnsupportedCountry is returned for countries isdayoff.ru has no data for
var ErrUnsupportedCountry = errors.New("unsupported country")

// IsDayOff fetches day codes from the isdayoff.ru bulk API
type IsDayOff struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *zap.Logger
	getenv     locale.Getenv
	now        func() time.Time
}

// NewIsDayOff creates a client. A nil cache uses a MemoryCache.
func NewIsDayOff(baseURL string, timeout time.Duration, cache Cache, logger *zap.Logger) *IsDayOff {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IsDayOff{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:  cache,
		logger: logger,
		getenv: os.Getenv,
		now:    time.Now,
	}
}

// DetectCountry resolves the country from the locale environment
func (c *IsDayOff) DetectCountry() (string, bool) {
	return DetectCountry(c.getenv)
}

// DayTypes returns one code per day of the month, or of the year when
// month is 0. Successful responses are served from the cache forever.
func (c *IsDayOff) DayTypes(ctx context.Context, country string, year, month int) (string, error) {
	country = strings.ToUpper(country)
	if !SupportedCountry(country) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCountry, country)
	}

	e, found, err := c.cache.Get(ctx, country, year, month)
	if err != nil {
		c.logger.Warn("Failed to read holiday cache", zap.Error(err))
	} else if found && e.OK {
		c.logger.Debug("Using cached day types",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Int("month", month))
		return e.Codes, nil
	}

	codes, fetchErr := c.fetch(ctx, country, year, month)

	entry := Entry{
		Country:   country,
		Year:      year,
		Month:     month,
		Codes:     codes,
		FetchedAt: c.now(),
		OK:        fetchErr == nil,
	}
	if err := c.cache.Put(ctx, entry); err != nil {
		c.logger.Warn("Failed to write holiday cache", zap.Error(err))
	}

	if fetchErr != nil {
		return "", fetchErr
	}
	return codes, nil
}

func (c *IsDayOff) url(country string, year, month int) string {
	if month == 0 {
		return fmt.Sprintf("%s/api/getdata?year=%d&cc=%s&pre=1",
			c.baseURL, year, strings.ToLower(country))
	}
	return fmt.Sprintf("%s/api/getdata?year=%d&month=%02d&cc=%s&pre=1",
		c.baseURL, year, month, strings.ToLower(country))
}

func (c *IsDayOff) fetch(ctx context.Context, country string, year, month int) (string, error) {
	url := c.url(country, year, month)

	c.logger.Debug("Fetching day types from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", month))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch day types: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	codes := strings.TrimSpace(string(body))
	if err := validateCodes(year, month, codes); err != nil {
		return "", fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Day types fetched from API",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("days", len(codes)))

	return codes, nil
}

// expectedDays is the response length for a Gregorian month or year
func expectedDays(year, month int) int {
	if month == 0 {
		return dates.DaysInYear(reform.Gregorian, year)
	}
	return dates.DaysInMonth(reform.Gregorian, year, time.Month(month))
}

// validateCodes checks a bulk response: one of 0, 1, 2, 8 per day
func validateCodes(year, month int, codes string) error {
	if want := expectedDays(year, month); len(codes) != want {
		return fmt.Errorf("bulk data length mismatch: expected %d, got %d", want, len(codes))
	}

	for i, code := range codes {
		switch code {
		case '0', '1', '2', '8':
		default:
			return fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}
	return nil
}
