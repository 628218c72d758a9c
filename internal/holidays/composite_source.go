package holidays

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/username/termcal/internal/classify"
)

// Composite tries a primary source and falls back to a second one
// (typically isdayoff.ru backed by a local file)
type Composite struct {
	primary  classify.Source
	fallback classify.Source
	logger   *zap.Logger
}

// NewComposite creates a Composite
func NewComposite(primary, fallback classify.Source, logger *zap.Logger) *Composite {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composite{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// DetectCountry asks the primary source, then the fallback
func (cs *Composite) DetectCountry() (string, bool) {
	if country, ok := cs.primary.DetectCountry(); ok {
		return country, true
	}
	return cs.fallback.DetectCountry()
}

// DayTypes returns the primary source's codes, or the fallback's on error
func (cs *Composite) DayTypes(ctx context.Context, country string, year, month int) (string, error) {
	codes, err := cs.primary.DayTypes(ctx, country, year, month)
	if err == nil {
		return codes, nil
	}

	cs.logger.Warn("Primary holiday source failed, falling back",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Error(err))

	codes, fallbackErr := cs.fallback.DayTypes(ctx, country, year, month)
	if fallbackErr != nil {
		return "", fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return codes, nil
}
