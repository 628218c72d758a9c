package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/username/termcal/internal/classify"
	"github.com/username/termcal/internal/config"
	"github.com/username/termcal/internal/holidays"
)

// cachePath returns the SQLite cache location, "" when none can be found
func cachePath(configured string) string {
	if configured != "" {
		return os.ExpandEnv(configured)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "termcal", "holidays.db")
}

// newSource builds isdayoff.ru with a persistent cache and, when
// configured, an offline file fallback. The returned func releases the
// cache.
func newSource(ctx context.Context, hc config.HolidaysConfig) (classify.Source, func()) {
	var cache holidays.Cache
	closeCache := func() {}

	if path := cachePath(hc.CacheFile); path != "" {
		sc, err := holidays.OpenSQLiteCache(ctx, path)
		if err != nil {
			logger.Warn("Failed to open holiday cache, using memory",
				zap.String("path", path),
				zap.Error(err))
		} else {
			cache = sc
			closeCache = func() {
				if err := sc.Close(); err != nil {
					logger.Warn("Failed to close holiday cache", zap.Error(err))
				}
			}
		}
	}

	api := holidays.NewIsDayOff(hc.APIURL, hc.GetTimeout(), cache, logger)
	if hc.FallbackFile == "" {
		return api, closeCache
	}

	fallback := holidays.NewFileSource(os.ExpandEnv(hc.FallbackFile), logger)
	if err := fallback.Load(); err != nil {
		logger.Warn("Failed to load fallback holiday file, continuing with API only",
			zap.Error(err))
		return api, closeCache
	}
	return holidays.NewComposite(api, fallback, logger), closeCache
}
