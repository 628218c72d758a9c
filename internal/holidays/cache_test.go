package holidays

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caches(t *testing.T) map[string]Cache {
	t.Helper()

	sqlite, err := OpenSQLiteCache(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Cache{
		"memory": NewMemoryCache(),
		"sqlite": sqlite,
	}
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fetched := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	for name, cache := range caches(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := cache.Get(ctx, "RU", 2026, 1)
			require.NoError(t, err)
			assert.False(t, found)

			want := Entry{Country: "RU", Year: 2026, Month: 1, Codes: "8888888811", FetchedAt: fetched, OK: true}
			require.NoError(t, cache.Put(ctx, want))

			got, found, err := cache.Get(ctx, "RU", 2026, 1)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, want.Codes, got.Codes)
			assert.True(t, got.OK)
			assert.True(t, want.FetchedAt.Equal(got.FetchedAt))

			_, found, err = cache.Get(ctx, "RU", 2026, 0)
			require.NoError(t, err)
			assert.False(t, found, "year and month keys are distinct")
		})
	}
}

func TestCache_FailureNeverReplacesSuccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for name, cache := range caches(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, cache.Put(ctx, Entry{Country: "BY", Year: 2025, Month: 11, Codes: "ok", FetchedAt: now, OK: true}))
			require.NoError(t, cache.Put(ctx, Entry{Country: "BY", Year: 2025, Month: 11, FetchedAt: now.Add(time.Hour)}))

			got, found, err := cache.Get(ctx, "BY", 2025, 11)
			require.NoError(t, err)
			require.True(t, found)
			assert.True(t, got.OK)
			assert.Equal(t, "ok", got.Codes)
		})
	}
}

func TestCache_SuccessReplacesFailure(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for name, cache := range caches(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, cache.Put(ctx, Entry{Country: "KZ", Year: 2025, Month: 2, FetchedAt: now}))

			got, found, err := cache.Get(ctx, "KZ", 2025, 2)
			require.NoError(t, err)
			require.True(t, found)
			assert.False(t, got.OK)

			require.NoError(t, cache.Put(ctx, Entry{Country: "KZ", Year: 2025, Month: 2, Codes: "0110", FetchedAt: now, OK: true}))

			got, _, err = cache.Get(ctx, "KZ", 2025, 2)
			require.NoError(t, err)
			assert.True(t, got.OK)
			assert.Equal(t, "0110", got.Codes)
		})
	}
}

func TestSQLiteCache_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "holidays.db")

	cache, err := OpenSQLiteCache(ctx, path)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, Entry{Country: "US", Year: 2026, Codes: "1", FetchedAt: time.Unix(1700000000, 0), OK: true}))
	require.NoError(t, cache.Close())

	reopened, err := OpenSQLiteCache(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, found, err := reopened.Get(ctx, "US", 2026, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1", got.Codes)
	assert.Equal(t, int64(1700000000), got.FetchedAt.Unix())
}
