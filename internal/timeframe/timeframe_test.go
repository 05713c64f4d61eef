package timeframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTCDay(t *testing.T) {
	t.Run("truncates to midnight UTC", func(t *testing.T) {
		ts := time.Date(2026, 3, 15, 17, 42, 9, 123, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), UTCDay(ts))
	})

	t.Run("converts non-UTC timestamps before truncating", func(t *testing.T) {
		// 23:30 in UTC+4 is 19:30 UTC, still the same UTC day
		loc := time.FixedZone("GST", 4*3600)
		ts := time.Date(2026, 3, 15, 23, 30, 0, 0, loc)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), UTCDay(ts))
	})

	t.Run("crosses day boundary for early local times ahead of UTC", func(t *testing.T) {
		// 01:00 in UTC+4 is 21:00 UTC the previous day
		loc := time.FixedZone("GST", 4*3600)
		ts := time.Date(2026, 3, 15, 1, 0, 0, 0, loc)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), UTCDay(ts))
	})
}

func TestCurrentUTCDay(t *testing.T) {
	provider := &FixedTimeProvider{Time: time.Date(2026, 6, 1, 13, 45, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), CurrentUTCDay(provider))
}

func TestTrailingWindow(t *testing.T) {
	provider := &FixedTimeProvider{Time: time.Date(2026, 6, 30, 10, 0, 0, 0, time.UTC)}

	t.Run("window includes today", func(t *testing.T) {
		from, to, err := TrailingWindow(provider, 30)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, provider.Time, to)
	})

	t.Run("single day window starts at today's boundary", func(t *testing.T) {
		from, _, err := TrailingWindow(provider, 1)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), from)
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		_, _, err := TrailingWindow(provider, 0)
		assert.Error(t, err)
	})
}

func TestCalculateTrend(t *testing.T) {
	t.Run("growing series has positive slope", func(t *testing.T) {
		points := []DateStat{{Count: 1}, {Count: 2}, {Count: 3}, {Count: 4}}
		assert.InDelta(t, 1.0, CalculateTrend(points), 0.001)
	})

	t.Run("flat series has zero slope", func(t *testing.T) {
		points := []DateStat{{Count: 5}, {Count: 5}, {Count: 5}}
		assert.InDelta(t, 0.0, CalculateTrend(points), 0.001)
	})

	t.Run("too few points returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateTrend([]DateStat{{Count: 9}}))
	})
}
