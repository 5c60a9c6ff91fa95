package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheFreshnessWithClock(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewCacheWithClock(3*time.Minute, clock)

	_, _, fresh := cache.Get("missing")
	assert.False(t, fresh)

	cache.Set("k", 42)

	value, age, fresh := cache.Get("k")
	assert.True(t, fresh)
	assert.Equal(t, 42, value)
	assert.Equal(t, time.Duration(0), age)

	// Still fresh at exactly the TTL.
	now = now.Add(3 * time.Minute)
	_, age, fresh = cache.Get("k")
	assert.True(t, fresh)
	assert.Equal(t, 3*time.Minute, age)

	// Past the TTL the value stays readable but is flagged stale.
	now = now.Add(time.Second)
	value, _, fresh = cache.Get("k")
	assert.False(t, fresh)
	assert.Equal(t, 42, value, "stale entries stay readable for fallback serving")
}

func TestCacheSetRefreshesAge(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewCacheWithClock(time.Minute, clock)

	cache.Set("k", "old")
	now = now.Add(2 * time.Minute)
	cache.Set("k", "new")

	value, age, fresh := cache.Get("k")
	assert.True(t, fresh)
	assert.Equal(t, "new", value)
	assert.Equal(t, time.Duration(0), age)
}

func TestCacheDelete(t *testing.T) {
	cache := NewCacheWithClock(time.Minute, time.Now)
	cache.Set("k", 1)
	cache.Delete("k")

	value, _, fresh := cache.Get("k")
	assert.Nil(t, value)
	assert.False(t, fresh)
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 0, RoundPercent(1, 0), "zero denominator yields 0, not a panic")
	assert.Equal(t, 0, RoundPercent(0, 5))
	assert.Equal(t, 50, RoundPercent(1, 2))
	assert.Equal(t, 67, RoundPercent(2, 3))
	assert.Equal(t, 33, RoundPercent(1, 3))
	assert.Equal(t, 100, RoundPercent(12, 12))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(42, 0, 10))
}
