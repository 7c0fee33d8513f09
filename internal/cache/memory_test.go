package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(10, time.Minute)
	ctx := context.Background()

	mc.Set(ctx, "603", "en")

	value, ok := mc.Get(ctx, "603")
	assert.True(t, ok)
	assert.Equal(t, "en", value)

	_, ok = mc.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache(10, 10*time.Millisecond)
	ctx := context.Background()

	mc.Set(ctx, "603", "en")
	time.Sleep(20 * time.Millisecond)

	_, ok := mc.Get(ctx, "603")
	assert.False(t, ok, "Expired entries must not be returned")
}

func TestMemoryCacheSizeBound(t *testing.T) {
	mc := NewMemoryCache(5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		mc.Set(ctx, fmt.Sprintf("key-%d", i), "value")
	}

	assert.LessOrEqual(t, len(mc.entries), 5, "Cache must never exceed its size bound")
}

func TestMemoryCacheEvictsExpiredFirst(t *testing.T) {
	mc := NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	mc.entries["stale"] = memoryEntry{value: "old", expiresAt: time.Now().Add(-time.Second)}
	mc.Set(ctx, "live", "en")
	mc.Set(ctx, "live2", "fr")

	_, ok := mc.Get(ctx, "live")
	assert.True(t, ok, "Live entries survive while expired ones are evicted")
	_, ok = mc.Get(ctx, "live2")
	assert.True(t, ok)
}

func TestMemoryCacheClose(t *testing.T) {
	mc := NewMemoryCache(10, time.Minute)
	assert.NoError(t, mc.Close())
}
