package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheStaleness(t *testing.T) {
	c := NewMemoryCache()

	assert.True(t, c.IsStale("feed", time.Minute), "missing key is stale")

	c.Set("feed", "page-1", time.Now())
	assert.False(t, c.IsStale("feed", time.Minute))

	v, ok := c.Get("feed")
	assert.True(t, ok)
	assert.Equal(t, "page-1", v)

	// Backdated entry is stale against a short TTL
	c.Set("old", "page-0", time.Now().Add(-2*time.Minute))
	assert.True(t, c.IsStale("old", time.Minute))
	assert.False(t, c.IsStale("old", time.Hour))
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}
