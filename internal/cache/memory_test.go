package cache

import (
	"testing"
	"time"

	"github.com/mailsift/email-classifier/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Minute, time.Minute)
	defer c.Stop()

	p := &core.Prediction{PrimaryCategory: "jobs", ImportanceConfidence: 0.9}
	c.Set("key1", p)

	got, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 10*time.Millisecond, time.Minute)
	defer c.Stop()

	c.Set("key1", &core.Prediction{})
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("key1")
	assert.False(t, ok)
}

func TestMemoryCache_Cleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 5*time.Millisecond, 10*time.Millisecond)
	defer c.Stop()

	c.Set("key1", &core.Prediction{})
	time.Sleep(40 * time.Millisecond)

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Empty(t, c.entries)
}

func TestMemoryCache_StopIsIdempotent(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Minute, time.Minute)
	c.Stop()
	c.Stop()
}
