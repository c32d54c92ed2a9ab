// Package cache provides prediction caches keyed by email content hash, so
// repeated classification of an identical message skips the model pass.
package cache

import (
	"sync"
	"time"

	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/metrics"
	"go.uber.org/zap"
)

type memoryEntry struct {
	prediction *core.Prediction
	expiresAt  time.Time
}

// MemoryCache is an in-memory implementation of core.PredictionCache
type MemoryCache struct {
	entries     map[string]memoryEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryCache creates a new in-memory prediction cache
func NewMemoryCache(logger *zap.Logger, ttl, cleanupFreq time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries:     make(map[string]memoryEntry),
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Background cleanup of expired entries
	go c.startCleanupTask()

	return c
}

// Get retrieves a cached prediction
func (c *MemoryCache) Get(key string) (*core.Prediction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	metrics.CacheHits.Inc()
	return entry.prediction, true
}

// Set stores a prediction
func (c *MemoryCache) Set(key string, p *core.Prediction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		prediction: p,
		expiresAt:  time.Now().Add(c.ttl),
	}
}

// Stop terminates the background cleanup task
func (c *MemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int("removed", removed))
	}
}
