package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/metrics"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite-backed implementation of core.PredictionCache.
// It survives process restarts, which matters when the same inbox is
// re-scanned after a redeploy.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewSQLiteCache creates a new SQLite prediction cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS prediction_cache (
			content_hash TEXT PRIMARY KEY,
			prediction TEXT,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prediction_expires_at ON prediction_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	c := &SQLiteCache{
		db:          db,
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go c.startCleanupTask()

	return c, nil
}

// Get retrieves a cached prediction
func (c *SQLiteCache) Get(key string) (*core.Prediction, bool) {
	var payload string
	err := c.db.QueryRow(`
		SELECT prediction
		FROM prediction_cache
		WHERE content_hash = ? AND expires_at > ?
	`, key, time.Now().Format(time.RFC3339)).Scan(&payload)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query prediction cache", zap.Error(err))
		}
		return nil, false
	}

	var prediction core.Prediction
	if err := json.Unmarshal([]byte(payload), &prediction); err != nil {
		c.logger.Error("Failed to decode cached prediction", zap.Error(err))
		return nil, false
	}
	metrics.CacheHits.Inc()
	return &prediction, true
}

// Set stores a prediction
func (c *SQLiteCache) Set(key string, p *core.Prediction) {
	payload, err := json.Marshal(p)
	if err != nil {
		c.logger.Error("Failed to encode prediction for cache", zap.Error(err))
		return
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO prediction_cache (content_hash, prediction, expires_at)
		VALUES (?, ?, ?)
	`, key, string(payload), time.Now().Add(c.ttl).Format(time.RFC3339))
	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err))
	}
}

// Stop terminates the cleanup task and closes the database
func (c *SQLiteCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close cache database", zap.Error(err))
		}
	})
}

func (c *SQLiteCache) startCleanupTask() {
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

func (c *SQLiteCache) cleanup() {
	result, err := c.db.Exec(`
		DELETE FROM prediction_cache WHERE expires_at <= ?
	`, time.Now().Format(time.RFC3339))
	if err != nil {
		c.logger.Error("Failed to clean up prediction cache", zap.Error(err))
		return
	}
	if removed, err := result.RowsAffected(); err == nil && removed > 0 {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("removed", removed))
	}
}
