package factory

import (
	"path/filepath"
	"testing"

	"github.com/mailsift/email-classifier/internal/cache"
	"github.com/mailsift/email-classifier/internal/config"
	"github.com/mailsift/email-classifier/internal/labeling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheFactory_Memory(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	f := NewCacheFactory(cfg, zap.NewNop())

	assert.True(t, f.IsCacheEnabled())

	c, err := f.CreatePredictionCache()
	require.NoError(t, err)
	defer c.Stop()
	assert.IsType(t, &cache.MemoryCache{}, c)
}

func TestCacheFactory_SQLite(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("cache.type", "sqlite")
	v.Set("cache.sqlite_path", filepath.Join(t.TempDir(), "sub", "cache.db"))
	f := NewCacheFactory(config.NewFromViper(v), zap.NewNop())

	c, err := f.CreatePredictionCache()
	require.NoError(t, err)
	defer c.Stop()
	assert.IsType(t, &cache.SQLiteCache{}, c)
}

func TestCacheFactory_UnknownType(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("cache.type", "redis")
	f := NewCacheFactory(config.NewFromViper(v), zap.NewNop())

	_, err := f.CreatePredictionCache()
	assert.Error(t, err)
}

func TestNewTaxonomy_Default(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())

	taxonomy, err := NewTaxonomy(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "other", taxonomy.Fallback)
	assert.Len(t, taxonomy.Categories, 6)
}

func TestNewTaxonomy_FromConfig(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("taxonomy.categories", []string{"invoices", "support"})
	v.Set("taxonomy.keywords", map[string][]string{
		"invoices": {"invoice", "payment"},
		"support":  {"ticket", "issue"},
	})
	v.Set("taxonomy.important_categories", []string{"invoices"})
	v.Set("taxonomy.importance_cutoff", 0.6)

	taxonomy, err := NewTaxonomy(config.NewFromViper(v), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"invoices", "support", "other"}, taxonomy.Names())
	assert.Equal(t, []string{"invoices"}, taxonomy.ImportantCategories)
	assert.Equal(t, 0.6, taxonomy.ImportanceCutoff)
}

func TestNewTaxonomy_LowercasesKeywords(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("taxonomy.categories", []string{"invoices"})
	v.Set("taxonomy.keywords", map[string][]string{
		"invoices": {"INVOICE", "Payment Due"},
	})

	taxonomy, err := NewTaxonomy(config.NewFromViper(v), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice", "payment due"}, taxonomy.Categories[0].Keywords)

	// Keywords written in uppercase still match lowercased email text
	l := labeling.NewLabeler(taxonomy)
	category, confidence := l.Label("Invoice #1234", "your payment due date is friday")
	assert.Equal(t, "invoices", category)
	assert.Equal(t, 1.0, confidence)
}

func TestNewTaxonomy_MissingKeywords(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("taxonomy.categories", []string{"invoices"})

	_, err := NewTaxonomy(config.NewFromViper(v), zap.NewNop())
	assert.Error(t, err)
}
