package factory

import (
	"fmt"
	"strings"

	"github.com/mailsift/email-classifier/internal/config"
	"github.com/mailsift/email-classifier/internal/labeling"
	"go.uber.org/zap"
)

// NewTaxonomy builds the classification taxonomy from configuration. When no
// categories are configured the built-in taxonomy is used. Configured
// categories keep their declaration order, which fixes weak-label
// tie-breaking.
func NewTaxonomy(cfg *config.Config, logger *zap.Logger) (labeling.Taxonomy, error) {
	names := cfg.GetStringSlice("taxonomy.categories")
	if len(names) == 0 {
		return labeling.DefaultTaxonomy(), nil
	}

	keywords := cfg.GetStringMapStringSlice("taxonomy.keywords")
	categories := make([]labeling.Category, 0, len(names))
	for _, name := range names {
		kws, ok := keywords[name]
		if !ok || len(kws) == 0 {
			return labeling.Taxonomy{}, fmt.Errorf("taxonomy category %q has no keywords", name)
		}
		// Matching runs over lowercased text, so keywords must be lowercase
		// no matter how they were written in the config file
		lowered := make([]string, len(kws))
		for i, kw := range kws {
			lowered[i] = strings.ToLower(kw)
		}
		categories = append(categories, labeling.Category{Name: name, Keywords: lowered})
	}

	taxonomy := labeling.Taxonomy{
		Categories:          categories,
		Fallback:            "other",
		ImportantCategories: cfg.GetStringSlice("taxonomy.important_categories"),
		ImportanceCutoff:    cfg.GetFloat64("taxonomy.importance_cutoff"),
	}
	logger.Info("Loaded taxonomy from configuration",
		zap.Strings("categories", taxonomy.Names()))
	return taxonomy, nil
}
