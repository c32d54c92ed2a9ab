package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mailsift/email-classifier/internal/artifacts"
	"github.com/mailsift/email-classifier/internal/config"
	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/factory"
	"github.com/mailsift/email-classifier/internal/features"
	"github.com/mailsift/email-classifier/internal/logging"
	"github.com/mailsift/email-classifier/internal/server"
	"github.com/mailsift/email-classifier/internal/textproc"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processing
	if err := container.Provide(textproc.NewNormalizer); err != nil {
		return nil, err
	}
	if err := container.Provide(textproc.NewHTMLConverter); err != nil {
		return nil, err
	}

	// Register feature extractor
	if err := container.Provide(func(n *textproc.Normalizer, h *textproc.HTMLConverter, cfg *config.Config) core.FeatureExtractor {
		return features.NewExtractor(n, h, cfg.GetInt("classifier.max_text_length"))
	}); err != nil {
		return nil, err
	}

	// Register artifact store
	if err := container.Provide(func(logger *zap.Logger) core.ArtifactStore {
		return artifacts.NewFileStore(logger)
	}); err != nil {
		return nil, err
	}

	// Register cache factory and prediction cache
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.PredictionCache, error) {
		if !f.IsCacheEnabled() {
			return nil, nil
		}
		return f.CreatePredictionCache()
	}); err != nil {
		return nil, err
	}

	// Register classifier service
	if err := container.Provide(func(
		extractor core.FeatureExtractor,
		store core.ArtifactStore,
		cache core.PredictionCache,
		cacheFactory *factory.CacheFactory,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.ClassifierService {
		return core.NewClassifierService(
			extractor,
			store,
			cache,
			logger,
			cacheFactory.IsCacheEnabled(),
			cfg.GetFloat64("classifier.confidence_threshold"),
			cfg.GetInt("classifier.max_batch_size"),
			cfg.GetString("model.path"),
		)
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(server.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
