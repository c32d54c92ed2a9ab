package core

// FeatureExtractor turns a raw email into a FeatureBag. Implementations must
// never fail; absent fields degrade to empty or zero values.
type FeatureExtractor interface {
	Extract(email Email) FeatureBag
}

// ArtifactStore persists and restores model bundles as one atomic unit
type ArtifactStore interface {
	// Save writes the bundle to path atomically
	Save(bundle *ModelBundle, path string) error

	// Load reads a bundle from path. A missing file yields
	// ErrArtifactNotFound, an undecodable one ErrArtifactCorrupt.
	Load(path string) (*ModelBundle, error)
}

// PredictionCache stores predictions keyed by email content hash so repeated
// classification of the same message skips the model
type PredictionCache interface {
	// Get retrieves a cached prediction
	Get(key string) (*Prediction, bool)

	// Set stores a prediction
	Set(key string, p *Prediction)

	// Stop releases any resources held by the cache
	Stop()
}
