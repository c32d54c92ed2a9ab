// Package artifacts persists model bundles. A bundle travels as one unit:
// both classifiers, the fitted vector space, and the label encoding are
// written and read together so they can never drift apart.
package artifacts

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/ml"
	"go.uber.org/zap"
)

func init() {
	// Concrete classifier types carried behind the ml.Classifier interface
	gob.Register(&ml.LogisticRegression{})
	gob.Register(&ml.LinearSVM{})
	gob.Register(&ml.RandomForest{})
}

// FileStore reads and writes model bundles as gob-encoded files
type FileStore struct {
	logger *zap.Logger
}

// NewFileStore creates a new file-backed artifact store
func NewFileStore(logger *zap.Logger) *FileStore {
	return &FileStore{logger: logger}
}

// Save writes the bundle to path. The write goes to a temporary file in the
// same directory and is renamed into place, so readers never observe a
// partially written bundle.
func (s *FileStore) Save(bundle *core.ModelBundle, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary artifact file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(bundle); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary artifact file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing artifact file: %w", err)
	}

	s.logger.Info("Saved model bundle",
		zap.String("path", path),
		zap.String("run_id", bundle.Metadata.RunID))
	return nil
}

// Load reads a bundle from path. Missing files yield ErrArtifactNotFound and
// undecodable or incomplete bundles yield ErrArtifactCorrupt, so callers can
// start degraded instead of crashing.
func (s *FileStore) Load(path string) (*core.ModelBundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", core.ErrArtifactCorrupt, path, err)
	}
	defer f.Close()

	var bundle core.ModelBundle
	if err := gob.NewDecoder(f).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrArtifactCorrupt, path, err)
	}

	if bundle.ImportanceModel == nil || bundle.CategoryModel == nil ||
		bundle.Space == nil || bundle.Labels == nil {
		return nil, fmt.Errorf("%w: %s: bundle is missing components", core.ErrArtifactCorrupt, path)
	}

	s.logger.Info("Loaded model bundle",
		zap.String("path", path),
		zap.String("run_id", bundle.Metadata.RunID),
		zap.Strings("categories", bundle.Metadata.Categories))
	return &bundle, nil
}
