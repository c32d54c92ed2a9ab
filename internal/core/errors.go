package core

import "errors"

var (
	// ErrNotReady is returned when a prediction is requested before a model
	// bundle has been loaded
	ErrNotReady = errors.New("no model bundle loaded")

	// ErrArtifactNotFound is returned when no bundle file exists at the
	// configured path
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrArtifactCorrupt is returned when a bundle file exists but cannot be
	// decoded into a usable bundle
	ErrArtifactCorrupt = errors.New("model artifact unreadable")

	// ErrBatchTooLarge is returned when a batch exceeds the configured ceiling
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

// ErrorKind classifies a pipeline failure so callers can map it to their own
// response surface without inspecting messages
type ErrorKind string

const (
	KindNotFound ErrorKind = "artifact_not_found"
	KindCorrupt  ErrorKind = "artifact_corrupt"
	KindNotReady ErrorKind = "not_ready"
	KindBadInput ErrorKind = "bad_input"
	KindInternal ErrorKind = "internal"
)

// Kind returns the ErrorKind for an error produced by the pipeline
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		return KindNotFound
	case errors.Is(err, ErrArtifactCorrupt):
		return KindCorrupt
	case errors.Is(err, ErrNotReady):
		return KindNotReady
	case errors.Is(err, ErrBatchTooLarge):
		return KindBadInput
	default:
		return KindInternal
	}
}
