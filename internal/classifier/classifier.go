// Package classifier defines the polymorphic Classifier capability and the
// process-wide registry that maps classifier names to instances.
package classifier

import (
	"context"
	"errors"

	"github.com/galahad-project/galahad/internal/annotation"
)

// ErrNotTrained is returned by Predict when the named model has never been
// trained (no artifact on disk). The HTTP layer maps this to 404.
var ErrNotTrained = errors.New("model not found")

// Classifier is a named, in-process text classifier. Variants (sentence
// labeling, token/span labeling, pass-through) all implement the same four
// operations, so the registry never needs to know which is which.
type Classifier interface {
	// DisplayName is a human-readable label for this classifier.
	DisplayName() string

	// Train consumes the full corpus and MUST produce a model artifact on
	// success, via the ModelWriter. It MAY log and return normally when the
	// corpus is empty (no artifact produced).
	Train(ctx context.Context, modelID string, docs []annotation.Document, artifacts ModelWriter) error

	// Predict returns a new Document whose Text equals doc.Text and whose
	// Annotations extend doc.Annotations with produced layers. Returns
	// ErrNotTrained if modelID has no artifact.
	Predict(ctx context.Context, modelID string, doc annotation.Document, artifacts ModelReader) (annotation.Document, error)

	// Consumes/Produces are advisory metadata, never enforced by the
	// server.
	Consumes() []string
	Produces() []string
}

// ModelWriter is the write-side of model persistence handed to a Classifier
// during Train, so classifiers never touch the filesystem directly.
type ModelWriter interface {
	WriteModel(modelID string, data []byte) error
}

// ModelReader is the read-side of model persistence handed to a Classifier
// during Predict. ok is false when modelID has never been trained; err is
// reserved for genuine I/O failures.
type ModelReader interface {
	ReadModel(modelID string) (data []byte, ok bool, err error)
}
