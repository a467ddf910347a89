package classifier

import (
	"context"

	"github.com/galahad-project/galahad/internal/annotation"
)

// Passthrough is the trivial classifier variant bundled for integration
// tests: Train writes a tiny marker artifact, Predict returns the input
// Document unchanged once that marker exists. Grounded on the original
// source's contrib/sklearn.py base classifier, which is likewise a stand-in
// used by the test suite rather than a real model.
type Passthrough struct{}

// NewPassthrough creates a Passthrough classifier.
func NewPassthrough() *Passthrough { return &Passthrough{} }

func (p *Passthrough) DisplayName() string { return "Pass-through" }
func (p *Passthrough) Consumes() []string  { return nil }
func (p *Passthrough) Produces() []string  { return nil }

func (p *Passthrough) Train(_ context.Context, modelID string, docs []annotation.Document, artifacts ModelWriter) error {
	if len(docs) == 0 {
		return nil
	}
	return artifacts.WriteModel(modelID, []byte("trained"))
}

func (p *Passthrough) Predict(_ context.Context, modelID string, doc annotation.Document, artifacts ModelReader) (annotation.Document, error) {
	_, ok, err := artifacts.ReadModel(modelID)
	if err != nil {
		return annotation.Document{}, err
	}
	if !ok {
		return annotation.Document{}, ErrNotTrained
	}
	return doc, nil
}
