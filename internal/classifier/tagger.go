package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/galahad-project/galahad/internal/annotation"
)

// Tagger is a unigram frequency-table baseline over t.token spans: for each
// distinct (lowercased) token text seen during training, it records the most
// frequent label, plus a global fallback for unseen words. Grounded on the
// original source's contrib/pos/spacy_pos.py per-token tagging shape,
// reimplemented from frequency tables rather than importing spaCy.
type Tagger struct{}

// NewTagger creates a Tagger classifier.
func NewTagger() *Tagger { return &Tagger{} }

func (t *Tagger) DisplayName() string { return "Token Labeler" }
func (t *Tagger) Consumes() []string  { return []string{annotation.TypeToken, annotation.TypeAnnotation} }
func (t *Tagger) Produces() []string  { return []string{annotation.TypeAnnotation} }

type taggerModel struct {
	WordLabelCounts map[string]map[string]int `json:"word_label_counts"`
	GlobalCounts    map[string]int            `json:"global_counts"`
}

func newTaggerModel() *taggerModel {
	return &taggerModel{
		WordLabelCounts: make(map[string]map[string]int),
		GlobalCounts:    make(map[string]int),
	}
}

func (m *taggerModel) observe(word, label string) {
	word = strings.ToLower(word)
	if m.WordLabelCounts[word] == nil {
		m.WordLabelCounts[word] = make(map[string]int)
	}
	m.WordLabelCounts[word][label]++
	m.GlobalCounts[label]++
}

func argmax(counts map[string]int) string {
	var best string
	bestCount := -1
	for label, count := range counts {
		if count > bestCount {
			bestCount = count
			best = label
		}
	}
	return best
}

func (m *taggerModel) predict(word string) string {
	word = strings.ToLower(word)
	if counts, ok := m.WordLabelCounts[word]; ok && len(counts) > 0 {
		return argmax(counts)
	}
	return argmax(m.GlobalCounts)
}

func (t *Tagger) Train(_ context.Context, modelID string, docs []annotation.Document, artifacts ModelWriter) error {
	if len(docs) == 0 {
		return nil
	}

	model := newTaggerModel()
	seen := false
	for _, doc := range docs {
		store, err := annotation.FromSerialized(doc)
		if err != nil {
			continue
		}
		for _, token := range store.Select(annotation.TypeToken) {
			labelSpans := store.SelectCovered(annotation.TypeAnnotation, token)
			if len(labelSpans) == 0 {
				continue
			}
			label, ok := labelSpans[0].Features[annotation.FeatureValue].(string)
			if !ok || label == "" {
				continue
			}
			model.observe(store.CoveredText(token), label)
			seen = true
		}
	}

	if !seen {
		return nil
	}

	data, err := json.Marshal(model)
	if err != nil {
		return err
	}
	return artifacts.WriteModel(modelID, data)
}

func (t *Tagger) Predict(_ context.Context, modelID string, doc annotation.Document, artifacts ModelReader) (annotation.Document, error) {
	data, ok, err := artifacts.ReadModel(modelID)
	if err != nil {
		return annotation.Document{}, err
	}
	if !ok {
		return annotation.Document{}, ErrNotTrained
	}

	var model taggerModel
	if err := json.Unmarshal(data, &model); err != nil {
		return annotation.Document{}, err
	}

	store, err := annotation.FromSerialized(doc)
	if err != nil {
		return annotation.Document{}, err
	}

	for _, token := range store.Select(annotation.TypeToken) {
		label := model.predict(store.CoveredText(token))
		if label == "" {
			continue
		}
		if _, err := store.Create(annotation.TypeAnnotation, token.Begin, token.End,
			map[string]annotation.Feature{annotation.FeatureValue: label}); err != nil {
			return annotation.Document{}, err
		}
	}

	return store.ToSerialized(), nil
}
