package classifier

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/galahad-project/galahad/internal/annotation"
)

// Sentence is a multinomial-Naive-Bayes bag-of-words baseline over
// t.sentence spans. It is trained from (sentence text, label) pairs
// extracted by pairing each sentence with the first t.annotation Span
// lying within it (feature f.value holds the label), and predicts one new
// t.annotation Span per input sentence, fit and scored over whitespace
// tokens with Laplace smoothing rather than a full ML framework.
type Sentence struct{}

// NewSentence creates a Sentence classifier.
func NewSentence() *Sentence { return &Sentence{} }

func (s *Sentence) DisplayName() string { return "Sentence Classifier" }
func (s *Sentence) Consumes() []string  { return []string{annotation.TypeSentence, annotation.TypeAnnotation} }
func (s *Sentence) Produces() []string  { return []string{annotation.TypeAnnotation} }

// sentenceModel is the JSON-serialized artifact: word counts per class, plus
// totals needed for Laplace-smoothed likelihoods and class priors.
type sentenceModel struct {
	ClassWordCounts map[string]map[string]int `json:"class_word_counts"`
	ClassTotals     map[string]int            `json:"class_totals"`
	ClassDocs       map[string]int            `json:"class_docs"`
	Vocab           map[string]struct{}       `json:"-"`
	VocabList       []string                  `json:"vocab"`
	TotalDocs       int                       `json:"total_docs"`
}

func newSentenceModel() *sentenceModel {
	return &sentenceModel{
		ClassWordCounts: make(map[string]map[string]int),
		ClassTotals:     make(map[string]int),
		ClassDocs:       make(map[string]int),
		Vocab:           make(map[string]struct{}),
	}
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func (m *sentenceModel) observe(text, label string) {
	words := tokenize(text)
	if m.ClassWordCounts[label] == nil {
		m.ClassWordCounts[label] = make(map[string]int)
	}
	for _, w := range words {
		m.ClassWordCounts[label][w]++
		m.ClassTotals[label]++
		m.Vocab[w] = struct{}{}
	}
	m.ClassDocs[label]++
	m.TotalDocs++
}

func (m *sentenceModel) predict(text string) string {
	words := tokenize(text)
	vocabSize := len(m.Vocab)
	if vocabSize == 0 {
		vocabSize = len(m.VocabList)
	}
	if vocabSize == 0 {
		vocabSize = 1
	}

	var bestLabel string
	bestScore := math.Inf(-1)
	for label, docCount := range m.ClassDocs {
		logProb := math.Log(float64(docCount) / float64(m.TotalDocs))
		total := m.ClassTotals[label]
		counts := m.ClassWordCounts[label]
		for _, w := range words {
			count := counts[w]
			logProb += math.Log(float64(count+1) / float64(total+vocabSize))
		}
		if logProb > bestScore {
			bestScore = logProb
			bestLabel = label
		}
	}
	return bestLabel
}

func (s *Sentence) Train(_ context.Context, modelID string, docs []annotation.Document, artifacts ModelWriter) error {
	if len(docs) == 0 {
		return nil
	}

	model := newSentenceModel()
	for _, doc := range docs {
		store, err := annotation.FromSerialized(doc)
		if err != nil {
			continue
		}
		sentences := store.Select(annotation.TypeSentence)
		for _, sentence := range sentences {
			labelSpans := store.SelectCovered(annotation.TypeAnnotation, sentence)
			if len(labelSpans) == 0 {
				continue
			}
			label, ok := labelSpans[0].Features[annotation.FeatureValue].(string)
			if !ok || label == "" {
				continue
			}
			model.observe(store.CoveredText(sentence), label)
		}
	}

	if model.TotalDocs == 0 {
		return nil
	}

	model.VocabList = make([]string, 0, len(model.Vocab))
	for w := range model.Vocab {
		model.VocabList = append(model.VocabList, w)
	}

	data, err := json.Marshal(model)
	if err != nil {
		return err
	}
	return artifacts.WriteModel(modelID, data)
}

func (s *Sentence) Predict(_ context.Context, modelID string, doc annotation.Document, artifacts ModelReader) (annotation.Document, error) {
	data, ok, err := artifacts.ReadModel(modelID)
	if err != nil {
		return annotation.Document{}, err
	}
	if !ok {
		return annotation.Document{}, ErrNotTrained
	}

	var model sentenceModel
	if err := json.Unmarshal(data, &model); err != nil {
		return annotation.Document{}, err
	}

	store, err := annotation.FromSerialized(doc)
	if err != nil {
		return annotation.Document{}, err
	}

	for _, sentence := range store.Select(annotation.TypeSentence) {
		label := model.predict(store.CoveredText(sentence))
		if label == "" {
			continue
		}
		if _, err := store.Create(annotation.TypeAnnotation, sentence.Begin, sentence.End,
			map[string]annotation.Feature{annotation.FeatureValue: label}); err != nil {
			return annotation.Document{}, err
		}
	}

	return store.ToSerialized(), nil
}
