// Package format provides pure construction/translation helpers that build
// documents from tokens/spans/labels and translate classifier output shapes
// back into documents, built over internal/annotation.Store.
package format

import (
	"strings"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/errs"
)

// LabeledSpan names a token-index range (end exclusive, like a Go slice
// bound) within one sentence, carrying the label to attach to the
// corresponding text span once translated to rune offsets.
type LabeledSpan struct {
	Begin int
	End   int
	Value string
}

// BuildSentenceClassificationDocument joins sentences with single spaces and
// emits a t.sentence Span plus a labeled t.annotation Span per sentence,
// mirroring build_sentence_classification_document.
func BuildSentenceClassificationDocument(sentences, labels []string, version int) (annotation.Document, error) {
	if len(sentences) != len(labels) {
		return annotation.Document{}, errs.InvalidNamef("sentences and labels must have the same length")
	}

	text := strings.Join(sentences, " ")
	store := annotation.New(text)

	begin := 0
	for i, sentence := range sentences {
		end := begin + len([]rune(sentence))

		if _, err := store.Create(annotation.TypeSentence, begin, end, nil); err != nil {
			return annotation.Document{}, err
		}
		if _, err := store.Create(annotation.TypeAnnotation, begin, end,
			map[string]annotation.Feature{annotation.FeatureValue: labels[i]}); err != nil {
			return annotation.Document{}, err
		}

		begin = end + 1 // +1 for the joining space
	}

	store.SetVersion(version)
	return store.ToSerialized(), nil
}

// BuildSpanClassificationRequest joins all tokens of all sentences with
// single spaces, emits a t.token Span per token and a t.sentence Span per
// sentence, then attaches any seed t.annotation spans addressed by
// (sentence index, token-index range), mirroring
// build_span_classification_request.
func BuildSpanClassificationRequest(sentences [][]string, spans [][]LabeledSpan, version int) (annotation.Document, error) {
	var textParts []string
	for _, sentence := range sentences {
		textParts = append(textParts, sentence...)
	}
	text := strings.Join(textParts, " ")
	store := annotation.New(text)

	tokenBegins := make([][]int, len(sentences))
	tokenEnds := make([][]int, len(sentences))

	begin := 0
	end := 0
	for sentenceIdx, sentence := range sentences {
		tokenBegins[sentenceIdx] = make([]int, len(sentence))
		tokenEnds[sentenceIdx] = make([]int, len(sentence))
		sentenceStart := begin

		for tokenIdx, token := range sentence {
			end = begin + len([]rune(token))
			tokenBegins[sentenceIdx][tokenIdx] = begin
			tokenEnds[sentenceIdx][tokenIdx] = end

			if _, err := store.Create(annotation.TypeToken, begin, end, nil); err != nil {
				return annotation.Document{}, err
			}
			begin = end + 1
		}
		if _, err := store.Create(annotation.TypeSentence, sentenceStart, end, nil); err != nil {
			return annotation.Document{}, err
		}
	}

	for sentenceIdx, sentenceSpans := range spans {
		for _, span := range sentenceSpans {
			if span.Begin < 0 || span.End > len(tokenBegins[sentenceIdx]) || span.Begin >= span.End {
				return annotation.Document{}, errs.InvalidNamef(
					"span [%d,%d) out of range for sentence %d with %d tokens",
					span.Begin, span.End, sentenceIdx, len(tokenBegins[sentenceIdx]))
			}
			spanBegin := tokenBegins[sentenceIdx][span.Begin]
			spanEnd := tokenEnds[sentenceIdx][span.End-1]

			if _, err := store.Create(annotation.TypeAnnotation, spanBegin, spanEnd,
				map[string]annotation.Feature{annotation.FeatureValue: span.Value}); err != nil {
				return annotation.Document{}, err
			}
		}
	}

	store.SetVersion(version)
	return store.ToSerialized(), nil
}

// BuildSpanClassificationResponse takes a Document already carrying
// t.token and t.sentence layers (as produced by
// BuildSpanClassificationRequest) and attaches one labeled t.annotation
// Span per (sentence, span) pair, translating token-index ranges to text
// offsets via the sentence's covered tokens. Mirrors
// build_span_classification_response.
func BuildSpanClassificationResponse(original annotation.Document, spans [][]LabeledSpan, version int) (annotation.Document, error) {
	store, err := annotation.FromSerialized(original)
	if err != nil {
		return annotation.Document{}, err
	}

	sentences := store.Select(annotation.TypeSentence)
	if len(sentences) == 0 {
		return annotation.Document{}, errs.InvalidNamef("document has no t.sentence layer to align spans against")
	}
	if len(spans) != len(sentences) {
		return annotation.Document{}, errs.InvalidNamef(
			"expected %d sentences of spans, got %d", len(sentences), len(spans))
	}

	for i, sentence := range sentences {
		tokens := store.SelectCovered(annotation.TypeToken, sentence)
		for _, span := range spans[i] {
			if span.Begin < 0 || span.End > len(tokens) || span.Begin >= span.End {
				return annotation.Document{}, errs.InvalidNamef(
					"span [%d,%d) out of range for sentence %d with %d tokens",
					span.Begin, span.End, i, len(tokens))
			}
			firstToken := tokens[span.Begin]
			lastToken := tokens[span.End-1]

			if _, err := store.Create(annotation.TypeAnnotation, firstToken.Begin, lastToken.End,
				map[string]annotation.Feature{annotation.FeatureValue: span.Value}); err != nil {
				return annotation.Document{}, err
			}
		}
	}

	store.SetVersion(version)
	return store.ToSerialized(), nil
}
