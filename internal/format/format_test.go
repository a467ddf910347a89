package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/format"
)

func TestBuildSentenceClassificationDocument(t *testing.T) {
	doc, err := format.BuildSentenceClassificationDocument(
		[]string{"I love this", "I hate that"},
		[]string{"positive", "negative"},
		3,
	)
	require.NoError(t, err)
	assert.Equal(t, "I love this I hate that", doc.Text)
	assert.Equal(t, 3, doc.Version)

	store, err := annotation.FromSerialized(doc)
	require.NoError(t, err)

	sentences := store.Select(annotation.TypeSentence)
	require.Len(t, sentences, 2)
	assert.Equal(t, "I love this", store.CoveredText(sentences[0]))
	assert.Equal(t, "I hate that", store.CoveredText(sentences[1]))

	annotations := store.Select(annotation.TypeAnnotation)
	require.Len(t, annotations, 2)
	assert.Equal(t, "positive", annotations[0].Features[annotation.FeatureValue])
	assert.Equal(t, "negative", annotations[1].Features[annotation.FeatureValue])
}

func TestBuildSentenceClassificationDocumentRejectsMismatchedLengths(t *testing.T) {
	_, err := format.BuildSentenceClassificationDocument([]string{"a"}, nil, 0)
	require.Error(t, err)
}

func TestBuildSpanClassificationRequest(t *testing.T) {
	sentences := [][]string{{"Joe", "waited"}, {"The", "train", "was", "late"}}
	spans := [][]format.LabeledSpan{
		{{Begin: 0, End: 1, Value: "PER"}},
		{},
	}

	doc, err := format.BuildSpanClassificationRequest(sentences, spans, 0)
	require.NoError(t, err)
	assert.Equal(t, "Joe waited The train was late", doc.Text)

	store, err := annotation.FromSerialized(doc)
	require.NoError(t, err)

	tokens := store.Select(annotation.TypeToken)
	require.Len(t, tokens, 6)
	assert.Equal(t, "Joe", store.CoveredText(tokens[0]))
	assert.Equal(t, "late", store.CoveredText(tokens[5]))

	sentenceLayer := store.Select(annotation.TypeSentence)
	require.Len(t, sentenceLayer, 2)
	assert.Equal(t, "Joe waited", store.CoveredText(sentenceLayer[0]))

	seeded := store.Select(annotation.TypeAnnotation)
	require.Len(t, seeded, 1)
	assert.Equal(t, "Joe", store.CoveredText(seeded[0]))
	assert.Equal(t, "PER", seeded[0].Features[annotation.FeatureValue])
}

func TestBuildSpanClassificationResponse(t *testing.T) {
	sentences := [][]string{{"Joe", "waited", "for", "the", "train"}}
	request, err := format.BuildSpanClassificationRequest(sentences, nil, 0)
	require.NoError(t, err)

	spans := [][]format.LabeledSpan{
		{{Begin: 0, End: 1, Value: "PER"}, {Begin: 4, End: 5, Value: "VEHICLE"}},
	}

	response, err := format.BuildSpanClassificationResponse(request, spans, 1)
	require.NoError(t, err)
	assert.Equal(t, request.Text, response.Text)
	assert.Equal(t, 1, response.Version)

	store, err := annotation.FromSerialized(response)
	require.NoError(t, err)

	produced := store.Select(annotation.TypeAnnotation)
	require.Len(t, produced, 2)
	assert.Equal(t, "Joe", store.CoveredText(produced[0]))
	assert.Equal(t, "PER", produced[0].Features[annotation.FeatureValue])
	assert.Equal(t, "train", store.CoveredText(produced[1]))
	assert.Equal(t, "VEHICLE", produced[1].Features[annotation.FeatureValue])
}

func TestBuildSpanClassificationResponseRejectsSentenceCountMismatch(t *testing.T) {
	sentences := [][]string{{"Joe", "waited"}}
	request, err := format.BuildSpanClassificationRequest(sentences, nil, 0)
	require.NoError(t, err)

	_, err = format.BuildSpanClassificationResponse(request, [][]format.LabeledSpan{{}, {}}, 0)
	require.Error(t, err)
}
