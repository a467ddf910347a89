package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentenceAndTokenDoc() Document {
	text := "Joe waited for the train . The train was late ."
	tokens := Layer{
		{Begin: 0, End: 3}, {Begin: 4, End: 10}, {Begin: 11, End: 14},
		{Begin: 15, End: 18}, {Begin: 19, End: 24}, {Begin: 25, End: 26},
		{Begin: 27, End: 30}, {Begin: 31, End: 36}, {Begin: 37, End: 40},
		{Begin: 41, End: 45}, {Begin: 46, End: 47},
	}
	sentences := Layer{
		{Begin: 0, End: 26}, {Begin: 27, End: 47},
	}
	return Document{
		Text: text,
		Annotations: map[string]Layer{
			TypeToken:    tokens,
			TypeSentence: sentences,
		},
	}
}

func TestFromSerializedToSerializedRoundTrip(t *testing.T) {
	doc := sentenceAndTokenDoc()
	doc.Version = 5

	store, err := FromSerialized(doc)
	require.NoError(t, err)

	out := store.ToSerialized()
	assert.Equal(t, doc.Text, out.Text)
	assert.Equal(t, doc.Version, out.Version)
	assert.ElementsMatch(t, doc.Annotations[TypeToken], out.Annotations[TypeToken])
	assert.Equal(t, doc.Annotations[TypeSentence], out.Annotations[TypeSentence])

	// idempotent: serializing again yields the same result.
	store2, err := FromSerialized(out)
	require.NoError(t, err)
	assert.Equal(t, out, store2.ToSerialized())
}

func TestSelectReturnsCanonicalOrder(t *testing.T) {
	store, err := FromSerialized(sentenceAndTokenDoc())
	require.NoError(t, err)

	sentences := store.Select(TypeSentence)
	require.Len(t, sentences, 2)
	assert.True(t, sentences[0].Begin <= sentences[1].Begin)
}

func TestSelectUnknownTypeIsEmpty(t *testing.T) {
	store, err := FromSerialized(sentenceAndTokenDoc())
	require.NoError(t, err)
	assert.Empty(t, store.Select("t.nonexistent"))
}

// S6 — coverage query: select_covered("t.token", (0,26)) returns exactly
// the first six token Spans in order.
func TestSelectCoveredFirstSentence(t *testing.T) {
	store, err := FromSerialized(sentenceAndTokenDoc())
	require.NoError(t, err)

	covered := store.SelectCovered(TypeToken, Span{Begin: 0, End: 26})
	require.Len(t, covered, 6)
	for i, s := range covered {
		assert.Equal(t, sentenceAndTokenDoc().Annotations[TypeToken][i], s)
	}
}

// Property 2: SelectCovered(T, c) == filter(Select(T), contained-in-c),
// for a handful of representative covers, including edge cases where a
// Span's begin/end sits exactly on the cover boundary.
func TestSelectCoveredMatchesFilterDefinition(t *testing.T) {
	doc := sentenceAndTokenDoc()
	store, err := FromSerialized(doc)
	require.NoError(t, err)

	covers := []Span{
		{Begin: 0, End: 26},
		{Begin: 27, End: 47},
		{Begin: 0, End: 47},
		{Begin: 4, End: 24}, // excludes the boundary tokens
		{Begin: 46, End: 47},
	}

	for _, cover := range covers {
		got := store.SelectCovered(TypeToken, cover)
		var want []Span
		for _, s := range store.Select(TypeToken) {
			if cover.Begin <= s.Begin && s.End <= cover.End {
				want = append(want, s)
			}
		}
		assert.Equal(t, want, got, "cover=%+v", cover)
	}
}

func TestCoveredText(t *testing.T) {
	store, err := FromSerialized(sentenceAndTokenDoc())
	require.NoError(t, err)
	assert.Equal(t, "Joe", store.CoveredText(Span{Begin: 0, End: 3}))
}

func TestCreateAppendsInSortOrder(t *testing.T) {
	store := New("hello world")
	_, err := store.Create(TypeToken, 6, 11, nil)
	require.NoError(t, err)
	_, err = store.Create(TypeToken, 0, 5, nil)
	require.NoError(t, err)

	tokens := store.Select(TypeToken)
	require.Len(t, tokens, 2)
	assert.Equal(t, 0, tokens[0].Begin)
	assert.Equal(t, 6, tokens[1].Begin)
}

func TestCreateRejectsOutOfBounds(t *testing.T) {
	store := New("short")
	_, err := store.Create(TypeToken, 0, 100, nil)
	assert.Error(t, err)
}

func TestFromSerializedRejectsBadSpan(t *testing.T) {
	_, err := FromSerialized(Document{
		Text:        "abc",
		Annotations: map[string]Layer{TypeToken: {{Begin: 2, End: 10}}},
	})
	assert.Error(t, err)
}

func TestFromSerializedRejectsBadTypeName(t *testing.T) {
	_, err := FromSerialized(Document{
		Text:        "abc",
		Annotations: map[string]Layer{"..bad": {{Begin: 0, End: 1}}},
	})
	assert.Error(t, err)
}

func TestZeroLengthSpansAreLegal(t *testing.T) {
	store := New("abc")
	span, err := store.Create(TypeToken, 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, span.Begin)
	assert.Equal(t, 1, span.End)
}
