package modelstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galahad-project/galahad/internal/modelstore"
)

func TestReadMissingModelIsNotOK(t *testing.T) {
	store := modelstore.New(t.TempDir())
	handle := store.ForClassifier("sentence")

	data, ok, err := handle.ReadModel("m1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	store := modelstore.New(t.TempDir())
	handle := store.ForClassifier("sentence")

	require.NoError(t, handle.WriteModel("m1", []byte("payload")))

	data, ok, err := handle.ReadModel("m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
}

func TestWriteReplacesPriorArtifact(t *testing.T) {
	store := modelstore.New(t.TempDir())
	handle := store.ForClassifier("sentence")

	require.NoError(t, handle.WriteModel("m1", []byte("v1")))
	require.NoError(t, handle.WriteModel("m1", []byte("v2")))

	data, ok, err := handle.ReadModel("m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), data)
}

func TestDistinctClassifiersAreIsolated(t *testing.T) {
	store := modelstore.New(t.TempDir())

	require.NoError(t, store.ForClassifier("sentence").WriteModel("m1", []byte("sentence-data")))
	require.NoError(t, store.ForClassifier("tagger").WriteModel("m1", []byte("tagger-data")))

	data, ok, err := store.ForClassifier("tagger").ReadModel("m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("tagger-data"), data)
}

func TestExistsAndDelete(t *testing.T) {
	store := modelstore.New(t.TempDir())

	exists, err := store.Exists("sentence", "m1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.ForClassifier("sentence").WriteModel("m1", []byte("data")))

	exists, err = store.Exists("sentence", "m1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete("sentence", "m1"))

	exists, err = store.Exists("sentence", "m1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteMissingModelIsSilent(t *testing.T) {
	store := modelstore.New(t.TempDir())
	require.NoError(t, store.Delete("sentence", "missing"))
}
