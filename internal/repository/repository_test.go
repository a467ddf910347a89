package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/errs"
)

// S1 — dataset lifecycle.
func TestDatasetLifecycle(t *testing.T) {
	repo := New(t.TempDir())

	require.NoError(t, repo.CreateDataset("ds1"))
	err := repo.CreateDataset("ds1")
	require.Error(t, err)
	assert.Equal(t, errs.AlreadyExists, errs.KindOf(err))

	names, err := repo.ListDatasets()
	require.NoError(t, err)
	assert.Equal(t, []string{"ds1"}, names)

	require.NoError(t, repo.DeleteDataset("ds1"))

	_, err = repo.ListDocuments("ds1")
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	names, err = repo.ListDatasets()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDeleteMissingDatasetIsNotFound(t *testing.T) {
	repo := New(t.TempDir())
	err := repo.DeleteDataset("nope")
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

// S2 — document CRUD, listing sorted by name regardless of the order the
// writes happened in.
func TestDocumentCRUDSortedListing(t *testing.T) {
	repo := New(t.TempDir())
	require.NoError(t, repo.CreateDataset("ds1"))

	require.NoError(t, repo.PutDocument("ds1", "d3", annotation.Document{Text: "c", Version: 7}))
	require.NoError(t, repo.PutDocument("ds1", "d1", annotation.Document{Text: "a", Version: 2}))
	require.NoError(t, repo.PutDocument("ds1", "d2", annotation.Document{Text: "b", Version: 8}))

	infos, err := repo.ListDocuments("ds1")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, []DocumentInfo{
		{Name: "d1", Version: 2},
		{Name: "d2", Version: 8},
		{Name: "d3", Version: 7},
	}, infos)
}

func TestPutDocumentReplacesPriorVersion(t *testing.T) {
	repo := New(t.TempDir())
	require.NoError(t, repo.CreateDataset("ds1"))
	require.NoError(t, repo.PutDocument("ds1", "d1", annotation.Document{Text: "a", Version: 1}))
	require.NoError(t, repo.PutDocument("ds1", "d1", annotation.Document{Text: "b", Version: 2}))

	doc, err := repo.GetDocument("ds1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "b", doc.Text)
	assert.Equal(t, 2, doc.Version)
}

func TestPutDocumentRequiresExistingDataset(t *testing.T) {
	repo := New(t.TempDir())
	err := repo.PutDocument("missing", "d1", annotation.Document{Text: "a"})
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestDeleteDocumentSilentIfAbsent(t *testing.T) {
	repo := New(t.TempDir())
	require.NoError(t, repo.CreateDataset("ds1"))
	assert.NoError(t, repo.DeleteDocument("ds1", "nope"))
}

// S5 — path traversal defense: no directory escapes the data root.
func TestPathTraversalRejected(t *testing.T) {
	root := t.TempDir()
	repo := New(root)

	err := repo.CreateDataset("..")
	require.Error(t, err)
	assert.Equal(t, errs.InvalidName, errs.KindOf(err))

	names, err := repo.ListDatasets()
	require.NoError(t, err)
	assert.Empty(t, names)

	parentEntries, err := filepath.Glob(filepath.Join(filepath.Dir(root), "*"))
	require.NoError(t, err)
	for _, e := range parentEntries {
		assert.NotEqual(t, "..", filepath.Base(e))
	}
}

func TestReadDatasetDeterministicOrder(t *testing.T) {
	repo := New(t.TempDir())
	require.NoError(t, repo.CreateDataset("ds1"))
	require.NoError(t, repo.PutDocument("ds1", "b", annotation.Document{Text: "second"}))
	require.NoError(t, repo.PutDocument("ds1", "a", annotation.Document{Text: "first"}))

	docs, err := repo.ReadDataset("ds1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].Text)
	assert.Equal(t, "second", docs[1].Text)
}
