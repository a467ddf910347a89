// Package repository implements the filesystem-backed dataset and document
// store: directories for datasets, JSON files for documents, deterministic
// (sorted) listings, and tmp+rename writes.
package repository

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/errs"
	"github.com/galahad-project/galahad/internal/idguard"
)

// Repository roots all dataset/document filesystem operations under a single
// data directory.
type Repository struct {
	root string
}

// New creates a Repository rooted at dataRoot. The datasets/ subdirectory is
// created on first use.
func New(dataRoot string) *Repository {
	return &Repository{root: dataRoot}
}

// Root returns the repository's data root, for sibling components (model
// storage, locks) that share the same directory tree.
func (r *Repository) Root() string { return r.root }

func (r *Repository) datasetsDir() string {
	return filepath.Join(r.root, "datasets")
}

// DocumentInfo is a (name, version) pair as returned by ListDocuments.
type DocumentInfo struct {
	Name    string
	Version int
}

// ListDatasets returns the names of all datasets, sorted ascending.
func (r *Repository) ListDatasets() ([]string, error) {
	entries, err := os.ReadDir(r.datasetsDir())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errs.Internalf(err, "listing datasets")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateDataset creates an empty dataset directory. Fails with AlreadyExists
// if the dataset is already present.
func (r *Repository) CreateDataset(datasetID string) error {
	path, err := idguard.ResolvePath(r.datasetsDir(), datasetID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.datasetsDir(), 0o755); err != nil {
		return errs.Internalf(err, "creating datasets directory")
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		if os.IsExist(err) {
			return errs.AlreadyExistsf("dataset %q already exists", datasetID)
		}
		return errs.Internalf(err, "creating dataset %q", datasetID)
	}
	return nil
}

// DatasetExists reports whether datasetID has a directory on disk.
func (r *Repository) DatasetExists(datasetID string) (bool, error) {
	path, err := idguard.ResolvePath(r.datasetsDir(), datasetID)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errs.Internalf(err, "checking dataset %q", datasetID)
	}
	return info.IsDir(), nil
}

// DeleteDataset removes a dataset and all contained documents.
func (r *Repository) DeleteDataset(datasetID string) error {
	exists, err := r.DatasetExists(datasetID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NotFoundf("dataset %q not found", datasetID)
	}
	path, err := idguard.ResolvePath(r.datasetsDir(), datasetID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return errs.Internalf(err, "deleting dataset %q", datasetID)
	}
	return nil
}

// ListDocuments returns (name, version) pairs for every document in
// datasetID, sorted by name ascending. NotFound if the dataset is absent.
func (r *Repository) ListDocuments(datasetID string) ([]DocumentInfo, error) {
	datasetPath, err := idguard.ResolvePath(r.datasetsDir(), datasetID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(datasetPath)
	if os.IsNotExist(err) {
		return nil, errs.NotFoundf("dataset %q not found", datasetID)
	}
	if err != nil {
		return nil, errs.Internalf(err, "listing documents in dataset %q", datasetID)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	infos := make([]DocumentInfo, 0, len(names))
	for _, name := range names {
		doc, err := r.readDocumentFile(filepath.Join(datasetPath, name))
		if err != nil {
			return nil, err
		}
		infos = append(infos, DocumentInfo{Name: name, Version: doc.Version})
	}
	return infos, nil
}

// GetDocument reads a single document. NotFound if the dataset or document
// is absent.
func (r *Repository) GetDocument(datasetID, documentID string) (annotation.Document, error) {
	path, err := idguard.ResolvePath(r.datasetsDir(), datasetID, documentID)
	if err != nil {
		return annotation.Document{}, err
	}
	if exists, derr := r.DatasetExists(datasetID); derr != nil {
		return annotation.Document{}, derr
	} else if !exists {
		return annotation.Document{}, errs.NotFoundf("dataset %q not found", datasetID)
	}
	doc, err := r.readDocumentFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return annotation.Document{}, errs.NotFoundf("document %q not found in dataset %q", documentID, datasetID)
	}
	return doc, err
}

// ReadDataset reads every document in datasetID, in deterministic
// (sorted-by-name) order. Used by the training scheduler to build a corpus.
func (r *Repository) ReadDataset(datasetID string) ([]annotation.Document, error) {
	infos, err := r.ListDocuments(datasetID)
	if err != nil {
		return nil, err
	}
	docs := make([]annotation.Document, 0, len(infos))
	for _, info := range infos {
		doc, err := r.GetDocument(datasetID, info.Name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// PutDocument writes doc to (datasetID, documentID), replacing any prior
// document at that pair. The write is atomic (tmp+rename). NotFound if the
// dataset is absent.
func (r *Repository) PutDocument(datasetID, documentID string, doc annotation.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	path, err := idguard.ResolvePath(r.datasetsDir(), datasetID, documentID)
	if err != nil {
		return err
	}
	if exists, derr := r.DatasetExists(datasetID); derr != nil {
		return derr
	} else if !exists {
		return errs.NotFoundf("dataset %q not found", datasetID)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errs.Internalf(err, "marshaling document %q", documentID)
	}
	return writeAtomic(path, data)
}

// DeleteDocument removes a document. Silent (no error) if the document is
// already absent; NotFound if the dataset itself is absent.
func (r *Repository) DeleteDocument(datasetID, documentID string) error {
	path, err := idguard.ResolvePath(r.datasetsDir(), datasetID, documentID)
	if err != nil {
		return err
	}
	if exists, derr := r.DatasetExists(datasetID); derr != nil {
		return derr
	} else if !exists {
		return errs.NotFoundf("dataset %q not found", datasetID)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errs.Internalf(err, "deleting document %q", documentID)
	}
	return nil
}

func (r *Repository) readDocumentFile(path string) (annotation.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return annotation.Document{}, errs.Internalf(err, "reading document file %q", path)
	}
	var doc annotation.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return annotation.Document{}, errs.Internalf(err, "parsing document file %q", path)
	}
	return doc, nil
}

// writeAtomic writes data to a temp sibling of path (suffixed with a random
// uuid so concurrent writers never collide on the same temp name) and
// renames it into place. A reader sees either the prior content or the new
// content, never a partial write.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errs.Internalf(err, "writing temp file for %q", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errs.Internalf(err, "publishing %q", path)
	}
	// fsync the directory entry so the rename is durable, not just visible.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
