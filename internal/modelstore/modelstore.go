// Package modelstore implements filesystem-backed model artifact
// persistence: one opaque blob per (classifier name, model ID), written
// atomically via tmp+rename, the same idiom as internal/repository's
// document writes.
package modelstore

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/galahad-project/galahad/internal/errs"
	"github.com/galahad-project/galahad/internal/idguard"
)

// Store roots all model artifacts under a single "models" directory, one
// subdirectory per classifier name.
type Store struct {
	root string
}

// New creates a Store rooted at dataRoot/models.
func New(dataRoot string) *Store {
	return &Store{root: filepath.Join(dataRoot, "models")}
}

func (s *Store) classifierDir(classifierName string) (string, error) {
	return idguard.ResolvePath(s.root, classifierName)
}

func (s *Store) artifactPath(classifierName, modelID string) (string, error) {
	return idguard.ResolvePath(s.root, classifierName, modelID)
}

// ForClassifier returns a handle scoped to one classifier's model namespace,
// implementing classifier.ModelWriter and classifier.ModelReader so
// classifiers never touch the filesystem directly.
func (s *Store) ForClassifier(classifierName string) *ClassifierHandle {
	return &ClassifierHandle{store: s, classifierName: classifierName}
}

// Exists reports whether a model artifact is present.
func (s *Store) Exists(classifierName, modelID string) (bool, error) {
	path, err := s.artifactPath(classifierName, modelID)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errs.Internalf(err, "checking model %q/%q", classifierName, modelID)
	}
	return true, nil
}

// Delete removes a model artifact. Silent if already absent.
func (s *Store) Delete(classifierName, modelID string) error {
	path, err := s.artifactPath(classifierName, modelID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errs.Internalf(err, "deleting model %q/%q", classifierName, modelID)
	}
	return nil
}

// write persists data for (classifierName, modelID), creating the
// classifier's subdirectory on first use.
func (s *Store) write(classifierName, modelID string, data []byte) error {
	dir, err := s.classifierDir(classifierName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Internalf(err, "creating model directory for %q", classifierName)
	}
	path, err := s.artifactPath(classifierName, modelID)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// read loads data for (classifierName, modelID). ok is false when no
// artifact has ever been written for this pair.
func (s *Store) read(classifierName, modelID string) ([]byte, bool, error) {
	path, err := s.artifactPath(classifierName, modelID)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Internalf(err, "reading model %q/%q", classifierName, modelID)
	}
	return data, true, nil
}

// ClassifierHandle scopes a Store to a single classifier's model namespace.
// It implements classifier.ModelWriter and classifier.ModelReader.
type ClassifierHandle struct {
	store          *Store
	classifierName string
}

func (h *ClassifierHandle) WriteModel(modelID string, data []byte) error {
	return h.store.write(h.classifierName, modelID, data)
}

func (h *ClassifierHandle) ReadModel(modelID string) ([]byte, bool, error) {
	return h.store.read(h.classifierName, modelID)
}

// writeAtomic writes data to a temp sibling of path and renames it into
// place, same as internal/repository's document writer: a reader sees
// either the prior artifact or the new one, never a partial write.
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
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
