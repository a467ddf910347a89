package training

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/classifier"
	"github.com/galahad-project/galahad/internal/errs"
	"github.com/galahad-project/galahad/internal/modelstore"
	"github.com/galahad-project/galahad/internal/repository"
)

// TestSubmitRejectsWhileLockIsHeld holds the build lock directly (rather
// than racing two Submit calls against a scheduler fast enough to finish a
// build between them) so the rejection is deterministic regardless of how
// quickly the registered classifier trains.
func TestSubmitRejectsWhileLockIsHeld(t *testing.T) {
	root := t.TempDir()
	locksDir := filepath.Join(root, "locks")

	repo := repository.New(root)
	require.NoError(t, repo.CreateDataset("ds1"))
	require.NoError(t, repo.PutDocument("ds1", "doc1", annotation.Document{Text: "hello"}))

	models := modelstore.New(root)
	registry := classifier.NewRegistry()
	require.NoError(t, registry.Add("passthrough", classifier.NewPassthrough()))

	sched := New(slog.New(slog.NewTextHandler(discardWriter{}, nil)), registry, repo, models, locksDir, 2)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	sched.Start(ctx)

	lock, err := newBuildLock(locksDir, "passthrough", "m1")
	require.NoError(t, err)
	require.NoError(t, lock.acquire(locksDir))
	t.Cleanup(func() { lock.release() })

	_, err = sched.Submit(context.Background(), "passthrough", "ds1", "m1")
	require.Error(t, err)

	var domainErr *errs.Error
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, errs.ConcurrencyRejected, domainErr.Kind)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
