// Package training implements the build scheduler: at most one concurrent
// build per (classifier, model) pair, backed by a worker pool of goroutines
// and a file lock for cross-restart exclusion.
package training

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/classifier"
	"github.com/galahad-project/galahad/internal/errs"
	"github.com/galahad-project/galahad/internal/modelstore"
	"github.com/galahad-project/galahad/internal/repository"
)

// Build is a snapshot of one training run's lifecycle.
type Build struct {
	ID             string
	ClassifierName string
	ModelID        string
	DatasetID      string
	State          BuildState
	Error          string
	QueuedAt       time.Time
	StartedAt      time.Time
	FinishedAt     time.Time
}

type buildTask struct {
	build *Build
	lock  *buildLock
}

// Scheduler accepts build requests and runs them on a bounded pool of
// worker goroutines, enforcing at most one in-flight build per
// (classifier, model) via buildLock.
type Scheduler struct {
	logger      *slog.Logger
	registry    *classifier.Registry
	repo        *repository.Repository
	models      *modelstore.Store
	locksDir    string
	workerCount int
	queue       chan buildTask

	mu     sync.Mutex
	builds map[string]*Build
}

// New creates a Scheduler with workerCount worker goroutines. Call Start to
// begin processing submitted builds.
func New(logger *slog.Logger, registry *classifier.Registry, repo *repository.Repository, models *modelstore.Store, locksDir string, workerCount int) *Scheduler {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Scheduler{
		logger:      logger,
		registry:    registry,
		repo:        repo,
		models:      models,
		locksDir:    locksDir,
		workerCount: workerCount,
		queue:       make(chan buildTask, 64),
		builds:      make(map[string]*Build),
	}
}

// Start launches the worker pool. ctx cancellation stops all workers once
// their current build, if any, finishes.
func (s *Scheduler) Start(ctx context.Context) {
	for i := 0; i < s.workerCount; i++ {
		go s.worker(ctx, i)
	}
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-s.queue:
			if !ok {
				return
			}
			s.run(ctx, task)
		}
	}
}

// Submit enqueues a build for (classifierName, modelID) against the
// documents currently in datasetID. It acquires the build lock
// synchronously, so the caller learns immediately (ConcurrencyRejected) if
// a build for this pair is already in flight, rather than discovering it
// only after the build has been queued. Returns the Build's correlation ID
// for status polling.
func (s *Scheduler) Submit(ctx context.Context, classifierName, datasetID, modelID string) (string, error) {
	if _, err := s.registry.Get(classifierName); err != nil {
		return "", err
	}
	exists, err := s.repo.DatasetExists(datasetID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errs.NotFoundf("dataset %q not found", datasetID)
	}

	lock, err := newBuildLock(s.locksDir, classifierName, modelID)
	if err != nil {
		return "", err
	}
	if err := lock.acquire(s.locksDir); err != nil {
		return "", err
	}

	build := &Build{
		ID:             uuid.NewString(),
		ClassifierName: classifierName,
		ModelID:        modelID,
		DatasetID:      datasetID,
		State:          StateQueued,
		QueuedAt:       time.Now(),
	}

	s.mu.Lock()
	s.builds[build.ID] = build
	s.mu.Unlock()

	s.logger.Info("build queued",
		"build_id", build.ID,
		"classifier", classifierName,
		"model", modelID,
		"dataset", datasetID)

	select {
	case s.queue <- buildTask{build: build, lock: lock}:
		return build.ID, nil
	case <-ctx.Done():
		lock.release()
		return "", errs.Internalf(ctx.Err(), "submitting build")
	}
}

// Status returns a snapshot of one build's state by correlation ID.
func (s *Scheduler) Status(buildID string) (Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.builds[buildID]
	if !ok {
		return Build{}, errs.NotFoundf("build %q not found", buildID)
	}
	return *b, nil
}

func (s *Scheduler) setState(build *Build, state BuildState) error {
	if err := transition(build.State, state); err != nil {
		return err
	}
	s.mu.Lock()
	build.State = state
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) run(ctx context.Context, task buildTask) {
	build := task.build
	defer task.lock.release()

	if err := s.setState(build, StateRunning); err != nil {
		s.logger.Error("invalid build transition", "build_id", build.ID, "error", err)
		return
	}
	s.mu.Lock()
	build.StartedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("build started", "build_id", build.ID, "classifier", build.ClassifierName, "model", build.ModelID)

	err := s.execute(ctx, build)

	s.mu.Lock()
	build.FinishedAt = time.Now()
	s.mu.Unlock()

	finalState := StateSucceeded
	if err != nil {
		finalState = StateFailed
		s.mu.Lock()
		build.Error = err.Error()
		s.mu.Unlock()
		s.logger.Error("build failed", "build_id", build.ID, "error", err)
	} else {
		s.logger.Info("build succeeded", "build_id", build.ID)
	}

	if transErr := s.setState(build, finalState); transErr != nil {
		s.logger.Error("invalid build transition", "build_id", build.ID, "error", transErr)
	}
}

func (s *Scheduler) execute(ctx context.Context, build *Build) error {
	c, err := s.registry.Get(build.ClassifierName)
	if err != nil {
		return err
	}
	docs, err := s.repo.ReadDataset(build.DatasetID)
	if err != nil {
		return err
	}
	handle := s.models.ForClassifier(build.ClassifierName)
	return c.Train(ctx, build.ModelID, docs, handle)
}

// Predict runs Predict synchronously against the currently published model
// for (classifierName, modelID). Unlike Train, Predict is never queued: the
// at-most-one-concurrent-build lock governs builds, not inference.
func (s *Scheduler) Predict(ctx context.Context, classifierName, modelID string, doc annotation.Document) (annotation.Document, error) {
	c, err := s.registry.Get(classifierName)
	if err != nil {
		return annotation.Document{}, err
	}
	handle := s.models.ForClassifier(classifierName)
	return c.Predict(ctx, modelID, doc, handle)
}
