// Package store implements the tree-structured metadata engine on top of a
// whole-snapshot persistence backend. Every mutation is a load-mutate-save
// cycle; lost updates are prevented by the backend's conditional save plus a
// bounded retry loop here.
package store

import (
	"context"
	"errors"
	"log/slog"

	"depot/internal/domain"
	"depot/internal/models"
	"depot/internal/repository"
)

// maxSaveAttempts bounds the optimistic retry loop. Each failed attempt
// means another writer made progress, so the loop cannot livelock; a hot
// snapshot eventually surfaces a ConflictError instead of spinning.
const maxSaveAttempts = 5

// errNoChange is returned by mutation closures that found nothing to do.
// The engine treats it as success without saving, which keeps deletes of
// missing ids idempotent and leaves the snapshot byte-for-byte untouched.
var errNoChange = errors.New("no change")

// TreeStore exposes folder/file CRUD, cascading delete and order
// maintenance over a SnapshotStore. It holds no snapshot state between
// calls; every operation loads fresh.
type TreeStore struct {
	repo   repository.SnapshotStore
	logger *slog.Logger
}

// New creates a tree store on top of the given snapshot backend.
func New(repo repository.SnapshotStore, logger *slog.Logger) *TreeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TreeStore{repo: repo, logger: logger}
}

// update runs one mutation as a load-mutate-save cycle, retrying the whole
// cycle on revision conflicts. The closure receives a clone, so a conflicted
// attempt never leaks partial state into the next one. Save is never called
// after the context is observed cancelled.
func (s *TreeStore) update(ctx context.Context, op string, fn func(*models.Snapshot) error) error {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap, rev, err := s.repo.Load(ctx)
		if err != nil {
			return err
		}

		work := snap.Clone()
		if err := fn(work); err != nil {
			if errors.Is(err, errNoChange) {
				return nil
			}
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := s.repo.Save(ctx, work, rev); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.logger.Debug("snapshot conflict, retrying", "op", op, "attempt", attempt)
				continue
			}
			return err
		}
		return nil
	}

	s.logger.Warn("mutation exhausted retries", "op", op, "attempts", maxSaveAttempts)
	return &domain.ConflictError{Attempts: maxSaveAttempts}
}

// Reset replaces the snapshot with an empty one.
func (s *TreeStore) Reset(ctx context.Context) error {
	return s.update(ctx, "reset", func(snap *models.Snapshot) error {
		*snap = *models.NewSnapshot()
		return nil
	})
}
