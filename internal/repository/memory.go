package repository

import (
	"context"
	"fmt"
	"sync"

	"depot/internal/domain"
	"depot/internal/models"
)

// MemoryStore is an in-process snapshot store with the same conditional-save
// semantics as the durable backends. Used by tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.Mutex
	snap *models.Snapshot
	rev  Revision

	// Fault injection for tests; consumed on the next matching call.
	FailNextLoad error
	FailNextSave error
}

// NewMemoryStore returns a memory store holding an empty snapshot.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snap: models.NewSnapshot()}
}

func (s *MemoryStore) Load(ctx context.Context) (*models.Snapshot, Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailNextLoad; err != nil {
		s.FailNextLoad = nil
		return nil, 0, &domain.UnavailableError{Op: "load", Err: err}
	}
	return s.snap.Clone(), s.rev, nil
}

func (s *MemoryStore) Save(ctx context.Context, snap *models.Snapshot, rev Revision) (Revision, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailNextSave; err != nil {
		s.FailNextSave = nil
		return 0, &domain.UnavailableError{Op: "save", Err: err}
	}
	if s.rev != rev {
		return 0, fmt.Errorf("snapshot at revision %d, expected %d: %w", s.rev, rev, domain.ErrConflict)
	}
	s.snap = snap.Clone()
	s.rev++
	return s.rev, nil
}

var _ SnapshotStore = (*MemoryStore)(nil)
