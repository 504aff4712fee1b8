package repository

import (
	"context"

	"depot/internal/models"
)

// Revision is an optimistic concurrency token. Every successful Save bumps
// it; a Save whose expected revision no longer matches the persisted one
// fails with domain.ErrConflict instead of silently discarding the other
// writer's change.
type Revision int64

// SnapshotStore persists the whole folder/file snapshot as one unit. There
// are no partial writes and no native locking in any substrate; conditional
// saves on the revision are the only concurrency primitive.
type SnapshotStore interface {
	// Load returns the current snapshot and its revision. An empty or
	// uninitialized substrate yields an empty snapshot at revision 0.
	Load(ctx context.Context) (*models.Snapshot, Revision, error)

	// Save persists the snapshot if the stored revision still equals rev,
	// returning the new revision. A mismatch returns an error matching
	// domain.ErrConflict; I/O failures match domain.ErrUnavailable.
	Save(ctx context.Context, snap *models.Snapshot, rev Revision) (Revision, error)
}
