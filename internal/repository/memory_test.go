package repository

import (
	"context"
	"errors"
	"io"
	"testing"

	"depot/internal/domain"
	"depot/internal/models"
)

func TestMemoryStoreConditionalSave(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	snap, rev, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rev != 0 {
		t.Fatalf("fresh revision = %d, want 0", rev)
	}

	snap.Folders = append(snap.Folders, models.Folder{ID: "f1", Name: "a"})
	newRev, err := s.Save(ctx, snap, rev)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if newRev != 1 {
		t.Errorf("revision = %d, want 1", newRev)
	}

	// A second save against the old revision must conflict.
	_, err = s.Save(ctx, snap, rev)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale save: got %v, want conflict", err)
	}
}

func TestMemoryStoreReturnsClones(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	snap, rev, _ := s.Load(ctx)
	snap.Folders = append(snap.Folders, models.Folder{ID: "f1", Name: "a"})
	if _, err := s.Save(ctx, snap, rev); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, _, _ := s.Load(ctx)
	loaded.Folders[0].Name = "mutated"

	again, _, _ := s.Load(ctx)
	if again.Folders[0].Name != "a" {
		t.Errorf("caller mutation leaked into the store")
	}
}

func TestMemoryStoreFaultInjection(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.FailNextLoad = io.ErrUnexpectedEOF
	if _, _, err := s.Load(ctx); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("load fault: got %v, want unavailable", err)
	}
	// consumed: next load succeeds
	if _, _, err := s.Load(ctx); err != nil {
		t.Fatalf("load after fault: %v", err)
	}

	s.FailNextSave = io.ErrUnexpectedEOF
	if _, err := s.Save(ctx, models.NewSnapshot(), 0); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("save fault: got %v, want unavailable", err)
	}
}
