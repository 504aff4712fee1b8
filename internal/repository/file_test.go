package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"depot/internal/domain"
	"depot/internal/models"
)

func testSnapshot() *models.Snapshot {
	parent := "f1"
	snap := models.NewSnapshot()
	snap.Folders = []models.Folder{
		{ID: "f1", Name: "docs", ParentID: nil, Order: 0},
		{ID: "f2", Name: "sub", ParentID: &parent, Order: 0},
	}
	snap.Files = []models.File{
		{ID: "d1", Name: "a.pdf", FolderID: "f1", Location: "/uploads/a.pdf", Order: 0},
	}
	return snap
}

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	return NewFileStore(path, nil), path
}

func TestFileStoreInitializesAbsentFile(t *testing.T) {
	s, path := newFileStore(t)

	snap, rev, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rev != 0 {
		t.Errorf("fresh store revision = %d, want 0", rev)
	}
	if len(snap.Folders) != 0 || len(snap.Files) != 0 {
		t.Errorf("fresh store not empty: %+v", snap)
	}

	// ensureDataFile behavior: the empty document now exists on disk.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file not initialized: %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	want := testSnapshot()
	rev, err := s.Save(ctx, want, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rev != 1 {
		t.Errorf("revision after first save = %d, want 1", rev)
	}

	got, gotRev, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotRev != rev {
		t.Errorf("loaded revision = %d, want %d", gotRev, rev)
	}
	if !reflect.DeepEqual(got.Folders, want.Folders) {
		t.Errorf("folders round-trip mismatch:\n got %+v\nwant %+v", got.Folders, want.Folders)
	}
	if !reflect.DeepEqual(got.Files, want.Files) {
		t.Errorf("files round-trip mismatch:\n got %+v\nwant %+v", got.Files, want.Files)
	}

	// Saving an unmodified load is a no-op on content.
	rev2, err := s.Save(ctx, got, gotRev)
	if err != nil {
		t.Fatalf("save unmodified: %v", err)
	}
	again, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(again.Folders, got.Folders) || !reflect.DeepEqual(again.Files, got.Files) {
		t.Errorf("save(load()) changed the snapshot")
	}
	if rev2 != gotRev+1 {
		t.Errorf("revision after second save = %d, want %d", rev2, gotRev+1)
	}
}

func TestFileStoreStaleRevisionConflicts(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, testSnapshot(), 0); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Second writer still holding revision 0.
	_, err := s.Save(ctx, models.NewSnapshot(), 0)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale save: got %v, want conflict", err)
	}

	snap, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Folders) == 0 {
		t.Errorf("stale save clobbered the first writer's data")
	}
}

func TestFileStoreRenameFailureKeepsOldContent(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, testSnapshot(), 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	orig := rename
	rename = func(oldpath, newpath string) error {
		return errors.New("injected rename failure")
	}
	defer func() { rename = orig }()

	_, err := s.Save(ctx, models.NewSnapshot(), 1)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("got %v, want unavailable error", err)
	}

	rename = orig
	snap, rev, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load after failed save: %v", err)
	}
	if rev != 1 {
		t.Errorf("revision advanced past failed save: %d", rev)
	}
	if len(snap.Folders) != 2 {
		t.Errorf("previous content lost after failed save: %+v", snap)
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	s, path := newFileStore(t)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := s.Load(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("got %v, want unavailable error", err)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	s, path := newFileStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, testSnapshot(), 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(path) {
			t.Errorf("stray file left behind: %s", e.Name())
		}
	}
}
