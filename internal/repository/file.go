package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"depot/internal/domain"
	"depot/internal/models"
)

// fileDocument is the on-disk layout: the snapshot plus its revision, kept
// in one JSON document so revision and content can never disagree.
type fileDocument struct {
	Revision Revision        `json:"revision"`
	Folders  []models.Folder `json:"folders"`
	Files    []models.File   `json:"files"`
}

// FileStore keeps the snapshot in a single JSON file on local disk. Saves
// write to a temp file in the same directory and rename over the target, so
// a crash mid-save leaves the previous document intact.
//
// The revision check in Save is guarded by a process-level mutex; the file
// backend assumes a single writing process (matching its deployment mode).
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore creates a file-backed snapshot store at path. The file is
// created lazily on first Load.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the snapshot document. An absent file is initialized with an
// empty snapshot at revision 0 and that snapshot is returned.
func (s *FileStore) Load(ctx context.Context) (*models.Snapshot, Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.write(&fileDocument{Revision: 0, Folders: []models.Folder{}, Files: []models.File{}}); err != nil {
				return nil, 0, &domain.UnavailableError{Op: "load", Err: err}
			}
			s.logger.Debug("initialized empty snapshot file", "path", s.path)
			return models.NewSnapshot(), 0, nil
		}
		return nil, 0, &domain.UnavailableError{Op: "load", Err: err}
	}

	return &models.Snapshot{Folders: doc.Folders, Files: doc.Files}, doc.Revision, nil
}

// Save writes the snapshot if the on-disk revision still equals rev.
func (s *FileStore) Save(ctx context.Context, snap *models.Snapshot, rev Revision) (Revision, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := Revision(0)
	doc, err := s.read()
	switch {
	case err == nil:
		current = doc.Revision
	case errors.Is(err, fs.ErrNotExist):
		// first save against an uninitialized file
	default:
		return 0, &domain.UnavailableError{Op: "save", Err: err}
	}

	if current != rev {
		return 0, fmt.Errorf("snapshot file at revision %d, expected %d: %w", current, rev, domain.ErrConflict)
	}

	next := rev + 1
	out := &fileDocument{Revision: next, Folders: snap.Folders, Files: snap.Files}
	if out.Folders == nil {
		out.Folders = []models.Folder{}
	}
	if out.Files == nil {
		out.Files = []models.File{}
	}
	if err := s.write(out); err != nil {
		return 0, &domain.UnavailableError{Op: "save", Err: err}
	}
	return next, nil
}

func (s *FileStore) read() (*fileDocument, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &doc, nil
}

// write marshals the document to a temp file and renames it into place.
func (s *FileStore) write(doc *fileDocument) error {
	if err := mkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := createTemp(filepath.Dir(s.path), ".snapshot-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		_ = remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = remove(tmpName)
		return err
	}

	if err := rename(tmpName, s.path); err != nil {
		_ = remove(tmpName)
		return err
	}
	return nil
}

var _ SnapshotStore = (*FileStore)(nil)
