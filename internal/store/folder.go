package store

import (
	"context"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"depot/internal/config"
	"depot/internal/domain"
	"depot/internal/models"
)

// ListFolders returns the folders under parentID (nil = root level) sorted
// ascending by order. The sort is stable so records with colliding orders,
// which a permissive reorder batch can produce, still list deterministically.
func (s *TreeStore) ListFolders(ctx context.Context, parentID *string) ([]models.Folder, error) {
	snap, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	folders := []models.Folder{}
	for _, f := range snap.Folders {
		if models.SameParent(f.ParentID, parentID) {
			folders = append(folders, f)
		}
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Order < folders[j].Order
	})
	return folders, nil
}

// CreateFolder appends a folder at the end of its sibling group: the new
// order is the current sibling count, keeping the dense 0..N-1 sequence.
func (s *TreeStore) CreateFolder(ctx context.Context, req *models.CreateFolderRequest) (*models.Folder, error) {
	if err := validateCreateFolder(req); err != nil {
		return nil, err
	}

	var created models.Folder
	err := s.update(ctx, "create folder", func(snap *models.Snapshot) error {
		created = models.Folder{
			ID:       uuid.NewString(),
			Name:     req.Name,
			ParentID: req.ParentID,
			Order:    snap.CountFolders(req.ParentID),
		}
		snap.Folders = append(snap.Folders, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("folder created", "folder_id", created.ID, "name", created.Name)
	return &created, nil
}

// DeleteFolder removes the folder, every folder transitively contained in
// it, and every file whose folder is in that set. Deleting a missing id is
// a no-op success; retries after an ambiguous failure stay harmless.
//
// Payload bytes behind the removed file records are the caller's cleanup
// debt; the metadata is authoritative for what remains visible.
func (s *TreeStore) DeleteFolder(ctx context.Context, id string) error {
	return s.update(ctx, "delete folder", func(snap *models.Snapshot) error {
		if snap.FolderByID(id) == nil {
			return errNoChange
		}

		doomed := collectSubtree(snap, id)

		folders := snap.Folders[:0]
		for _, f := range snap.Folders {
			if !doomed[f.ID] {
				folders = append(folders, f)
			}
		}
		snap.Folders = folders

		files := snap.Files[:0]
		for _, f := range snap.Files {
			if !doomed[f.FolderID] {
				files = append(files, f)
			}
		}
		snap.Files = files

		normalize(snap)
		s.logger.Debug("folder subtree deleted", "folder_id", id, "folders_removed", len(doomed))
		return nil
	})
}

// ReorderFolders applies a batch of (id, order) assignments. Unknown ids
// are skipped per item rather than failing the batch, so a reorder racing a
// delete degrades to a partial no-op instead of an error. Density of the
// resulting orders is not enforced here; listings sort stably and the next
// delete re-packs.
func (s *TreeStore) ReorderFolders(ctx context.Context, items []models.OrderUpdate) error {
	if err := validateOrderUpdates(items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	return s.update(ctx, "reorder folders", func(snap *models.Snapshot) error {
		changed := false
		for _, item := range items {
			if f := snap.FolderByID(item.ID); f != nil {
				f.Order = item.Order
				changed = true
			}
		}
		if !changed {
			return errNoChange
		}
		return nil
	})
}

// collectSubtree gathers the ids reachable from rootID over the
// parent→child relation. Traversal is an explicit BFS bounded by the
// visited set, so cyclic or dangling parent references in a corrupted
// snapshot terminate instead of hanging.
func collectSubtree(snap *models.Snapshot, rootID string) map[string]bool {
	doomed := map[string]bool{rootID: true}
	queue := []string{rootID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for i := range snap.Folders {
			f := &snap.Folders[i]
			if f.ParentID != nil && *f.ParentID == current && !doomed[f.ID] {
				doomed[f.ID] = true
				queue = append(queue, f.ID)
			}
		}
	}
	return doomed
}

// normalize re-packs every sibling group to a dense 0..N-1 order sequence,
// keeping the existing relative order. Runs after deletes; also heals gaps
// or duplicates left behind by permissive reorder batches.
func normalize(snap *models.Snapshot) {
	sort.SliceStable(snap.Folders, func(i, j int) bool {
		return snap.Folders[i].Order < snap.Folders[j].Order
	})
	folderPos := make(map[string]int)
	for i := range snap.Folders {
		key := ""
		if p := snap.Folders[i].ParentID; p != nil {
			key = *p
		}
		snap.Folders[i].Order = folderPos[key]
		folderPos[key]++
	}

	sort.SliceStable(snap.Files, func(i, j int) bool {
		return snap.Files[i].Order < snap.Files[j].Order
	})
	filePos := make(map[string]int)
	for i := range snap.Files {
		snap.Files[i].Order = filePos[snap.Files[i].FolderID]
		filePos[snap.Files[i].FolderID]++
	}
}

func validateCreateFolder(req *models.CreateFolderRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateOrderUpdates(items []models.OrderUpdate) error {
	for i := range items {
		item := &items[i]
		err := validation.ValidateStruct(item,
			validation.Field(&item.ID, validation.Required),
			validation.Field(&item.Order, validation.Min(0)),
		)
		if err != nil {
			return fmt.Errorf("%w: item %d: %v", domain.ErrValidation, i, err)
		}
	}
	return nil
}
