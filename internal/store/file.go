package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"depot/internal/config"
	"depot/internal/domain"
	"depot/internal/models"
)

// ListFiles returns the files in folderID sorted ascending by order.
func (s *TreeStore) ListFiles(ctx context.Context, folderID string) ([]models.File, error) {
	if folderID == "" {
		return nil, &domain.ValidationError{Message: "folder id is required"}
	}

	snap, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	files := []models.File{}
	for _, f := range snap.Files {
		if f.FolderID == folderID {
			files = append(files, f)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Order < files[j].Order
	})
	return files, nil
}

// CreateFile appends a file record to its folder. The payload bytes must
// already exist wherever Location points; this only records the metadata.
func (s *TreeStore) CreateFile(ctx context.Context, req *models.CreateFileRequest) (*models.File, error) {
	if err := validateCreateFile(req); err != nil {
		return nil, err
	}

	var created models.File
	err := s.update(ctx, "create file", func(snap *models.Snapshot) error {
		created = models.File{
			ID:         uuid.NewString(),
			Name:       req.Name,
			FolderID:   req.FolderID,
			Remark:     req.Remark,
			Location:   req.Location,
			UploadedAt: time.Now().UTC(),
			Order:      snap.CountFiles(req.FolderID),
		}
		snap.Files = append(snap.Files, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("file created", "file_id", created.ID, "folder_id", created.FolderID)
	return &created, nil
}

// DeleteFile removes one file record and re-packs its folder's order
// sequence. Deleting a missing id is a no-op success.
func (s *TreeStore) DeleteFile(ctx context.Context, id string) error {
	return s.update(ctx, "delete file", func(snap *models.Snapshot) error {
		if snap.FileByID(id) == nil {
			return errNoChange
		}

		files := snap.Files[:0]
		for _, f := range snap.Files {
			if f.ID != id {
				files = append(files, f)
			}
		}
		snap.Files = files

		normalize(snap)
		return nil
	})
}

// ReorderFiles applies a batch of (id, order) assignments to file records.
// Same per-item skip semantics as ReorderFolders.
func (s *TreeStore) ReorderFiles(ctx context.Context, items []models.OrderUpdate) error {
	if err := validateOrderUpdates(items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	return s.update(ctx, "reorder files", func(snap *models.Snapshot) error {
		changed := false
		for _, item := range items {
			if f := snap.FileByID(item.ID); f != nil {
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

func validateCreateFile(req *models.CreateFileRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
		),
		validation.Field(&req.FolderID, validation.Required),
		validation.Field(&req.Location,
			validation.Required,
			validation.Length(1, config.MaxLocationLength),
		),
		validation.Field(&req.Remark, validation.Length(0, config.MaxRemarkLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
