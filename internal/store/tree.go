package store

import (
	"context"
	"sort"

	"depot/internal/models"
)

// Tree builds the nested folder/file hierarchy from one snapshot load.
// Folders whose parent is missing from the snapshot (dangling references
// after a partial failure) are simply left out of the tree, matching the
// listing behavior.
func (s *TreeStore) Tree(ctx context.Context) (*models.Tree, error) {
	snap, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// First pass: create all folder nodes
	nodeMap := make(map[string]*models.FolderNode, len(snap.Folders))
	for _, f := range snap.Folders {
		nodeMap[f.ID] = &models.FolderNode{
			ID:      f.ID,
			Name:    f.Name,
			Order:   f.Order,
			Folders: []*models.FolderNode{},
			Files:   []models.File{},
		}
	}

	// Second pass: nest folders under their parents
	roots := []*models.FolderNode{}
	for _, f := range snap.Folders {
		node := nodeMap[f.ID]
		if f.ParentID == nil {
			roots = append(roots, node)
		} else if parent, ok := nodeMap[*f.ParentID]; ok {
			parent.Folders = append(parent.Folders, node)
		}
	}

	// Third pass: attach files to their folders
	for _, f := range snap.Files {
		if parent, ok := nodeMap[f.FolderID]; ok {
			parent.Files = append(parent.Files, f)
		}
	}

	sortNodes(roots)
	for _, node := range nodeMap {
		sortNodes(node.Folders)
		sort.SliceStable(node.Files, func(i, j int) bool {
			return node.Files[i].Order < node.Files[j].Order
		})
	}

	return &models.Tree{Folders: roots}, nil
}

func sortNodes(nodes []*models.FolderNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
}
