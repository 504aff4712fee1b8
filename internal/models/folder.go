package models

// Folder is a node in the folder forest. A nil ParentID marks a root-level
// folder; multiple roots are allowed.
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"` // nil = root level
	Order    int     `json:"order"`     // dense 0..N-1 among siblings
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // nil for root folders
}

// OrderUpdate assigns a new sibling position to one record.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}
