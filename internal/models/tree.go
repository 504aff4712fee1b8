package models

// FolderNode is a folder with its children resolved, for nested tree views.
type FolderNode struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Order   int           `json:"order"`
	Folders []*FolderNode `json:"folders"`
	Files   []File        `json:"files"`
}

// Tree is the nested view of the whole snapshot, roots first.
type Tree struct {
	Folders []*FolderNode `json:"folders"`
}
