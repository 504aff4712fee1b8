package models

// Snapshot is the complete set of folders and files, the unit of load/save
// against the persistence backend. There are no partial writes: every
// mutation replaces the whole snapshot.
type Snapshot struct {
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
}

// NewSnapshot returns an empty snapshot with non-nil slices so it marshals
// as {"folders":[],"files":[]} rather than nulls.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Folders: []Folder{},
		Files:   []File{},
	}
}

// Clone deep-copies the snapshot. Mutations operate on a clone so a failed
// save never leaves a half-applied snapshot behind for the retry.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Folders: make([]Folder, len(s.Folders)),
		Files:   make([]File, len(s.Files)),
	}
	copy(out.Folders, s.Folders)
	copy(out.Files, s.Files)
	for i := range out.Folders {
		if p := out.Folders[i].ParentID; p != nil {
			v := *p
			out.Folders[i].ParentID = &v
		}
	}
	return out
}

// FolderByID returns a pointer into s.Folders, or nil.
func (s *Snapshot) FolderByID(id string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}

// FileByID returns a pointer into s.Files, or nil.
func (s *Snapshot) FileByID(id string) *File {
	for i := range s.Files {
		if s.Files[i].ID == id {
			return &s.Files[i]
		}
	}
	return nil
}

// CountFolders returns the number of folders under the given parent.
func (s *Snapshot) CountFolders(parentID *string) int {
	n := 0
	for i := range s.Folders {
		if sameParent(s.Folders[i].ParentID, parentID) {
			n++
		}
	}
	return n
}

// CountFiles returns the number of files in the given folder.
func (s *Snapshot) CountFiles(folderID string) int {
	n := 0
	for i := range s.Files {
		if s.Files[i].FolderID == folderID {
			n++
		}
	}
	return n
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SameParent reports whether two parent references point at the same folder,
// treating nil as the root level.
func SameParent(a, b *string) bool {
	return sameParent(a, b)
}
