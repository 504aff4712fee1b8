package models

import (
	"time"
)

// File is a metadata record for an uploaded payload. Location is an opaque
// reference (relative path into a content root or an absolute URL); reading
// or deleting the bytes behind it is the caller's concern.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FolderID   string    `json:"folder_id"`
	Remark     string    `json:"remark,omitempty"`
	Location   string    `json:"location"`
	UploadedAt time.Time `json:"uploaded_at"`
	Order      int       `json:"order"` // dense 0..N-1 within the folder
}

// CreateFileRequest represents a file record creation request. The payload
// bytes must already be stored; Location points at them.
type CreateFileRequest struct {
	Name     string `json:"name"`
	FolderID string `json:"folder_id"`
	Remark   string `json:"remark,omitempty"`
	Location string `json:"location"`
}
