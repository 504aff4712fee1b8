package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Names should stay short and descriptive; there is no uniqueness
	// constraint, only a length cap.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names. Matches
	// folder names for consistency.
	MaxFileNameLength = 255

	// MaxRemarkLength is the maximum length for free-text file remarks.
	MaxRemarkLength = 1000

	// MaxLocationLength caps the opaque payload reference. Locations are
	// either relative paths into a content root or absolute URLs.
	MaxLocationLength = 2048
)
