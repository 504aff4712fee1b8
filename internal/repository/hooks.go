package repository

import "os"

// Hooks used for testing (overridable)
var (
	readFile   = os.ReadFile
	writeFile  = os.WriteFile
	rename     = os.Rename
	remove     = os.Remove
	createTemp = os.CreateTemp
	mkdirAll   = os.MkdirAll
)
