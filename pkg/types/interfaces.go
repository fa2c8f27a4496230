package types

import "io/fs"

// FS abstracts filesystem operations for testability
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Prompter is the interactive decision capability. Implementations block
// until the operator answers; tests substitute scripted answers.
type Prompter interface {
	// Confirm asks a yes/no question
	Confirm(prompt string) (bool, error)

	// Choose asks the operator to pick one of a closed set of options
	Choose(prompt string, options []string) (string, error)
}
