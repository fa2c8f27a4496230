// Package paths provides centralized path handling for dotlife.
//
// All path context (home directory, repository clone, manifest location)
// travels through an explicit Environment value; nothing in the codebase
// consults the process working directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// Environment binds every path the tool operates on. It is constructed
// once per invocation and passed explicitly to all components.
type Environment struct {
	// Home is the absolute home directory
	Home string

	// RepoDir is the absolute path of the repository clone under Home
	RepoDir string

	// ManifestPath is the absolute path of the home manifest file
	ManifestPath string

	// Owner and Repo identify the remote repository
	Owner types.Owner
	Repo  types.Repo
}

// NewEnvironment builds an Environment rooted at the given home directory.
// An empty home falls back to the HOME environment variable.
func NewEnvironment(home, repoDirName, manifestName string, owner types.Owner, repo types.Repo) (*Environment, error) {
	if home == "" {
		home = os.Getenv(EnvHome)
	}
	if home == "" {
		detected, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigValid, "cannot determine home directory")
		}
		home = detected
	}
	home = filepath.Clean(home)

	return &Environment{
		Home:         home,
		RepoDir:      filepath.Join(home, repoDirName),
		ManifestPath: filepath.Join(home, manifestName),
		Owner:        owner,
		Repo:         repo,
	}, nil
}

// RepoManifestPath is where the manifest copy lives inside the clone
func (e *Environment) RepoManifestPath() string {
	return filepath.Join(e.RepoDir, filepath.Base(e.ManifestPath))
}

// HomePath resolves a repository-relative tracked path under Home
func (e *Environment) HomePath(rel string) string {
	return filepath.Join(e.Home, rel)
}

// RepoPath resolves a repository-relative tracked path under RepoDir
func (e *Environment) RepoPath(rel string) string {
	return filepath.Join(e.RepoDir, rel)
}

// CloneURL builds the remote URL for the configured owner/repo
func (e *Environment) CloneURL(host string) string {
	return "https://" + host + "/" + string(e.Owner) + "/" + string(e.Repo) + ".git"
}

// Resolve turns a user-supplied path into its repository-relative form.
// Accepts absolute paths under Home, ~-prefixed paths, and already
// relative paths. Fails when the path escapes the home directory.
func (e *Environment) Resolve(raw string) (string, error) {
	if raw == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	path := raw
	if path == "~" {
		return "", errors.New(errors.ErrInvalidInput, "cannot track the home directory itself")
	}
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(e.Home, path[2:])
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.Home, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(e.Home, path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot relativize %q", raw)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidInput, "path %q is outside the home directory", raw)
	}
	return rel, nil
}

// Classify determines whether the repository-relative path names a file
// or a directory under Home. A missing path yields ErrNotFound.
func (e *Environment) Classify(fs types.FS, rel string) (types.PathKind, error) {
	info, err := fs.Stat(e.HomePath(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return types.PathFile, errors.Wrapf(err, errors.ErrNotFound, "path not found: %s", rel)
		}
		return types.PathFile, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", rel)
	}
	if info.IsDir() {
		return types.PathDirectory, nil
	}
	return types.PathFile, nil
}
