package engine

import (
	"path/filepath"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/paths"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// Direction selects the source/destination pairing for a bulk copy
type Direction int

const (
	// HomeToRepo copies tracked content from the home directory into
	// the repository working tree
	HomeToRepo Direction = iota

	// RepoToHome copies tracked content from the repository working
	// tree over the home directory
	RepoToHome
)

// Copy performs a directional bulk copy of every tracked path in cfg.
// It is a pure executor: the engine decides which paths to copy (and
// which to exclude), Copy just moves bytes and creates missing parents.
func Copy(fs types.FS, env *paths.Environment, cfg *life.Config, direction Direction) error {
	for _, rel := range cfg.Files {
		src, dst := endpoints(env, rel, direction)
		if err := copyFile(fs, src, dst); err != nil {
			return err
		}
	}
	for _, rel := range cfg.Directories {
		src, dst := endpoints(env, rel, direction)
		if err := copyDir(fs, src, dst); err != nil {
			return err
		}
	}
	return nil
}

func endpoints(env *paths.Environment, rel string, direction Direction) (string, string) {
	if direction == HomeToRepo {
		return env.HomePath(rel), env.RepoPath(rel)
	}
	return env.RepoPath(rel), env.HomePath(rel)
}

func copyFile(fs types.FS, src, dst string) error {
	data, err := fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}

	info, err := fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src)
	}

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent of %s", dst)
	}
	if err := fs.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dst)
	}
	return nil
}

func copyDir(fs types.FS, src, dst string) error {
	entries, err := fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", src)
	}

	if err := fs.MkdirAll(dst, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dst)
	}

	for _, entry := range entries {
		srcChild := filepath.Join(src, entry.Name())
		dstChild := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(fs, srcChild, dstChild); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(fs, srcChild, dstChild); err != nil {
			return err
		}
	}
	return nil
}
