package engine

import (
	"context"
	"os"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/probe"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// RemoveResult reports the outcome of the remove workflow
type RemoveResult struct {
	// Path is the repository-relative path that was processed
	Path string

	// MissingInRepo is true when the path was already gone from the
	// working tree; the removal still proceeded for the manifest
	MissingInRepo bool

	// AlreadyRemoved is true when neither the manifest nor the working
	// tree knew the path and the run was a no-op
	AlreadyRemoved bool
}

// Remove stops tracking a path and deletes it from the repository
// working tree. A path already absent from the tree is a reported,
// recoverable condition, not a failure; the manifest update still
// happens. Remove applies the same sync-check precondition as Add.
func (e *Engine) Remove(ctx context.Context, rawPath string) (*RemoveResult, error) {
	if state := probe.Existence(e.fs, e.env); state != types.ExistenceBoth {
		return nil, errors.Newf(errors.ErrConfigValid,
			"layout is %s: nothing to remove from", state)
	}

	cfg, err := e.manifest()
	if err != nil {
		return nil, err
	}

	if err := e.git.Checkout(ctx, cfg.Branch); err != nil {
		return nil, err
	}
	if err := e.syncCheck(ctx, cfg.Branch); err != nil {
		return nil, err
	}

	rel, err := e.env.Resolve(rawPath)
	if err != nil {
		return nil, err
	}

	repoPath := e.env.RepoPath(rel)
	missing := false
	if _, err := e.fs.Lstat(repoPath); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", repoPath)
		}
		missing = true
	}

	if missing && !cfg.Contains(rel) {
		e.logger.Info().Str("path", rel).Msg("already removed")
		return &RemoveResult{Path: rel, AlreadyRemoved: true}, nil
	}

	if missing {
		e.logger.Warn().Str("path", rel).Msg("path already absent from repository, removing from manifest only")
	} else if err := e.fs.RemoveAll(repoPath); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot delete %s", repoPath)
	}

	updated := life.Remove(cfg, rel)
	if err := e.persistManifest(updated); err != nil {
		return nil, err
	}

	if err := e.commitAndPush(ctx, "Remove: "+rel); err != nil {
		return nil, err
	}

	return &RemoveResult{Path: rel, MissingInRepo: missing}, nil
}
