package engine

import (
	"context"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/probe"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// AddResult reports the outcome of the add workflow
type AddResult struct {
	// Path is the repository-relative path that was processed
	Path string

	// Kind is how the path was classified
	Kind types.PathKind

	// AlreadyLatest is true when home and repository content matched
	// and nothing was written or committed
	AlreadyLatest bool
}

// Add registers a home path for tracking and synchronizes its content
// into the repository. Adding an unchanged, already tracked file is a
// true no-op: no manifest write, no commit.
func (e *Engine) Add(ctx context.Context, rawPath string) (*AddResult, error) {
	if state := probe.Existence(e.fs, e.env); state != types.ExistenceBoth {
		return nil, errors.Newf(errors.ErrConfigValid,
			"layout is %s: run init (or pull) before adding paths", state)
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
	kind, err := e.env.Classify(e.fs, rel)
	if err != nil {
		return nil, err
	}

	e.logger.Info().Str("path", rel).Stringer("kind", kind).Msg("adding path")

	if e.contentEqual(rel, kind) {
		e.logger.Info().Str("path", rel).Msg("already latest")
		return &AddResult{Path: rel, Kind: kind, AlreadyLatest: true}, nil
	}

	// manifest first, then content, then commit
	updated := life.Insert(cfg, rel, kind)
	if err := e.persistManifest(updated); err != nil {
		return nil, err
	}

	single := life.Insert(life.New(updated.Branch), rel, kind)
	if err := Copy(e.fs, e.env, single, HomeToRepo); err != nil {
		return nil, err
	}

	if err := e.commitAndPush(ctx, "Add: "+rel); err != nil {
		return nil, err
	}

	return &AddResult{Path: rel, Kind: kind}, nil
}
