package engine

import (
	"context"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/probe"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// PushResult reports the outcome of the push workflow
type PushResult struct {
	// UpToDate is true when no tracked content had changed and nothing
	// was committed
	UpToDate bool

	// Branch is the branch that was pushed
	Branch string
}

// Push copies every tracked path from home into the repository and
// publishes the result. It shares the sync-check precondition with Add,
// so a diverged clone is reconciled (or the command aborted) first.
func (e *Engine) Push(ctx context.Context) (*PushResult, error) {
	if state := probe.Existence(e.fs, e.env); state != types.ExistenceBoth {
		return nil, errors.Newf(errors.ErrConfigValid,
			"layout is %s: nothing to push", state)
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

	// manifest first, then content
	if err := e.persistManifest(cfg); err != nil {
		return nil, err
	}
	if err := Copy(e.fs, e.env, cfg, HomeToRepo); err != nil {
		return nil, err
	}

	dirty, err := e.git.Dirty(ctx)
	if err != nil {
		return nil, err
	}
	if !dirty {
		e.logger.Info().Msg("already up to date")
		return &PushResult{UpToDate: true, Branch: cfg.Branch}, nil
	}

	if err := e.commitAndPush(ctx, "Sync: push tracked files"); err != nil {
		return nil, err
	}

	return &PushResult{Branch: cfg.Branch}, nil
}
