package engine

import (
	"context"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/probe"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// InitResult reports the outcome of the init workflow
type InitResult struct {
	// AlreadyInitialized is true when a previous init completed and
	// this run was a no-op
	AlreadyInitialized bool

	// Branch is the tracked branch of the new configuration
	Branch string
}

// Init bootstraps a fresh machine: creates the remote repository,
// initializes the local clone, writes an initial manifest and performs
// the first commit and push. It only runs when nothing exists yet; any
// step failure aborts the whole workflow with the failure reported, so
// a half-created remote is never left silently behind.
func (e *Engine) Init(ctx context.Context) (*InitResult, error) {
	state := probe.Existence(e.fs, e.env)
	e.logger.Info().Stringer("existence", state).Msg("init requested")

	switch state {
	case types.ExistenceBoth:
		return &InitResult{AlreadyInitialized: true, Branch: e.branch}, nil
	case types.ExistenceNeither:
		// proceed
	default:
		return nil, errors.Newf(errors.ErrConfigValid,
			"partial layout (%s): refusing to init, run pull to recover", state)
	}

	url, err := e.cloneURL()
	if err != nil {
		return nil, err
	}
	if err := e.host.CreateRepository(ctx, e.env.Owner, e.env.Repo); err != nil {
		return nil, err
	}

	if err := e.fs.MkdirAll(e.env.RepoDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", e.env.RepoDir)
	}
	if err := e.git.Init(ctx); err != nil {
		return nil, err
	}
	if err := e.git.AddRemote(ctx, url); err != nil {
		return nil, err
	}
	if err := e.git.CheckoutNew(ctx, e.branch); err != nil {
		return nil, err
	}

	// manifest is persisted before the first commit
	cfg := life.New(e.branch)
	if err := e.persistManifest(cfg); err != nil {
		return nil, err
	}

	if err := e.git.AddAll(ctx); err != nil {
		return nil, err
	}
	if err := e.git.Commit(ctx, "Initial commit"); err != nil {
		return nil, err
	}
	if err := e.git.PushUpstream(ctx, e.branch); err != nil {
		return nil, err
	}

	e.logger.Info().Str("branch", e.branch).Msg("configuration repository initialized")
	return &InitResult{Branch: e.branch}, nil
}
