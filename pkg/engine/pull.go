package engine

import (
	"context"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/probe"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// Choices offered when pulling on a machine with no local state. The
// set is closed: any other answer from the prompter is a defect.
const (
	ChoiceFetch = "fetch the existing configuration"
	ChoiceInit  = "initialize from scratch"
	ChoiceAbort = "abort"
)

// PullResult reports the outcome of the pull workflow
type PullResult struct {
	// Initialized is true when the operator chose to init from scratch
	Initialized bool

	// Branch is the branch that was synchronized
	Branch string

	// CopiedFiles and CopiedDirectories count what was copied home
	CopiedFiles       int
	CopiedDirectories int

	// ExcludedPaths counts tracked paths withheld from the copy
	ExcludedPaths int
}

// Pull refreshes the home directory from the remote repository. The
// exclude configuration withholds its paths from the repo-to-home copy
// so content the operator is mid-editing is never clobbered; pass an
// empty configuration to copy everything tracked.
func (e *Engine) Pull(ctx context.Context, exclude *life.Config) (*PullResult, error) {
	state := probe.Existence(e.fs, e.env)
	e.logger.Info().Stringer("existence", state).Msg("pull requested")

	switch state {
	case types.ExistenceBoth:
		cfg, err := e.manifest()
		if err != nil {
			return nil, err
		}
		return e.finishPull(ctx, cfg.Branch, exclude)

	case types.ExistenceManifestOnly:
		e.logger.Warn().Msg("repository clone missing, recreating it from the remote")
		cfg, err := e.manifest()
		if err != nil {
			return nil, err
		}
		url, err := e.cloneURL()
		if err != nil {
			return nil, err
		}
		if err := e.git.Clone(ctx, url); err != nil {
			return nil, err
		}
		return e.finishPull(ctx, cfg.Branch, exclude)

	case types.ExistenceRepoOnly:
		e.logger.Warn().Msg("home manifest missing, restoring it from the repository")
		return e.finishPull(ctx, e.branch, exclude)

	default: // ExistenceNeither
		return e.pullFromScratch(ctx, exclude)
	}
}

// pullFromScratch handles the fresh-machine case interactively
func (e *Engine) pullFromScratch(ctx context.Context, exclude *life.Config) (*PullResult, error) {
	choice, err := e.prompter.Choose(
		"Nothing is set up on this machine yet. What should happen?",
		[]string{ChoiceFetch, ChoiceInit, ChoiceAbort},
	)
	if err != nil {
		return nil, err
	}

	switch choice {
	case ChoiceFetch:
		url, err := e.cloneURL()
		if err != nil {
			return nil, err
		}
		if err := e.git.Clone(ctx, url); err != nil {
			return nil, err
		}
		repoCfg, err := e.repoManifest()
		if err != nil {
			return nil, err
		}
		return e.finishPull(ctx, repoCfg.Branch, exclude)

	case ChoiceInit:
		if _, err := e.Init(ctx); err != nil {
			return nil, err
		}
		return &PullResult{Initialized: true, Branch: e.branch}, nil

	case ChoiceAbort:
		return nil, errors.New(errors.ErrAborted, "operator aborted pull")

	default:
		// the choice set is closed; anything else is a defect
		return nil, errors.Newf(errors.ErrInternal, "impossible choice %q", choice)
	}
}

// finishPull drives the clone onto branch, rebase-pulls it and copies
// the tracked content home, honoring the exclusion set. The repository
// manifest is authoritative after the pull and overwrites the home one.
func (e *Engine) finishPull(ctx context.Context, branch string, exclude *life.Config) (*PullResult, error) {
	if err := e.ensureBranch(ctx, branch); err != nil {
		return nil, err
	}
	if err := e.git.PullRebase(ctx); err != nil {
		return nil, err
	}

	repoCfg, err := e.repoManifest()
	if err != nil {
		return nil, err
	}

	// manifest lands before content so an interruption leaves the
	// manifest ahead, never behind
	if err := life.Persist(e.fs, repoCfg, e.env.ManifestPath); err != nil {
		return nil, err
	}

	toCopy := life.Subtract(repoCfg, exclude)
	if err := Copy(e.fs, e.env, toCopy, RepoToHome); err != nil {
		return nil, err
	}

	excluded := len(repoCfg.Files) + len(repoCfg.Directories) -
		len(toCopy.Files) - len(toCopy.Directories)

	e.logger.Info().
		Str("branch", repoCfg.Branch).
		Int("files", len(toCopy.Files)).
		Int("directories", len(toCopy.Directories)).
		Int("excluded", excluded).
		Msg("pull complete")

	return &PullResult{
		Branch:            repoCfg.Branch,
		CopiedFiles:       len(toCopy.Files),
		CopiedDirectories: len(toCopy.Directories),
		ExcludedPaths:     excluded,
	}, nil
}
