// Package engine implements the reconciliation state machine. Given the
// existence and branch probes it selects and sequences one of the named
// workflows (init, add, remove, pull, push), reading and writing the
// manifest only through pkg/life and driving the copy orchestrator.
//
// Every workflow is idempotent: re-running a command after a successful
// run is a no-op beyond reporting "already up to date". Within a
// workflow the manifest is always persisted before the corresponding
// content commit, so a crash between the two leaves the manifest ahead
// of the repository rather than behind it.
//
// Execution is single-threaded and sequential per invocation. The
// manifest and working tree are not locked: two dotlife processes
// running at once are not guaranteed safe.
package engine

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/git"
	"github.com/arthur-debert/dotlife/pkg/github"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/logging"
	"github.com/arthur-debert/dotlife/pkg/paths"
	"github.com/arthur-debert/dotlife/pkg/probe"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// Options holds the collaborators an Engine is built from. Everything is
// injected; the engine owns no process-global state.
type Options struct {
	FS       types.FS
	Env      *paths.Environment
	Git      git.Client
	Host     github.RemoteHost
	Prompter types.Prompter

	// RemoteHostName is the git hosting domain for clone URLs
	RemoteHostName string

	// DefaultBranch is used when no manifest dictates a branch yet
	DefaultBranch string
}

// Engine sequences the synchronization workflows
type Engine struct {
	fs         types.FS
	env        *paths.Environment
	git        git.Client
	host       github.RemoteHost
	prompter   types.Prompter
	remoteHost string
	branch     string
	logger     zerolog.Logger
}

// New creates an engine from the given collaborators
func New(opts Options) *Engine {
	return &Engine{
		fs:         opts.FS,
		env:        opts.Env,
		git:        opts.Git,
		host:       opts.Host,
		prompter:   opts.Prompter,
		remoteHost: opts.RemoteHostName,
		branch:     opts.DefaultBranch,
		logger:     logging.GetLogger("engine"),
	}
}

// manifest loads the home manifest
func (e *Engine) manifest() (*life.Config, error) {
	return life.Parse(e.fs, e.env.ManifestPath)
}

// repoManifest loads the manifest copy inside the clone
func (e *Engine) repoManifest() (*life.Config, error) {
	return life.Parse(e.fs, e.env.RepoManifestPath())
}

// persistManifest writes cfg to the home manifest and mirrors it into
// the clone. The home write happens first; the mirror is what gets
// committed.
func (e *Engine) persistManifest(cfg *life.Config) error {
	if err := life.Persist(e.fs, cfg, e.env.ManifestPath); err != nil {
		return err
	}
	return life.Persist(e.fs, cfg, e.env.RepoManifestPath())
}

// cloneURL builds the remote URL, requiring a configured owner
func (e *Engine) cloneURL() (string, error) {
	if e.env.Owner == "" {
		return "", errors.New(errors.ErrConfigValid,
			"remote owner not configured (pass it on the command line or set remote.owner)")
	}
	return e.env.CloneURL(e.remoteHost), nil
}

// contentEqual compares home and repository copies of a tracked path.
// Files compare byte for byte. Directory comparison is deliberately not
// implemented: directories always count as different and force a copy.
// This is a documented conservative policy, not an oversight.
func (e *Engine) contentEqual(rel string, kind types.PathKind) bool {
	if kind == types.PathDirectory {
		return false
	}

	homeData, err := e.fs.ReadFile(e.env.HomePath(rel))
	if err != nil {
		return false
	}
	repoData, err := e.fs.ReadFile(e.env.RepoPath(rel))
	if err != nil {
		return false
	}
	return bytes.Equal(homeData, repoData)
}

// ensureBranch drives the clone onto the tracked branch, handling the
// asymmetric recoverable states: a branch that only exists remotely
// needs a local checkout, one that only exists locally needs an
// upstream push. A branch that exists nowhere is a fatal configuration
// error.
func (e *Engine) ensureBranch(ctx context.Context, branch string) error {
	state, err := probe.Branch(ctx, e.git, branch)
	if err != nil {
		return err
	}
	e.logger.Debug().Str("branch", branch).Stringer("state", state).Msg("branch state probed")

	switch state {
	case types.BranchNeither:
		return errors.Newf(errors.ErrBranchMissing,
			"branch %q exists neither locally nor on the remote", branch)
	case types.BranchRemoteOnly:
		// checkout creates the local tracking branch
		return e.git.Checkout(ctx, branch)
	case types.BranchLocalOnly:
		if err := e.git.Checkout(ctx, branch); err != nil {
			return err
		}
		return e.git.PushUpstream(ctx, branch)
	default:
		return e.git.Checkout(ctx, branch)
	}
}

// syncCheck verifies the checked-out branch matches origin. On
// divergence the operator is offered a recovery (push for a local-only
// branch, rebase otherwise); refusal aborts the outer command.
func (e *Engine) syncCheck(ctx context.Context, branch string) error {
	state, err := probe.Branch(ctx, e.git, branch)
	if err != nil {
		return err
	}

	switch state {
	case types.BranchBoth:
		localHash, err := e.git.RevParse(ctx, branch)
		if err != nil {
			return err
		}
		remoteHash, err := e.git.RevParse(ctx, "origin/"+branch)
		if err != nil {
			return err
		}
		if localHash == remoteHash {
			return nil
		}

		ok, err := e.prompter.Confirm("Local and remote have diverged. Rebase onto origin/" + branch + "?")
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrAborted, "operator declined rebase")
		}
		return e.git.Rebase(ctx, "origin/"+branch)

	case types.BranchLocalOnly:
		ok, err := e.prompter.Confirm("Branch " + branch + " has no upstream. Push it to origin?")
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrAborted, "operator declined upstream push")
		}
		return e.git.PushUpstream(ctx, branch)

	default:
		// the caller checked the branch out, so it must exist locally
		return errors.Newf(errors.ErrInternal,
			"unexpected branch state %s during sync check", state)
	}
}

// commitAndPush stages everything, commits with message and pushes
func (e *Engine) commitAndPush(ctx context.Context, message string) error {
	if err := e.git.AddAll(ctx); err != nil {
		return err
	}
	if err := e.git.Commit(ctx, message); err != nil {
		return err
	}
	return e.git.Push(ctx)
}
