// Package probe classifies the observable state the reconciliation
// engine acts on: which of manifest and clone exist locally, and where
// the tracked branch exists after a fetch. Probes are computed fresh per
// invocation and never cached.
package probe

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlife/pkg/git"
	"github.com/arthur-debert/dotlife/pkg/logging"
	"github.com/arthur-debert/dotlife/pkg/paths"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// Existence inspects the filesystem for the manifest and the clone. It
// has no side effects; an inaccessible path counts as absent and is
// logged as a warning rather than failing the probe.
func Existence(fs types.FS, env *paths.Environment) types.ExistenceState {
	logger := logging.GetLogger("probe.existence")

	manifest := pathPresent(fs, env.ManifestPath, &logger)
	repo := pathPresent(fs, env.RepoDir, &logger)

	switch {
	case manifest && repo:
		return types.ExistenceBoth
	case manifest:
		return types.ExistenceManifestOnly
	case repo:
		return types.ExistenceRepoOnly
	default:
		return types.ExistenceNeither
	}
}

// Branch fetches remote refs and classifies where branch exists. Only
// the git calls themselves can fail; unparsable ref lines never do.
func Branch(ctx context.Context, client git.Client, branch string) (types.BranchState, error) {
	if err := client.Fetch(ctx); err != nil {
		return types.BranchNeither, err
	}

	localLines, err := client.LocalBranches(ctx)
	if err != nil {
		return types.BranchNeither, err
	}
	remoteLines, err := client.RemoteBranches(ctx)
	if err != nil {
		return types.BranchNeither, err
	}

	local := git.Contains(git.BranchNames(localLines), branch)
	remote := git.Contains(git.BranchNames(remoteLines), branch)
	return Classify(local, remote), nil
}

// Classify maps the two existence booleans to a BranchState
func Classify(existsLocally, existsRemotely bool) types.BranchState {
	switch {
	case existsLocally && existsRemotely:
		return types.BranchBoth
	case existsLocally:
		return types.BranchLocalOnly
	case existsRemotely:
		return types.BranchRemoteOnly
	default:
		return types.BranchNeither
	}
}

func pathPresent(fs types.FS, path string, logger *zerolog.Logger) bool {
	_, err := fs.Stat(path)
	if err == nil {
		return true
	}
	if !os.IsNotExist(err) {
		// permission or transient errors count as absent, not fatal
		logger.Warn().Err(err).Str("path", path).Msg("treating inaccessible path as absent")
	}
	return false
}
