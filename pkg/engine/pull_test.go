package engine_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/dotlife/pkg/engine"
	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/testutil"
	"github.com/arthur-debert/dotlife/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullBothPresentCopiesTrackedContent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	setupSynced(t, env, cfg)
	env.WriteRepoFile(".bashrc", "repo version")
	env.WriteHomeFile(".bashrc", "stale home version")

	result, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.NoError(t, err)
	assert.Equal(t, "master", result.Branch)
	assert.Equal(t, 1, result.CopiedFiles)
	assert.Zero(t, result.ExcludedPaths)

	assert.Equal(t, "repo version", env.ReadFile(env.Env.HomePath(".bashrc")))
	assert.Equal(t, []string{"pull-rebase"}, env.Git.CallsNamed("pull-rebase"))
}

func TestPullExclusionProtectsLocalEdits(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.Insert(life.New("master"), ".bashrc", types.PathFile), ".vimrc", types.PathFile)
	setupSynced(t, env, cfg)
	env.WriteRepoFile(".bashrc", "repo bashrc")
	env.WriteRepoFile(".vimrc", "repo vimrc")
	env.WriteHomeFile(".bashrc", "my in-progress edits")
	env.WriteHomeFile(".vimrc", "stale vimrc")

	exclude := life.Insert(life.New("master"), ".bashrc", types.PathFile)

	result, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), exclude)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CopiedFiles)
	assert.Equal(t, 1, result.ExcludedPaths)

	// the excluded path keeps the local edits, the rest follows the repo
	assert.Equal(t, "my in-progress edits", env.ReadFile(env.Env.HomePath(".bashrc")))
	assert.Equal(t, "repo vimrc", env.ReadFile(env.Env.HomePath(".vimrc")))
}

func TestPullBranchMissingEverywhereIsFatal(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.Git.Local = nil
	env.Git.Remote = nil

	_, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBranchMissing))
}

func TestPullRemoteOnlyBranchCreatesLocal(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.Git.Local = nil // branch only on the remote

	_, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.NoError(t, err)
	assert.Equal(t, []string{"checkout master"}, env.Git.CallsNamed("checkout"))
}

func TestPullLocalOnlyBranchPushesUpstream(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.Git.Remote = nil // branch never pushed

	_, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.NoError(t, err)
	assert.Equal(t, []string{"push-upstream master"}, env.Git.CallsNamed("push-upstream"))
}

func TestPullManifestOnlyRecreatesClone(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	require.NoError(t, life.Persist(env.FS, cfg, env.Env.ManifestPath))
	env.Git.Local = []string{"master"}
	env.Git.Remote = []string{"origin/master"}
	env.Git.OnClone = func() error {
		if err := life.Persist(env.FS, cfg, env.Env.RepoManifestPath()); err != nil {
			return err
		}
		return env.FS.WriteFile(env.Env.RepoPath(".bashrc"), []byte("repo bashrc"), 0644)
	}

	result, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.CopiedFiles)
	assert.Len(t, env.Git.CallsNamed("clone"), 1)
	assert.Equal(t, "repo bashrc", env.ReadFile(env.Env.HomePath(".bashrc")))
}

func TestPullRepoOnlyRestoresManifest(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".vimrc", types.PathFile)
	env.MkRepo()
	require.NoError(t, life.Persist(env.FS, cfg, env.Env.RepoManifestPath()))
	env.WriteRepoFile(".vimrc", "repo vimrc")
	env.Git.Local = []string{"master"}
	env.Git.Remote = []string{"origin/master"}

	_, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.NoError(t, err)

	restored, err := life.Parse(env.FS, env.Env.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, []string{".vimrc"}, restored.Files)
	assert.Equal(t, "repo vimrc", env.ReadFile(env.Env.HomePath(".vimrc")))
}

func TestPullFromScratchAbort(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.Prompter.Choices = []string{engine.ChoiceAbort}

	_, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAborted))
	assert.Empty(t, env.Git.Calls)
}

func TestPullFromScratchInit(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	host := &testutil.FakeHost{}
	env.Prompter.Choices = []string{engine.ChoiceInit}

	result, err := newEngine(env, host).Pull(context.Background(), life.New("master"))
	require.NoError(t, err)
	assert.True(t, result.Initialized)
	assert.Equal(t, []string{"alice/life"}, host.Created)
	assert.True(t, env.FileExists(env.Env.ManifestPath))
}

func TestPullFromScratchFetchExisting(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	env.Prompter.Choices = []string{engine.ChoiceFetch}
	env.Git.Local = []string{"master"}
	env.Git.Remote = []string{"origin/master"}
	env.Git.OnClone = func() error {
		if err := life.Persist(env.FS, cfg, env.Env.RepoManifestPath()); err != nil {
			return err
		}
		return env.FS.WriteFile(env.Env.RepoPath(".bashrc"), []byte("fetched"), 0644)
	}

	result, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.NoError(t, err)
	assert.False(t, result.Initialized)
	assert.Equal(t, "fetched", env.ReadFile(env.Env.HomePath(".bashrc")))
	assert.Equal(t, "fetched", env.ReadFile(env.Env.RepoPath(".bashrc")))

	restored, err := life.Parse(env.FS, env.Env.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, []string{".bashrc"}, restored.Files)
}

func TestPullFromScratchImpossibleChoiceIsInternalError(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.Prompter.Choices = []string{"something else"}

	_, err := newEngine(env, &testutil.FakeHost{}).Pull(context.Background(), life.New("master"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInternal))
}

func TestPushUpToDate(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	setupSynced(t, env, cfg)
	env.WriteHomeFile(".bashrc", "same")
	env.WriteRepoFile(".bashrc", "same")
	env.Git.IsDirty = false

	result, err := newEngine(env, &testutil.FakeHost{}).Push(context.Background())
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.Empty(t, env.Git.Commits())
}

func TestPushCommitsChanges(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	setupSynced(t, env, cfg)
	env.WriteHomeFile(".bashrc", "new content")
	env.WriteRepoFile(".bashrc", "old content")
	env.Git.IsDirty = true

	result, err := newEngine(env, &testutil.FakeHost{}).Push(context.Background())
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, "new content", env.ReadFile(env.Env.RepoPath(".bashrc")))
	assert.Equal(t, []string{"Sync: push tracked files"}, env.Git.Commits())
	assert.Len(t, env.Git.CallsNamed("push"), 1)
}
