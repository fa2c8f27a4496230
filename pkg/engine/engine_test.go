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

func newEngine(env *testutil.TestEnvironment, host *testutil.FakeHost) *engine.Engine {
	return engine.New(engine.Options{
		FS:             env.FS,
		Env:            env.Env,
		Git:            env.Git,
		Host:           host,
		Prompter:       env.Prompter,
		RemoteHostName: "github.com",
		DefaultBranch:  "master",
	})
}

// setupSynced builds the both-present layout with master existing on
// both sides and identical heads.
func setupSynced(t *testing.T, env *testutil.TestEnvironment, cfg *life.Config) {
	t.Helper()
	env.MkRepo()
	require.NoError(t, life.Persist(env.FS, cfg, env.Env.ManifestPath))
	require.NoError(t, life.Persist(env.FS, cfg, env.Env.RepoManifestPath()))
	env.Git.Local = []string{"master"}
	env.Git.Remote = []string{"origin/master"}
}

func TestInitFreshMachine(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	host := &testutil.FakeHost{}
	eng := newEngine(env, host)

	result, err := eng.Init(context.Background())
	require.NoError(t, err)
	assert.False(t, result.AlreadyInitialized)
	assert.Equal(t, "master", result.Branch)

	// remote repository created for the right owner
	assert.Equal(t, []string{"alice/life"}, host.Created)

	// local clone initialized, branch created, first commit pushed
	assert.Equal(t, []string{
		"init",
		"remote-add https://github.com/alice/life.git",
		"checkout-new master",
		"add",
		"commit Initial commit",
		"push-upstream master",
	}, env.Git.Calls)

	// manifest exists in home and repo with empty sets and master
	cfg, err := life.Parse(env.FS, env.Env.ManifestPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.Files)
	assert.Empty(t, cfg.Directories)
	assert.Equal(t, "master", cfg.Branch)
	assert.True(t, env.FileExists(env.Env.RepoManifestPath()))
}

func TestInitIdempotent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	host := &testutil.FakeHost{}
	setupSynced(t, env, life.New("master"))

	result, err := newEngine(env, host).Init(context.Background())
	require.NoError(t, err)
	assert.True(t, result.AlreadyInitialized)
	assert.Empty(t, host.Created, "no remote call on re-init")
	assert.Empty(t, env.Git.Calls, "no git call on re-init")
}

func TestInitRefusesPartialLayout(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.MkRepo() // repo without manifest

	_, err := newEngine(env, &testutil.FakeHost{}).Init(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigValid))
}

func TestInitAbortsWhenRemoteCreationFails(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	host := &testutil.FakeHost{Err: errors.New(errors.ErrRemoteAPI, "503")}

	_, err := newEngine(env, host).Init(context.Background())
	require.Error(t, err)
	assert.Empty(t, env.Git.Calls, "no local state after remote failure")
	assert.False(t, env.FileExists(env.Env.ManifestPath))
}

func TestAddNewFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.WriteHomeFile(".bashrc", "export PS1='$ '\n")

	result, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), "~/.bashrc")
	require.NoError(t, err)
	assert.Equal(t, ".bashrc", result.Path)
	assert.Equal(t, types.PathFile, result.Kind)
	assert.False(t, result.AlreadyLatest)

	// manifest tracks the file
	cfg, err := life.Parse(env.FS, env.Env.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, []string{".bashrc"}, cfg.Files)

	// repository copy is byte identical
	assert.Equal(t, "export PS1='$ '\n", env.ReadFile(env.Env.RepoPath(".bashrc")))

	// exactly one commit with the add message, then a push
	assert.Equal(t, []string{"Add: .bashrc"}, env.Git.Commits())
	assert.Len(t, env.Git.CallsNamed("push"), 1)
}

func TestAddUnchangedFileIsNoOp(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	setupSynced(t, env, cfg)
	env.WriteHomeFile(".bashrc", "same content")
	env.WriteRepoFile(".bashrc", "same content")

	manifestBefore := env.ReadFile(env.Env.ManifestPath)

	result, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), "~/.bashrc")
	require.NoError(t, err)
	assert.True(t, result.AlreadyLatest)

	assert.Equal(t, manifestBefore, env.ReadFile(env.Env.ManifestPath), "manifest untouched")
	assert.Empty(t, env.Git.Commits(), "no commit for identical content")
	assert.Empty(t, env.Git.CallsNamed("push"))
}

func TestAddIdempotent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.WriteHomeFile(".vimrc", "set number\n")

	eng := newEngine(env, &testutil.FakeHost{})
	_, err := eng.Add(context.Background(), ".vimrc")
	require.NoError(t, err)
	manifestAfterFirst := env.ReadFile(env.Env.ManifestPath)
	commitsAfterFirst := len(env.Git.Commits())

	result, err := eng.Add(context.Background(), ".vimrc")
	require.NoError(t, err)
	assert.True(t, result.AlreadyLatest)
	assert.Equal(t, manifestAfterFirst, env.ReadFile(env.Env.ManifestPath))
	assert.Len(t, env.Git.Commits(), commitsAfterFirst, "second add must not commit")
}

func TestAddDirectoryAlwaysCopies(t *testing.T) {
	// directory equality is deliberately unimplemented: a tracked
	// directory always counts as changed and forces a copy
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".config/fish", types.PathDirectory)
	setupSynced(t, env, cfg)
	env.WriteHomeFile(".config/fish/config.fish", "set -x EDITOR vim")
	env.WriteRepoFile(".config/fish/config.fish", "set -x EDITOR vim")

	result, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), ".config/fish")
	require.NoError(t, err)
	assert.False(t, result.AlreadyLatest)
	assert.Equal(t, types.PathDirectory, result.Kind)
	assert.Equal(t, []string{"Add: .config/fish"}, env.Git.Commits())
}

func TestAddMissingPathAbortsWithoutMutation(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	manifestBefore := env.ReadFile(env.Env.ManifestPath)

	_, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), "~/.zshrc")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.Equal(t, manifestBefore, env.ReadFile(env.Env.ManifestPath))
	assert.Empty(t, env.Git.Commits())
}

func TestAddRequiresFullLayout(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), ".bashrc")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigValid))
}

func TestAddDivergedDeclinedAborts(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.WriteHomeFile(".bashrc", "content")
	env.Git.Hashes["master"] = "aaa"
	env.Git.Hashes["origin/master"] = "bbb"
	env.Prompter.Confirms = []bool{false}

	_, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), ".bashrc")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAborted))
	assert.Empty(t, env.Git.Commits())
}

func TestAddDivergedAcceptedRebasesAndContinues(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.WriteHomeFile(".bashrc", "content")
	env.Git.Hashes["master"] = "aaa"
	env.Git.Hashes["origin/master"] = "bbb"
	env.Prompter.Confirms = []bool{true}

	_, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), ".bashrc")
	require.NoError(t, err)
	assert.Equal(t, []string{"rebase origin/master"}, env.Git.CallsNamed("rebase"))
	assert.Equal(t, []string{"Add: .bashrc"}, env.Git.Commits())
}

func TestAddLocalOnlyBranchOffersUpstreamPush(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))
	env.Git.Remote = nil // branch exists only locally
	env.WriteHomeFile(".bashrc", "content")
	env.Prompter.Confirms = []bool{true}

	_, err := newEngine(env, &testutil.FakeHost{}).Add(context.Background(), ".bashrc")
	require.NoError(t, err)
	assert.Equal(t, []string{"push-upstream master"}, env.Git.CallsNamed("push-upstream"))
}

func TestRemoveTrackedFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	setupSynced(t, env, cfg)
	env.WriteRepoFile(".bashrc", "content")

	result, err := newEngine(env, &testutil.FakeHost{}).Remove(context.Background(), ".bashrc")
	require.NoError(t, err)
	assert.False(t, result.MissingInRepo)
	assert.False(t, env.FileExists(env.Env.RepoPath(".bashrc")))

	updated, err := life.Parse(env.FS, env.Env.ManifestPath)
	require.NoError(t, err)
	assert.Empty(t, updated.Files)
	assert.Equal(t, []string{"Remove: .bashrc"}, env.Git.Commits())
}

func TestRemoveMissingPathIsReportedNotFatal(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := life.Insert(life.New("master"), ".bashrc", types.PathFile)
	setupSynced(t, env, cfg)
	// tracked in the manifest but already gone from the working tree

	result, err := newEngine(env, &testutil.FakeHost{}).Remove(context.Background(), ".bashrc")
	require.NoError(t, err)
	assert.True(t, result.MissingInRepo)

	updated, err := life.Parse(env.FS, env.Env.ManifestPath)
	require.NoError(t, err)
	assert.Empty(t, updated.Files)
	assert.Equal(t, []string{"Remove: .bashrc"}, env.Git.Commits())
}

func TestRemoveUntrackedMissingPathIsNoOp(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	setupSynced(t, env, life.New("master"))

	result, err := newEngine(env, &testutil.FakeHost{}).Remove(context.Background(), ".bashrc")
	require.NoError(t, err)
	assert.True(t, result.AlreadyRemoved)
	assert.Empty(t, env.Git.Commits())
}
