// Package testutil provides test environments and scripted collaborator
// fakes so engine behavior can be asserted without a real git binary,
// network, or terminal.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotlife/pkg/filesystem"
	"github.com/arthur-debert/dotlife/pkg/paths"
	"github.com/arthur-debert/dotlife/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestEnvironment bundles an in-memory home directory with scripted
// collaborators for the engine under test.
type TestEnvironment struct {
	FS       types.FS
	Env      *paths.Environment
	Git      *FakeGit
	Prompter *ScriptedPrompter

	t *testing.T
}

// NewTestEnvironment creates a memory-backed environment rooted at
// /home/test with the standard layout (clone at ~/life, manifest .life).
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	env, err := paths.NewEnvironment("/home/test", "life", ".life", "alice", "life")
	require.NoError(t, err)

	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/home/test", 0755))

	return &TestEnvironment{
		FS:       fs,
		Env:      env,
		Git:      NewFakeGit(),
		Prompter: &ScriptedPrompter{},
		t:        t,
	}
}

// WriteHomeFile creates a file under the home directory
func (e *TestEnvironment) WriteHomeFile(rel, content string) {
	e.t.Helper()
	e.writeFile(e.Env.HomePath(rel), content)
}

// WriteRepoFile creates a file under the repository clone
func (e *TestEnvironment) WriteRepoFile(rel, content string) {
	e.t.Helper()
	e.writeFile(e.Env.RepoPath(rel), content)
}

// MkRepo creates the clone directory so existence probes see it
func (e *TestEnvironment) MkRepo() {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(e.Env.RepoDir, 0755))
}

// ReadFile returns a file's content, failing the test when missing
func (e *TestEnvironment) ReadFile(path string) string {
	e.t.Helper()
	data, err := e.FS.ReadFile(path)
	require.NoError(e.t, err)
	return string(data)
}

// FileExists reports whether path exists in the environment
func (e *TestEnvironment) FileExists(path string) bool {
	_, err := e.FS.Stat(path)
	return err == nil
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, e.FS.WriteFile(path, []byte(content), 0644))
}
