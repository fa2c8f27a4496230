package testutil

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/git"
)

// FakeGit is a scripted git.Client. It records every call in order and
// returns preconfigured branch listings, hashes and failures.
type FakeGit struct {
	// Calls records every invocation as "op" or "op arg"
	Calls []string

	// Local and Remote are returned verbatim from the branch listings
	Local  []string
	Remote []string

	// Hashes maps refs to commit hashes for RevParse; unmapped refs
	// resolve to DefaultHash
	Hashes      map[string]string
	DefaultHash string

	// IsDirty is returned by Dirty after the working tree changed
	IsDirty bool

	// OnClone, when set, runs after a successful Clone so tests can
	// materialize the cloned working tree in the memory filesystem
	OnClone func() error

	// Fail maps an op name ("fetch", "commit", ...) to a scripted error
	Fail map[string]error
}

var _ git.Client = (*FakeGit)(nil)

// NewFakeGit creates a fake with a clean call log and no failures
func NewFakeGit() *FakeGit {
	return &FakeGit{
		Hashes:      map[string]string{},
		DefaultHash: "deadbeef",
		Fail:        map[string]error{},
	}
}

// CallsNamed returns the recorded calls whose op matches name
func (f *FakeGit) CallsNamed(name string) []string {
	var out []string
	for _, c := range f.Calls {
		if c == name || strings.HasPrefix(c, name+" ") {
			out = append(out, c)
		}
	}
	return out
}

// Commits returns the commit messages recorded so far
func (f *FakeGit) Commits() []string {
	var out []string
	for _, c := range f.CallsNamed("commit") {
		out = append(out, strings.TrimPrefix(c, "commit "))
	}
	return out
}

func (f *FakeGit) record(op string, args ...string) error {
	call := op
	if len(args) > 0 {
		call = op + " " + strings.Join(args, " ")
	}
	f.Calls = append(f.Calls, call)
	if err, ok := f.Fail[op]; ok && err != nil {
		return err
	}
	return nil
}

func (f *FakeGit) Init(ctx context.Context) error {
	return f.record("init")
}

func (f *FakeGit) Clone(ctx context.Context, url string) error {
	if err := f.record("clone", url); err != nil {
		return err
	}
	if f.OnClone != nil {
		return f.OnClone()
	}
	return nil
}

func (f *FakeGit) Checkout(ctx context.Context, branch string) error {
	return f.record("checkout", branch)
}

func (f *FakeGit) CheckoutNew(ctx context.Context, branch string) error {
	if err := f.record("checkout-new", branch); err != nil {
		return err
	}
	f.Local = append(f.Local, branch)
	return nil
}

func (f *FakeGit) AddAll(ctx context.Context) error {
	return f.record("add")
}

func (f *FakeGit) Commit(ctx context.Context, message string) error {
	return f.record("commit", message)
}

func (f *FakeGit) Push(ctx context.Context) error {
	return f.record("push")
}

func (f *FakeGit) PushUpstream(ctx context.Context, branch string) error {
	if err := f.record("push-upstream", branch); err != nil {
		return err
	}
	f.Remote = append(f.Remote, "origin/"+branch)
	return nil
}

func (f *FakeGit) AddRemote(ctx context.Context, url string) error {
	return f.record("remote-add", url)
}

func (f *FakeGit) Fetch(ctx context.Context) error {
	return f.record("fetch")
}

func (f *FakeGit) LocalBranches(ctx context.Context) ([]string, error) {
	if err := f.record("branches-local"); err != nil {
		return nil, err
	}
	return f.Local, nil
}

func (f *FakeGit) RemoteBranches(ctx context.Context) ([]string, error) {
	if err := f.record("branches-remote"); err != nil {
		return nil, err
	}
	return f.Remote, nil
}

func (f *FakeGit) RevParse(ctx context.Context, ref string) (string, error) {
	if err := f.record("rev-parse", ref); err != nil {
		return "", err
	}
	if hash, ok := f.Hashes[ref]; ok {
		return hash, nil
	}
	return f.DefaultHash, nil
}

func (f *FakeGit) Dirty(ctx context.Context) (bool, error) {
	if err := f.record("status"); err != nil {
		return false, err
	}
	return f.IsDirty, nil
}

func (f *FakeGit) PullRebase(ctx context.Context) error {
	return f.record("pull-rebase")
}

func (f *FakeGit) Rebase(ctx context.Context, onto string) error {
	return f.record("rebase", onto)
}

// FailWith scripts op to fail with a git command error
func (f *FakeGit) FailWith(op, message string) {
	f.Fail[op] = errors.New(errors.ErrGitCommand, message)
}
