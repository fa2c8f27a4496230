// Package git wraps the git binary behind a narrow client interface so
// the reconciliation engine can be tested against scripted outputs.
package git

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotlife/pkg/logging"
)

// Client is the VCS capability the engine depends on. A client is bound
// to one repository directory at construction time; "run inside the
// repository" means constructing a client for that path, never chdir.
type Client interface {
	// Init initializes a new repository in the bound directory
	Init(ctx context.Context) error

	// Clone clones url into the bound directory
	Clone(ctx context.Context, url string) error

	// Checkout switches to an existing branch
	Checkout(ctx context.Context, branch string) error

	// CheckoutNew creates and switches to a new branch
	CheckoutNew(ctx context.Context, branch string) error

	// AddAll stages every change in the working tree
	AddAll(ctx context.Context) error

	// Commit records staged changes with the given message
	Commit(ctx context.Context, message string) error

	// Push pushes the current branch
	Push(ctx context.Context) error

	// PushUpstream pushes branch and sets its upstream on the remote
	PushUpstream(ctx context.Context, branch string) error

	// AddRemote registers the origin remote
	AddRemote(ctx context.Context, url string) error

	// Fetch updates remote refs
	Fetch(ctx context.Context) error

	// LocalBranches lists local branch names
	LocalBranches(ctx context.Context) ([]string, error)

	// RemoteBranches lists remote branch names (origin/<name> form)
	RemoteBranches(ctx context.Context) ([]string, error)

	// RevParse resolves a ref to its commit hash
	RevParse(ctx context.Context, ref string) (string, error)

	// Dirty reports whether the working tree has uncommitted changes
	Dirty(ctx context.Context) (bool, error)

	// PullRebase pulls the current branch with rebase
	PullRebase(ctx context.Context) error

	// Rebase rebases the current branch onto the given ref
	Rebase(ctx context.Context, onto string) error
}

// BranchName normalizes one line of branch listing output to a bare
// branch name. Unparsable lines come back as the empty string; callers
// exclude those from membership tests instead of failing.
func BranchName(line string) string {
	name := strings.TrimSpace(line)
	name = strings.TrimPrefix(name, "* ")
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "->") {
		// "origin/HEAD -> origin/master" style lines carry no branch
		return ""
	}
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// BranchNames normalizes a full listing, dropping unparsable lines
func BranchNames(lines []string) []string {
	logger := logging.GetLogger("git")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		name := BranchName(line)
		if name == "" {
			logger.Debug().Str("line", line).Msg("skipping unparsable ref line")
			continue
		}
		out = append(out, name)
	}
	return out
}

// Contains reports whether name appears in a normalized branch list
func Contains(branches []string, name string) bool {
	for _, b := range branches {
		if b == name {
			return true
		}
	}
	return false
}
