package git

import (
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/logging"
)

// ShellClient implements Client by shelling out to the git command,
// always with -C so the process working directory never matters.
type ShellClient struct {
	repoDir string
}

// NewShellClient creates a git client bound to repoDir
func NewShellClient(repoDir string) *ShellClient {
	return &ShellClient{repoDir: repoDir}
}

func (c *ShellClient) Init(ctx context.Context) error {
	_, err := c.run(ctx, "init")
	return err
}

func (c *ShellClient) Clone(ctx context.Context, url string) error {
	// clone targets the bound directory itself, so no -C here
	cmd := exec.CommandContext(ctx, "git", "clone", url, c.repoDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitCommand, "git clone failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

func (c *ShellClient) Checkout(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", branch)
	return err
}

func (c *ShellClient) CheckoutNew(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", "-b", branch)
	return err
}

func (c *ShellClient) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", "-A")
	return err
}

func (c *ShellClient) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

func (c *ShellClient) Push(ctx context.Context) error {
	_, err := c.run(ctx, "push")
	return err
}

func (c *ShellClient) PushUpstream(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "push", "--set-upstream", "origin", branch)
	return err
}

func (c *ShellClient) AddRemote(ctx context.Context, url string) error {
	_, err := c.run(ctx, "remote", "add", "origin", url)
	return err
}

func (c *ShellClient) Fetch(ctx context.Context) error {
	_, err := c.run(ctx, "fetch", "origin")
	return err
}

func (c *ShellClient) LocalBranches(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "branch", "--format", "%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *ShellClient) RemoteBranches(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "branch", "-r", "--format", "%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *ShellClient) RevParse(ctx context.Context, ref string) (string, error) {
	out, err := c.run(ctx, "rev-parse", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *ShellClient) Dirty(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (c *ShellClient) PullRebase(ctx context.Context) error {
	_, err := c.run(ctx, "pull", "--rebase")
	return err
}

func (c *ShellClient) Rebase(ctx context.Context, onto string) error {
	_, err := c.run(ctx, "rebase", onto)
	return err
}

// run executes a git subcommand in the bound repository and returns its
// combined output. Nonzero exit becomes an ErrGitCommand error carrying
// the output, which is all the engine ever needs.
func (c *ShellClient) run(ctx context.Context, args ...string) (string, error) {
	logger := logging.GetLogger("git.shell")
	full := append([]string{"-C", c.repoDir}, args...)
	logger.Debug().Strs("args", full).Msg("running git")

	cmd := exec.CommandContext(ctx, "git", full...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrGitCommand,
			"git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
