// Package github creates the remote repository during the init workflow.
// Only the single create-repository call is modeled; everything else the
// tool does with the remote goes through git itself.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/logging"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// RemoteHost can create a repository on a git hosting service
type RemoteHost interface {
	CreateRepository(ctx context.Context, owner types.Owner, repo types.Repo) error
}

// Client talks to the GitHub REST API
type Client struct {
	api   string
	token string
	http  *http.Client
}

// NewClient creates a GitHub client for the given API base URL and token
func NewClient(api, token string) *Client {
	return &Client{
		api:   api,
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

// CreateRepository creates owner/repo as a private repository. A 422 from
// the API means the repository already exists, which callers treat as a
// distinct condition from transport failure.
func (c *Client) CreateRepository(ctx context.Context, owner types.Owner, repo types.Repo) error {
	logger := logging.GetLogger("github")

	if c.token == "" {
		return errors.New(errors.ErrConfigValid, "no GitHub token configured (set DOTLIFE_GITHUB_TOKEN)")
	}

	body, err := json.Marshal(createRepoRequest{
		Name:        string(repo),
		Description: "Personal configuration files, managed by dotlife",
		Private:     true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode repository request")
	}

	url := c.api + "/user/repos"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot build repository request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	logger.Info().Str("owner", string(owner)).Str("repo", string(repo)).Msg("creating remote repository")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrRemoteAPI, "repository creation request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return errors.Newf(errors.ErrAlreadyExists, "repository %s/%s already exists", owner, repo)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf(errors.ErrRemoteAPI, "repository creation returned %s: %s",
			resp.Status, fmt.Sprintf("%.200s", string(msg)))
	}
}
