package testutil

import (
	"context"

	"github.com/arthur-debert/dotlife/pkg/github"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// FakeHost records remote repository creations
type FakeHost struct {
	// Created lists "owner/repo" for every creation call
	Created []string

	// Err, when set, is returned from every call
	Err error
}

var _ github.RemoteHost = (*FakeHost)(nil)

func (h *FakeHost) CreateRepository(ctx context.Context, owner types.Owner, repo types.Repo) error {
	h.Created = append(h.Created, string(owner)+"/"+string(repo))
	return h.Err
}
