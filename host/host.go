/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package host is the capability surface reviewbot consumes from the
// version-control host. The rest of the system only sees this interface;
// the GitHub implementation lives in github.go.
package host

import (
	"context"
	"time"
)

// PullRequest is the subset of pull request metadata a run needs.
type PullRequest struct {
	Number int
	Title  string
	Body   string
	State  string
}

// Issue is the subset of issue metadata a run needs. IsPullRequest is true
// when the host backs this issue number by a pull request, which happens for
// comment events on PR threads.
type Issue struct {
	Number        int
	Title         string
	Body          string
	State         string
	CreatedAt     time.Time
	IsPullRequest bool
}

// ChangedFile describes one changed artifact in a pull request. Content is
// filled in by the context builder, not by ChangedFiles, so a failed content
// read can be skipped per file.
type ChangedFile struct {
	Path      string
	Status    string // "added", "modified", "removed"
	Additions int
	Deletions int
	Patch     string // unified diff, may be empty for binary or huge files
	Content   string // full content at the head ref, empty for removed files
}

// Comment is a prior comment on the thread, ordered as the host returns it.
type Comment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
	URL       string
}

// Interface is the read/write surface against the host. All calls are
// blocking and synchronous; callers bound them with the context.
type Interface interface {
	// PullRequest fetches the pull request this run targets.
	PullRequest(ctx context.Context) (*PullRequest, error)

	// Issue fetches the issue this run targets (issue mode, or to decide
	// whether an issue_comment event is really a PR thread).
	Issue(ctx context.Context) (*Issue, error)

	// ChangedFiles lists the changed artifacts with status, counts, and
	// diffs, but without content.
	ChangedFiles(ctx context.Context) ([]ChangedFile, error)

	// FileContent fetches the full content of one file at the given ref.
	FileContent(ctx context.Context, path, ref string) (string, error)

	// Comments lists prior comments on the thread.
	Comments(ctx context.Context) ([]Comment, error)

	// CreateComment posts a new comment and returns it.
	CreateComment(ctx context.Context, body string) (*Comment, error)

	// LinkedPullRequests returns the URLs of pull requests that close this
	// issue, for enriching issue-mode context.
	LinkedPullRequests(ctx context.Context) ([]string, error)
}
