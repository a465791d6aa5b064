/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package host

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// GitHub implements Interface against a single owner/repo/number using the
// REST API, plus GraphQL for issue-to-PR link discovery.
type GitHub struct {
	client *github.Client
	gql    *githubv4.Client

	owner  string
	repo   string
	number int
}

var _ Interface = (*GitHub)(nil)

// NewGitHub builds a host client authenticated with the workflow token.
func NewGitHub(ctx context.Context, token, owner, repo string, number int) *GitHub {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return NewGitHubFromHTTP(httpClient, owner, repo, number)
}

// NewGitHubFromHTTP builds a host client on top of an existing HTTP client,
// which keeps tests off the oauth2 path.
func NewGitHubFromHTTP(httpClient *http.Client, owner, repo string, number int) *GitHub {
	return &GitHub{
		client: github.NewClient(httpClient),
		gql:    githubv4.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
		number: number,
	}
}

func (g *GitHub) PullRequest(ctx context.Context) (*PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, g.owner, g.repo, g.number)
	if err != nil {
		return nil, fmt.Errorf("fetching PR %s/%s#%d: %w", g.owner, g.repo, g.number, err)
	}
	return &PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		State:  pr.GetState(),
	}, nil
}

func (g *GitHub) Issue(ctx context.Context) (*Issue, error) {
	issue, _, err := g.client.Issues.Get(ctx, g.owner, g.repo, g.number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s/%s#%d: %w", g.owner, g.repo, g.number, err)
	}
	return &Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		State:         issue.GetState(),
		CreatedAt:     issue.GetCreatedAt().Time,
		IsPullRequest: issue.IsPullRequest(),
	}, nil
}

func (g *GitHub) ChangedFiles(ctx context.Context) ([]ChangedFile, error) {
	files, _, err := g.client.PullRequests.ListFiles(ctx, g.owner, g.repo, g.number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}
	changed := make([]ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, ChangedFile{
			Path:      f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Patch:     f.GetPatch(),
		})
	}
	return changed, nil
}

func (g *GitHub) FileContent(ctx context.Context, path, ref string) (string, error) {
	content, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return "", fmt.Errorf("fetching %s@%s: %w", path, ref, err)
	}
	if content == nil {
		return "", fmt.Errorf("fetching %s@%s: not a file", path, ref)
	}
	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s@%s: %w", path, ref, err)
	}
	return decoded, nil
}

func (g *GitHub) Comments(ctx context.Context) ([]Comment, error) {
	comments, _, err := g.client.Issues.ListComments(ctx, g.owner, g.repo, g.number, &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, Comment{
			ID:        c.GetID(),
			Author:    c.GetUser().GetLogin(),
			Body:      c.GetBody(),
			CreatedAt: c.GetCreatedAt().Time,
			UpdatedAt: c.GetUpdatedAt().Time,
			URL:       c.GetHTMLURL(),
		})
	}
	return out, nil
}

func (g *GitHub) CreateComment(ctx context.Context, body string) (*Comment, error) {
	comment, _, err := g.client.Issues.CreateComment(ctx, g.owner, g.repo, g.number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return &Comment{
		ID:        comment.GetID(),
		Author:    comment.GetUser().GetLogin(),
		Body:      comment.GetBody(),
		CreatedAt: comment.GetCreatedAt().Time,
		UpdatedAt: comment.GetUpdatedAt().Time,
		URL:       comment.GetHTMLURL(),
	}, nil
}

// LinkedPullRequests queries for pull requests that reference this issue via
// "closes" keywords.
func (g *GitHub) LinkedPullRequests(ctx context.Context) ([]string, error) {
	var query struct {
		Repository struct {
			Issue struct {
				ClosedByPullRequestsReferences struct {
					Nodes []struct {
						URL string
					}
				} `graphql:"closedByPullRequestsReferences(first: 10)"`
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":  githubv4.String(g.owner),
		"repo":   githubv4.String(g.repo),
		"number": githubv4.Int(g.number),
	}

	if err := g.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("graphql query: %w", err)
	}

	var urls []string
	for _, pr := range query.Repository.Issue.ClosedByPullRequestsReferences.Nodes {
		urls = append(urls, pr.URL)
	}
	return urls, nil
}
