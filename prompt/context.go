/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package prompt assembles the textual context handed to the model: request
// metadata, the changed-file manifest, prior conversation turns, and the
// inlined file contents. Given the same inputs, the output is byte-identical.
package prompt

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"chainguard.dev/reviewbot/host"
	"chainguard.dev/reviewbot/request"
	"github.com/chainguard-dev/clog"
)

// Turn is a prior command directed at the bot, used to build conversation
// history for fix requests.
type Turn struct {
	Author    string
	CreatedAt time.Time
	Command   string
}

// mentionRe extracts the command text following a bot mention.
var mentionRe = regexp.MustCompile(`(?is)@reviewbot\s+(.+)`)

// Inputs is everything the context builder renders. All fields are fetched
// before building so Build itself is a pure function.
type Inputs struct {
	Request request.Request

	// PR is set in pull-request mode.
	PR *host.PullRequest
	// Issue and LinkedPRs are set in issue mode.
	Issue     *host.Issue
	LinkedPRs []string

	Files   []host.ChangedFile
	History []Turn
}

// Build renders the context string for the model.
func Build(in Inputs) string {
	if in.Request.Mode == request.ModeIssue {
		return buildIssueContext(in)
	}
	return buildPRContext(in)
}

func buildPRContext(in Inputs) string {
	var b strings.Builder

	title, body := "", ""
	if in.PR != nil {
		title, body = in.PR.Title, in.PR.Body
	}
	if body == "" {
		body = "No description provided"
	}

	fmt.Fprintf(&b, "# Pull Request Context\n\n")
	fmt.Fprintf(&b, "**PR #%d**: %s\n", in.Request.Number, title)
	fmt.Fprintf(&b, "**Branch**: %s → %s\n", in.Request.HeadRef, in.Request.BaseRef)
	fmt.Fprintf(&b, "**Description**: %s\n", body)

	b.WriteString("\n## Files Changed:\n")
	for _, f := range in.Files {
		fmt.Fprintf(&b, "- `%s` (%s, +%d/-%d)\n", f.Path, f.Status, f.Additions, f.Deletions)
	}

	if in.Request.Kind == request.KindFix && len(in.History) > 0 {
		b.WriteString("\n## Previous Conversation History:\n")
		for i, turn := range in.History {
			fmt.Fprintf(&b, "%d. **%s**: @reviewbot %s\n", i+1, turn.Author, turn.Command)
		}
		b.WriteString("\n*This conversation history should inform your implementation decisions.*\n")
	}

	fmt.Fprintf(&b, "\n## Current Request:\n%s\n", in.Request.Command)
	return b.String()
}

func buildIssueContext(in Inputs) string {
	var b strings.Builder

	title, body, state := "", "No description provided", ""
	var created time.Time
	if in.Issue != nil {
		title, state, created = in.Issue.Title, in.Issue.State, in.Issue.CreatedAt
		if in.Issue.Body != "" {
			body = in.Issue.Body
		}
	}

	fmt.Fprintf(&b, "# Issue Context\n")
	fmt.Fprintf(&b, "**Issue #%d**: %s\n", in.Request.Number, title)
	fmt.Fprintf(&b, "**Description**: %s\n", body)
	fmt.Fprintf(&b, "**State**: %s\n", state)
	fmt.Fprintf(&b, "**Created**: %s\n", created.UTC().Format(time.RFC3339))

	if len(in.LinkedPRs) > 0 {
		b.WriteString("\n## Linked Pull Requests:\n")
		for _, url := range in.LinkedPRs {
			fmt.Fprintf(&b, "- %s\n", url)
		}
	}

	fmt.Fprintf(&b, "\n## Current Request:\n%s\n", in.Request.Command)
	b.WriteString(`
## Context:
This is a planning/discussion request without specific code files to analyze.
Focus on strategic thinking, architectural guidance, and actionable recommendations.
`)
	return b.String()
}

// CollectFiles lists the changed artifacts and loads their content at the
// head ref. Removed files carry no content; a failed read for any single
// file is logged and that file is skipped rather than failing the run.
func CollectFiles(ctx context.Context, h host.Interface, headRef string) ([]host.ChangedFile, error) {
	log := clog.FromContext(ctx)

	files, err := h.ChangedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	collected := make([]host.ChangedFile, 0, len(files))
	for _, f := range files {
		if f.Status == "removed" {
			continue
		}
		content, err := h.FileContent(ctx, f.Path, headRef)
		if err != nil {
			log.With("path", f.Path).With("error", err).Warn("Could not read changed file, skipping")
			continue
		}
		f.Content = content
		collected = append(collected, f)
	}
	return collected, nil
}

// History fetches the prior bot commands on the thread, ordered by creation
// time ascending. The most recent turn is excluded: it is the command that
// triggered this run and is already in the request. A comment-listing
// failure is logged and yields an empty history.
func History(ctx context.Context, h host.Interface) []Turn {
	log := clog.FromContext(ctx)

	comments, err := h.Comments(ctx)
	if err != nil {
		log.With("error", err).Warn("Could not fetch previous comments")
		return nil
	}

	var turns []Turn
	for _, c := range comments {
		m := mentionRe.FindStringSubmatch(c.Body)
		if m == nil {
			continue
		}
		turns = append(turns, Turn{
			Author:    c.Author,
			CreatedAt: c.CreatedAt,
			Command:   strings.TrimSpace(m[1]),
		})
	}

	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].CreatedAt.Before(turns[j].CreatedAt)
	})

	if len(turns) == 0 {
		return nil
	}
	return turns[:len(turns)-1]
}
