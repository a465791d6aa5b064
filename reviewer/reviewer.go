/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package reviewer runs one end-to-end review: resolve what the run targets,
// gather context from the host, hold the conversation with the model, and
// publish the results.
package reviewer

import (
	"context"
	"fmt"

	"chainguard.dev/reviewbot/conversation"
	"chainguard.dev/reviewbot/host"
	"chainguard.dev/reviewbot/mutation"
	"chainguard.dev/reviewbot/prompt"
	"chainguard.dev/reviewbot/publish"
	"chainguard.dev/reviewbot/request"
	"chainguard.dev/reviewbot/tools"
	"github.com/chainguard-dev/clog"
)

// Config carries the model tuning knobs for one run.
type Config struct {
	Model                string
	MaxTokens            int64
	Temperature          float64
	ThinkingBudgetTokens int64
	MaxToolRounds        int
	Limits               prompt.Limits
}

// Deps are the run's collaborators, all substitutable in tests.
type Deps struct {
	Host         host.Interface
	Conversation *conversation.Conversation
	Publisher    *publish.Publisher
}

// Run executes one review end to end. Only infrastructure failures (host
// reads needed to build any context at all, artifact writes) return errors;
// a failed model request degrades into a published error message so the
// workflow still gets an artifact.
func Run(ctx context.Context, req request.Request, deps Deps, cfg Config) error {
	log := clog.FromContext(ctx).With("target", req.Target()).With("kind", string(req.Kind))
	ctx = clog.WithLogger(ctx, log)

	req, issue, err := resolveMode(ctx, req, deps.Host)
	if err != nil {
		return err
	}
	log = log.With("mode", string(req.Mode))

	in := prompt.Inputs{Request: req}

	if req.Mode == request.ModePullRequest {
		pr, err := deps.Host.PullRequest(ctx)
		if err != nil {
			return fmt.Errorf("fetching pull request: %w", err)
		}
		in.PR = pr

		files, err := prompt.CollectFiles(ctx, deps.Host, req.HeadRef)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Info("No reviewable files in pull request")
			return deps.Publisher.Publish(ctx, req.Kind, "No files to review in this PR.", nil, false)
		}
		in.Files = files

		if req.Kind == request.KindFix {
			in.History = prompt.History(ctx, deps.Host)
		}
	} else {
		in.Issue = issue
		linked, err := deps.Host.LinkedPullRequests(ctx)
		if err != nil {
			log.With("error", err).Warn("Could not fetch linked pull requests")
		}
		in.LinkedPRs = linked
	}

	promptText := prompt.Build(in)
	if req.Mode == request.ModePullRequest {
		promptText += prompt.InlineFiles(in, cfg.Limits)
	}

	handlers := tools.Handlers{
		FetchComments: deps.Host.Comments,
		FetchChangedFiles: func(ctx context.Context) ([]host.ChangedFile, error) {
			return in.Files, nil
		},
		PostComment: deps.Host.CreateComment,
	}

	result, err := deps.Conversation.Run(ctx, conversation.Params{
		System:               prompt.Instructions(req.Kind, req.Mode),
		Prompt:               promptText,
		Tools:                tools.Declarations(req.Kind),
		Model:                cfg.Model,
		MaxTokens:            cfg.MaxTokens,
		Temperature:          cfg.Temperature,
		ThinkingBudgetTokens: cfg.ThinkingBudgetTokens,
		MaxToolRounds:        cfg.MaxToolRounds,
		Mode:                 req.Mode,
	}, handlers)
	if err != nil {
		// The artifact and outputs are still published so the workflow can
		// surface the failure; queued mutations are discarded.
		log.With("error", err).Error("Model conversation failed")
		return deps.Publisher.Publish(ctx, req.Kind, fmt.Sprintf("Error analyzing code: %v", err), nil, false)
	}

	pending := result.Mutations
	if len(pending) == 0 && (req.Kind == request.KindFix || req.Kind == request.KindPropose) {
		pending = mutation.FromResponseText(ctx, result.Text)
		if len(pending) > 0 {
			log.With("count", len(pending)).Info("Collected file changes from response text")
		}
	}

	return deps.Publisher.Publish(ctx, req.Kind, result.Text, pending, result.CommentPosted)
}

// resolveMode settles the interaction mode. Comment events arrive as issue
// events even on pull request threads, so issue mode is confirmed against
// the host: a PR-backed issue flips the run to pull-request mode.
func resolveMode(ctx context.Context, req request.Request, h host.Interface) (request.Request, *host.Issue, error) {
	if req.Mode != request.ModeIssue {
		return req, nil, nil
	}
	issue, err := h.Issue(ctx)
	if err != nil {
		return req, nil, fmt.Errorf("fetching issue: %w", err)
	}
	if issue.IsPullRequest {
		req.Mode = request.ModePullRequest
		return req, nil, nil
	}
	return req, issue, nil
}
