/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main is the reviewbot entrypoint, invoked once per triggering
// workflow event. All inputs arrive through the environment; results leave
// through the review artifact, the working tree, and GITHUB_OUTPUT.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"chainguard.dev/reviewbot/conversation"
	"chainguard.dev/reviewbot/host"
	"chainguard.dev/reviewbot/prompt"
	"chainguard.dev/reviewbot/publish"
	"chainguard.dev/reviewbot/request"
	"chainguard.dev/reviewbot/reviewer"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	GitHubToken string `env:"GITHUB_TOKEN,required"`
	Repository  string `env:"GITHUB_REPOSITORY,required"`
	// Number is parsed explicitly so a malformed value yields its own
	// configuration error rather than a generic envconfig one.
	Number    string `env:"PR_NUMBER,required"`
	Command   string `env:"COMMAND,required"`
	Kind      string `env:"ACTION_TYPE,required"`
	EventName string `env:"GITHUB_EVENT_NAME"`
	HeadRef   string `env:"HEAD_REF,default=main"`
	BaseRef   string `env:"BASE_REF,default=main"`

	// Model auth: Vertex when GCPProjectID is set, direct API key otherwise.
	APIKey       string `env:"ANTHROPIC_API_KEY"`
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCPRegion    string `env:"GCP_REGION,default=us-east5"`

	Model                string  `env:"CLAUDE_MODEL,default=claude-sonnet-4-5"`
	MaxTokens            int64   `env:"MAX_TOKENS,default=8192"`
	Temperature          float64 `env:"TEMPERATURE,default=0.1"`
	ThinkingBudgetTokens int64   `env:"THINKING_BUDGET_TOKENS"`
	MaxToolRounds        int     `env:"MAX_TOOL_ROUNDS,default=2"`
	MaxContextBytes      int     `env:"MAX_CONTEXT_BYTES"`

	WorkDir   string `env:"GITHUB_WORKSPACE,default=."`
	ReviewDir string `env:"REVIEW_DIR"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	owner, repo, ok := strings.Cut(cfg.Repository, "/")
	if !ok {
		clog.FatalContextf(ctx, "GITHUB_REPOSITORY must be owner/repo, got %q", cfg.Repository)
	}
	number, err := strconv.Atoi(cfg.Number)
	if err != nil {
		clog.FatalContextf(ctx, "PR_NUMBER must be an integer, got %q", cfg.Number)
	}

	var client anthropic.Client
	switch {
	case cfg.GCPProjectID != "":
		client = anthropic.NewClient(vertex.WithGoogleAuth(ctx, cfg.GCPRegion, cfg.GCPProjectID))
	case cfg.APIKey != "":
		client = anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	default:
		clog.FatalContextf(ctx, "either ANTHROPIC_API_KEY or GCP_PROJECT_ID must be set")
	}

	req := request.Request{
		Kind:    request.Kind(cfg.Kind),
		Mode:    request.ModeFromEvent(cfg.EventName),
		Command: cfg.Command,
		Owner:   owner,
		Repo:    repo,
		Number:  number,
		HeadRef: cfg.HeadRef,
		BaseRef: cfg.BaseRef,
	}
	if !req.Kind.Known() {
		clog.WarnContextf(ctx, "Unknown action type %q, proceeding with review instructions", cfg.Kind)
	}

	deps := reviewer.Deps{
		Host:         host.NewGitHub(ctx, cfg.GitHubToken, owner, repo, number),
		Conversation: conversation.New(client),
		Publisher: &publish.Publisher{
			Outputs:   publish.OutputsFromEnv(),
			WorkDir:   cfg.WorkDir,
			ReviewDir: cfg.ReviewDir,
		},
	}

	if err := reviewer.Run(ctx, req, deps, reviewer.Config{
		Model:                cfg.Model,
		MaxTokens:            cfg.MaxTokens,
		Temperature:          cfg.Temperature,
		ThinkingBudgetTokens: cfg.ThinkingBudgetTokens,
		MaxToolRounds:        cfg.MaxToolRounds,
		Limits:               prompt.Limits{TotalBytes: cfg.MaxContextBytes},
	}); err != nil {
		clog.FatalContextf(ctx, "run failed: %v", err)
	}
	clog.InfoContextf(ctx, "Reviewbot completed for %s", req.Target())
}
