/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package publish reconciles a conversation's results back into the CI run:
// the review artifact file, the pipeline output variables, and the working
// tree mutations that a follow-up workflow step turns into a pull request.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chainguard.dev/reviewbot/mutation"
	"chainguard.dev/reviewbot/request"
	"github.com/chainguard-dev/clog"
)

// Outputs appends key=value pairs to the GitHub Actions output file. When
// GITHUB_OUTPUT is unset (local runs) the pairs go to stdout instead.
type Outputs struct {
	// Path is the output file. Empty means stdout.
	Path string
}

// OutputsFromEnv reads GITHUB_OUTPUT.
func OutputsFromEnv() *Outputs {
	return &Outputs{Path: os.Getenv("GITHUB_OUTPUT")}
}

// Set appends one key=value line.
func (o *Outputs) Set(ctx context.Context, key, value string) error {
	if o.Path == "" {
		fmt.Printf("%s=%s\n", key, value)
		return nil
	}
	f, err := os.OpenFile(o.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return fmt.Errorf("writing output %s: %w", key, err)
	}
	return nil
}

// Publisher persists the review artifact and applies mutations. WorkDir is
// the checkout root that mutations are written under; ReviewDir is where the
// artifact file lands (defaults to os.TempDir).
type Publisher struct {
	Outputs   *Outputs
	WorkDir   string
	ReviewDir string
}

// banner wraps the model's final text in the fixed artifact framing.
func banner(text string) string {
	return fmt.Sprintf("## 🤖 Reviewbot Code Review\n\n%s\n\n---\n*Reviewbot Action*", text)
}

// SaveReview writes the wrapped review text to a per-process artifact file
// and emits the review_file output. The process ID in the name keeps
// concurrent runs on the same runner from clobbering each other.
func (p *Publisher) SaveReview(ctx context.Context, text string) (string, error) {
	dir := p.ReviewDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("reviewbot_review_%d.md", os.Getpid()))

	if err := os.WriteFile(path, []byte(banner(text)), 0o644); err != nil {
		return "", fmt.Errorf("writing review file: %w", err)
	}
	if err := p.Outputs.Set(ctx, "review_file", path); err != nil {
		return "", err
	}
	clog.FromContext(ctx).With("path", path).Info("Review written")
	return path, nil
}

// Apply writes the pending mutations into the working tree in emission
// order, creating parent directories as needed. A failed write is logged and
// the rest still apply. Returns true when at least one write succeeded.
func (p *Publisher) Apply(ctx context.Context, pending []mutation.Pending) bool {
	log := clog.FromContext(ctx)

	applied := false
	for _, m := range pending {
		target := filepath.Join(p.WorkDir, m.Path)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			log.With("path", m.Path).With("error", err).Error("Could not create parent directory")
			continue
		}
		if err := os.WriteFile(target, []byte(m.Content), 0o644); err != nil {
			log.With("path", m.Path).With("error", err).Error("Could not write file")
			continue
		}
		log.With("path", m.Path).With("note", m.Note).Info("Applied file change")
		applied = true
	}
	return applied
}

// Publish reconciles one run's results: persist the artifact, apply
// mutations when the action kind allows it, and emit the has_changes and
// comment_posted_via_tool outputs.
func (p *Publisher) Publish(ctx context.Context, kind request.Kind, text string, pending []mutation.Pending, commentPosted bool) error {
	log := clog.FromContext(ctx)

	if _, err := p.SaveReview(ctx, text); err != nil {
		return err
	}

	hasChanges := false
	switch {
	case kind == request.KindFix || kind == request.KindPropose:
		if len(pending) > 0 {
			hasChanges = p.Apply(ctx, pending)
		}
	case kind.Known():
		// plan and review never touch the tree.
	default:
		log.With("kind", string(kind)).Warn("Unknown action kind, no changes applied")
	}

	if err := p.Outputs.Set(ctx, "has_changes", fmt.Sprintf("%t", hasChanges)); err != nil {
		return err
	}
	if commentPosted {
		if err := p.Outputs.Set(ctx, "comment_posted_via_tool", "true"); err != nil {
			return err
		}
	}
	return nil
}
