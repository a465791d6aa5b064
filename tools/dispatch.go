/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"context"
	"fmt"
	"time"

	"chainguard.dev/reviewbot/host"
	"chainguard.dev/reviewbot/mutation"
	"github.com/chainguard-dev/clog"
)

// Handlers carries the local capabilities tool dispatch needs. Func fields
// keep dispatch testable without a live host client.
type Handlers struct {
	// FetchComments returns the prior comments on the thread.
	FetchComments func(ctx context.Context) ([]host.Comment, error)

	// FetchChangedFiles returns the changed artifacts collected at the
	// start of the run. They are not refreshed mid-conversation.
	FetchChangedFiles func(ctx context.Context) ([]host.ChangedFile, error)

	// PostComment posts a comment to the thread.
	PostComment func(ctx context.Context, body string) (*host.Comment, error)
}

// Outcome pairs an invocation's identifier with the payload returned to the
// model. An "error" key in the payload marks a failed call; the conversation
// continues regardless.
type Outcome struct {
	ID      string
	Payload map[string]any
}

// Dispatch executes one invocation against the handlers. File modifications
// are queued on the collector rather than applied; nothing here touches the
// working tree. The second return reports whether a comment was posted.
// Handler failures, including panics, become error outcomes: a single
// failing tool call must not abort the conversation.
func Dispatch(ctx context.Context, inv Invocation, h Handlers, collector *mutation.Collector) (outcome Outcome, posted bool) {
	log := clog.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.With("panic", r).Error("Tool handler panicked")
			outcome = Outcome{ID: inv.CallID(), Payload: Error("tool execution failed: %v", r)}
			posted = false
		}
	}()

	switch call := inv.(type) {
	case FetchComments:
		comments, err := h.FetchComments(ctx)
		if err != nil {
			log.With("error", err).Error("Failed to fetch comments")
			return Outcome{ID: call.ID, Payload: ErrorWithContext(err, nil)}, false
		}
		rendered := make([]map[string]any, 0, len(comments))
		for _, c := range comments {
			rendered = append(rendered, map[string]any{
				"id":         c.ID,
				"user":       c.Author,
				"body":       c.Body,
				"created_at": c.CreatedAt.Format(time.RFC3339),
				"updated_at": c.UpdatedAt.Format(time.RFC3339),
			})
		}
		return Outcome{ID: call.ID, Payload: map[string]any{"comments": rendered}}, false

	case FetchChangedFiles:
		files, err := h.FetchChangedFiles(ctx)
		if err != nil {
			log.With("error", err).Error("Failed to fetch changed files")
			return Outcome{ID: call.ID, Payload: ErrorWithContext(err, nil)}, false
		}
		rendered := make([]map[string]any, 0, len(files))
		for _, f := range files {
			rendered = append(rendered, map[string]any{
				"filename":  f.Path,
				"status":    f.Status,
				"additions": f.Additions,
				"deletions": f.Deletions,
				"content":   f.Content,
				"patch":     f.Patch,
			})
		}
		return Outcome{ID: call.ID, Payload: map[string]any{"files": rendered}}, false

	case PostComment:
		comment, err := h.PostComment(ctx, call.Body)
		if err != nil {
			log.With("error", err).Error("Failed to post comment")
			return Outcome{ID: call.ID, Payload: ErrorWithContext(err, nil)}, false
		}
		log.With("url", comment.URL).Info("Posted comment via tool call")
		return Outcome{ID: call.ID, Payload: map[string]any{
			"success":    true,
			"comment_id": comment.ID,
			"url":        comment.URL,
		}}, true

	case ModifyFile:
		collector.Queue(mutation.Pending{Path: call.Path, Content: call.Content, Note: call.Note})
		log.With("path", call.Path).With("size", len(call.Content)).Info("Queued file modification")
		return Outcome{ID: call.ID, Payload: map[string]any{
			"success":     true,
			"message":     fmt.Sprintf("File modification queued: %s", call.Path),
			"description": call.Note,
		}}, false

	default:
		// Unreachable for invocations produced by Decode.
		return Outcome{ID: inv.CallID(), Payload: Error("unhandled invocation %T", inv)}, false
	}
}
