/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainguard.dev/reviewbot/host"
	"chainguard.dev/reviewbot/mutation"
	"github.com/google/go-cmp/cmp"
)

func TestDispatchFetchComments(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := Handlers{
		FetchComments: func(ctx context.Context) ([]host.Comment, error) {
			return []host.Comment{{
				ID:        7,
				Author:    "octocat",
				Body:      "@reviewbot review this",
				CreatedAt: created,
				UpdatedAt: created,
			}}, nil
		},
	}

	outcome, posted := Dispatch(context.Background(), FetchComments{ID: "t1"}, h, &mutation.Collector{})
	if posted {
		t.Error("posted = true, want false")
	}
	if outcome.ID != "t1" {
		t.Errorf("outcome ID = %q, want t1", outcome.ID)
	}

	want := map[string]any{
		"comments": []map[string]any{{
			"id":         int64(7),
			"user":       "octocat",
			"body":       "@reviewbot review this",
			"created_at": "2026-03-01T12:00:00Z",
			"updated_at": "2026-03-01T12:00:00Z",
		}},
	}
	if diff := cmp.Diff(want, outcome.Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchFetchCommentsError(t *testing.T) {
	h := Handlers{
		FetchComments: func(ctx context.Context) ([]host.Comment, error) {
			return nil, errors.New("boom")
		},
	}

	outcome, posted := Dispatch(context.Background(), FetchComments{ID: "t1"}, h, &mutation.Collector{})
	if posted {
		t.Error("posted = true, want false")
	}
	if _, ok := outcome.Payload["error"]; !ok {
		t.Errorf("payload = %v, want an error key", outcome.Payload)
	}
}

func TestDispatchFetchChangedFiles(t *testing.T) {
	h := Handlers{
		FetchChangedFiles: func(ctx context.Context) ([]host.ChangedFile, error) {
			return []host.ChangedFile{{
				Path:      "app.py",
				Status:    "modified",
				Additions: 3,
				Deletions: 1,
				Patch:     "@@ -1 +1,3 @@",
				Content:   "print('hello')",
			}}, nil
		},
	}

	outcome, posted := Dispatch(context.Background(), FetchChangedFiles{ID: "t2"}, h, &mutation.Collector{})
	if posted {
		t.Error("posted = true, want false")
	}

	want := map[string]any{
		"files": []map[string]any{{
			"filename":  "app.py",
			"status":    "modified",
			"additions": 3,
			"deletions": 1,
			"content":   "print('hello')",
			"patch":     "@@ -1 +1,3 @@",
		}},
	}
	if diff := cmp.Diff(want, outcome.Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchPostComment(t *testing.T) {
	var gotBody string
	h := Handlers{
		PostComment: func(ctx context.Context, body string) (*host.Comment, error) {
			gotBody = body
			return &host.Comment{ID: 99, URL: "https://example.com/c/99"}, nil
		},
	}

	outcome, posted := Dispatch(context.Background(), PostComment{ID: "t3", Body: "summary"}, h, &mutation.Collector{})
	if !posted {
		t.Error("posted = false, want true")
	}
	if gotBody != "summary" {
		t.Errorf("handler got body %q, want summary", gotBody)
	}
	if got, ok := outcome.Payload["success"].(bool); !ok || !got {
		t.Errorf("payload success = %v, want true", outcome.Payload["success"])
	}
	if got := outcome.Payload["url"]; got != "https://example.com/c/99" {
		t.Errorf("payload url = %v", got)
	}
}

func TestDispatchPostCommentError(t *testing.T) {
	h := Handlers{
		PostComment: func(ctx context.Context, body string) (*host.Comment, error) {
			return nil, errors.New("forbidden")
		},
	}

	outcome, posted := Dispatch(context.Background(), PostComment{ID: "t3", Body: "x"}, h, &mutation.Collector{})
	if posted {
		t.Error("posted = true after failed post, want false")
	}
	if got, _ := outcome.Payload["error"].(string); got != "forbidden" {
		t.Errorf("payload error = %q, want forbidden", got)
	}
}

func TestDispatchModifyFileQueues(t *testing.T) {
	collector := &mutation.Collector{}

	outcome, posted := Dispatch(context.Background(), ModifyFile{
		ID:      "t4",
		Path:    "app.py",
		Content: "print('fixed')",
		Note:    "fix divide by zero",
	}, Handlers{}, collector)
	if posted {
		t.Error("posted = true, want false")
	}
	if got, ok := outcome.Payload["success"].(bool); !ok || !got {
		t.Errorf("payload success = %v, want true", outcome.Payload["success"])
	}

	want := []mutation.Pending{{
		Path:    "app.py",
		Content: "print('fixed')",
		Note:    "fix divide by zero",
	}}
	if diff := cmp.Diff(want, collector.Pending()); diff != "" {
		t.Errorf("collector mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	h := Handlers{
		FetchComments: func(ctx context.Context) ([]host.Comment, error) {
			panic("handler bug")
		},
	}

	outcome, posted := Dispatch(context.Background(), FetchComments{ID: "t5"}, h, &mutation.Collector{})
	if posted {
		t.Error("posted = true, want false")
	}
	if outcome.ID != "t5" {
		t.Errorf("outcome ID = %q, want t5", outcome.ID)
	}
	if _, ok := outcome.Payload["error"]; !ok {
		t.Errorf("payload = %v, want an error key", outcome.Payload)
	}
}
