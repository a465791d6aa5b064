/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/go-cmp/cmp"
)

func toolUse(id, name, input string) anthropic.ToolUseBlock {
	return anthropic.ToolUseBlock{
		ID:    id,
		Name:  name,
		Input: json.RawMessage(input),
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		block   anthropic.ToolUseBlock
		want    Invocation
		wantErr string
	}{{
		name:  "fetch comments",
		block: toolUse("t1", ToolFetchComments, `{}`),
		want:  FetchComments{ID: "t1"},
	}, {
		name:  "fetch changed files",
		block: toolUse("t2", ToolFetchChangedFiles, ``),
		want:  FetchChangedFiles{ID: "t2"},
	}, {
		name:  "post comment",
		block: toolUse("t3", ToolPostComment, `{"body": "looks good"}`),
		want:  PostComment{ID: "t3", Body: "looks good"},
	}, {
		name:    "post comment missing body",
		block:   toolUse("t4", ToolPostComment, `{}`),
		wantErr: "body parameter is required",
	}, {
		name:    "post comment wrong type",
		block:   toolUse("t5", ToolPostComment, `{"body": 7}`),
		wantErr: "body parameter must be of type string",
	}, {
		name:  "modify file",
		block: toolUse("t6", ToolModifyFile, `{"file_path": "app.py", "new_content": "print(1)", "description": "fix"}`),
		want:  ModifyFile{ID: "t6", Path: "app.py", Content: "print(1)", Note: "fix"},
	}, {
		name:    "modify file missing content",
		block:   toolUse("t7", ToolModifyFile, `{"file_path": "app.py", "description": "fix"}`),
		wantErr: "new_content parameter is required",
	}, {
		name:    "unknown tool",
		block:   toolUse("t8", "delete_repo", `{}`),
		wantErr: "unknown tool",
	}, {
		name:    "invalid input json",
		block:   toolUse("t9", ToolPostComment, `{"body":`),
		wantErr: "failed to parse tool input",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errResp := Decode(tt.block)

			if tt.wantErr != "" {
				if errResp == nil {
					t.Fatalf("Decode() = %v, want error containing %q", got, tt.wantErr)
				}
				msg, _ := errResp["error"].(string)
				if !strings.Contains(msg, tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", msg, tt.wantErr)
				}
				return
			}

			if errResp != nil {
				t.Fatalf("Decode() unexpected error: %v", errResp)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
			if got.CallID() != tt.block.ID {
				t.Errorf("CallID() = %q, want %q", got.CallID(), tt.block.ID)
			}
		})
	}
}
