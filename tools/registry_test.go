/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"testing"

	"chainguard.dev/reviewbot/request"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func declaredNames(kind request.Kind) []string {
	var names []string
	for _, d := range Declarations(kind) {
		names = append(names, d.OfTool.Name)
	}
	return names
}

func TestDeclarations(t *testing.T) {
	base := []string{ToolFetchComments, ToolFetchChangedFiles, ToolPostComment}

	tests := []struct {
		kind request.Kind
		want []string
	}{{
		kind: request.KindReview,
		want: base,
	}, {
		kind: request.KindPlan,
		want: base,
	}, {
		kind: request.KindPropose,
		want: base,
	}, {
		kind: request.KindFix,
		want: append(append([]string{}, base...), ToolModifyFile),
	}, {
		kind: request.Kind("bogus"),
		want: base,
	}}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, declaredNames(tt.kind)); diff != "" {
				t.Errorf("Declarations(%q) names mismatch (-want +got):\n%s", tt.kind, diff)
			}
		})
	}
}

func TestDeclarationSchemas(t *testing.T) {
	for _, d := range Declarations(request.KindFix) {
		tool := d.OfTool
		require.EqualValues(t, "object", tool.InputSchema.Type, tool.Name)

		switch tool.Name {
		case ToolPostComment:
			require.Equal(t, []string{"body"}, tool.InputSchema.Required)
		case ToolModifyFile:
			props, ok := tool.InputSchema.Properties.(map[string]any)
			require.True(t, ok, "properties is %T, want map", tool.InputSchema.Properties)
			for _, field := range []string{"file_path", "new_content", "description"} {
				require.Contains(t, props, field)
			}
			require.Len(t, tool.InputSchema.Required, 3)
		}
	}
}

func TestDeclarationsDeterministic(t *testing.T) {
	first := declaredNames(request.KindFix)
	for range 5 {
		if diff := cmp.Diff(first, declaredNames(request.KindFix)); diff != "" {
			t.Fatalf("Declarations order changed between calls (-want +got):\n%s", diff)
		}
	}
}
