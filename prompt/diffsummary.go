/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package prompt

import (
	"fmt"
	"strings"

	"github.com/waigani/diffparser"
)

// SummarizeDiff renders a compact per-hunk line-range summary of a file's
// unified diff, e.g. "10-24, 87-91". The host's patch field omits the file
// header lines, so they are synthesized before parsing. An unparseable
// patch yields an empty summary.
func SummarizeDiff(path, patch string) string {
	if strings.TrimSpace(patch) == "" {
		return ""
	}

	full := fmt.Sprintf("diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n%s", path, path, path, path, patch)
	diff, err := diffparser.Parse(full)
	if err != nil || len(diff.Files) == 0 {
		return ""
	}

	var ranges []string
	for _, hunk := range diff.Files[0].Hunks {
		if hunk == nil {
			continue
		}
		start := hunk.NewRange.Start
		end := start + hunk.NewRange.Length - 1
		if hunk.NewRange.Length <= 0 {
			end = start
		}
		ranges = append(ranges, fmt.Sprintf("%d-%d", start, end))
	}
	return strings.Join(ranges, ", ")
}
