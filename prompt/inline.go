/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Limits bounds how much artifact content is inlined into the model request.
// Zero values fall back to the defaults.
type Limits struct {
	// PerFileBytes caps one file's inlined content.
	PerFileBytes int
	// TotalBytes caps the sum of all inlined content.
	TotalBytes int
}

const (
	defaultPerFileBytes = 64 * 1024
	defaultTotalBytes   = 256 * 1024

	truncationMarker = "… [content truncated]"
)

func (l Limits) withDefaults() Limits {
	if l.PerFileBytes <= 0 {
		l.PerFileBytes = defaultPerFileBytes
	}
	if l.TotalBytes <= 0 {
		l.TotalBytes = defaultTotalBytes
	}
	return l
}

// InlineFiles renders every artifact's diff and full content under code
// fences, for appending after the context. Content beyond the per-file or
// total byte budget is truncated with a marker; the diff and its hunk
// summary still tell the model where the changes are.
func InlineFiles(in Inputs, limits Limits) string {
	limits = limits.withDefaults()

	var b strings.Builder
	b.WriteString("\n\n## File Contents:\n\n")

	budget := limits.TotalBytes
	for _, f := range in.Files {
		fmt.Fprintf(&b, "### %s\n\n", f.Path)

		if f.Patch != "" {
			if summary := SummarizeDiff(f.Path, f.Patch); summary != "" {
				fmt.Fprintf(&b, "**Changed lines:** %s\n\n", summary)
			}
			fmt.Fprintf(&b, "**Diff:**\n```diff\n%s\n```\n\n", f.Patch)
		}

		content, truncated := clip(f.Content, min(limits.PerFileBytes, budget))
		budget -= len(content)
		fmt.Fprintf(&b, "**Full Content:**\n```%s\n%s", langFence(f.Path), content)
		if truncated {
			fmt.Fprintf(&b, "\n%s", truncationMarker)
		}
		b.WriteString("\n```\n\n")
	}
	return b.String()
}

// clip cuts s at the byte limit, backing up to the previous newline so a
// fence never ends mid-line.
func clip(s string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}
	if len(s) <= limit {
		return s, false
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return cut, true
}

// langFence returns the language identifier for a file's code fence.
func langFence(path string) string {
	lang, ok := langByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return ""
	}
	return lang
}

var langByExt = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".jsx":  "jsx",
	".tsx":  "tsx",
	".java": "java",
	".cpp":  "cpp",
	".c":    "c",
	".h":    "c",
	".hpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".rb":   "ruby",
	".go":   "go",
	".rs":   "rust",
	".sh":   "bash",
	".yml":  "yaml",
	".yaml": "yaml",
	".json": "json",
	".xml":  "xml",
	".html": "html",
	".css":  "css",
	".scss": "scss",
	".sql":  "sql",
	".md":   "markdown",
}
