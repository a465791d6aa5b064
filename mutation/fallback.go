/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/chainguard-dev/clog"
)

// changeSet is the structured-data block the model may embed in its final
// text when it was not given (or did not use) the modify_file tool.
type changeSet struct {
	HasChanges bool         `json:"has_changes"`
	Files      []fileChange `json:"files"`
}

type fileChange struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	// Action is "modify" (overwrite an existing path) or "create" (new
	// path, parent directories made as needed). The publisher treats both
	// the same way, but unknown actions are rejected.
	Action string `json:"action"`
}

// FromResponseText scans the final response text for a single fenced JSON
// block describing file changes and returns them as pending mutations. It is
// the fallback path, used only when tool dispatch collected nothing. Parse
// failures and absent blocks mean "no mutations", never an error.
func FromResponseText(ctx context.Context, text string) []Pending {
	log := clog.FromContext(ctx)

	block := ExtractJSON(text)
	if block == "" || !strings.HasPrefix(strings.TrimSpace(block), "{") {
		return nil
	}

	var changes changeSet
	if err := json.Unmarshal([]byte(block), &changes); err != nil {
		log.With("error", err).Warn("Failed to parse changes block from response")
		return nil
	}
	if !changes.HasChanges {
		return nil
	}

	var pending []Pending
	for _, fc := range changes.Files {
		switch fc.Action {
		case "modify", "create":
		default:
			log.With("path", fc.Path).With("action", fc.Action).Warn("Skipping change with unknown action")
			continue
		}
		if fc.Path == "" {
			log.Warn("Skipping change with empty path")
			continue
		}
		pending = append(pending, Pending{
			Path:    fc.Path,
			Content: fc.Content,
			Note:    "declared in response changes block",
		})
	}
	return pending
}

// ExtractJSON extracts JSON content from a text response that may contain
// markdown code blocks. It looks for content between ```json and ``` markers,
// or returns the input trimmed if no markers are found.
func ExtractJSON(responseText string) string {
	lines := strings.Split(responseText, "\n")
	var jsonBuffer bytes.Buffer
	inJSONBlock := false
	foundJSON := false

	for _, line := range lines {
		if !inJSONBlock && line == "```json" {
			inJSONBlock = true
			foundJSON = true
			continue
		}

		if inJSONBlock && line == "```" {
			break
		}

		if inJSONBlock {
			if jsonBuffer.Len() > 0 {
				jsonBuffer.WriteString("\n")
			}
			jsonBuffer.WriteString(line)
		}
	}

	if foundJSON {
		return strings.TrimSpace(jsonBuffer.String())
	}

	// Sometimes models wrap the whole response in a fence instead of
	// embedding one on its own lines.
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") && strings.HasSuffix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		return strings.TrimSpace(responseText)
	}
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	return strings.TrimSpace(responseText)
}
