/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import "github.com/anthropics/anthropic-sdk-go"

// Invocation is a closed tagged-variant representation of a model-issued
// tool call. Adding a tool means adding a variant here, a case to Decode,
// and a case to Dispatch, so the compiler keeps the three in sync.
type Invocation interface {
	// CallID is the identifier pairing this invocation with its outcome.
	CallID() string

	isInvocation()
}

// FetchComments requests the prior comments on the thread.
type FetchComments struct {
	ID string
}

// FetchChangedFiles requests the changed artifacts of the pull request.
type FetchChangedFiles struct {
	ID string
}

// PostComment requests posting a new comment with the given body.
type PostComment struct {
	ID   string
	Body string
}

// ModifyFile requests overwriting one file with complete new content.
type ModifyFile struct {
	ID      string
	Path    string
	Content string
	Note    string
}

func (i FetchComments) CallID() string     { return i.ID }
func (i FetchChangedFiles) CallID() string { return i.ID }
func (i PostComment) CallID() string       { return i.ID }
func (i ModifyFile) CallID() string        { return i.ID }

func (FetchComments) isInvocation()     {}
func (FetchChangedFiles) isInvocation() {}
func (PostComment) isInvocation()       {}
func (ModifyFile) isInvocation()        {}

// Decode converts a wire tool use block into a typed invocation. A non-nil
// second return is an error payload to hand straight back to the model; the
// conversation continues either way.
func Decode(block anthropic.ToolUseBlock) (Invocation, map[string]any) {
	switch block.Name {
	case ToolFetchComments:
		return FetchComments{ID: block.ID}, nil

	case ToolFetchChangedFiles:
		return FetchChangedFiles{ID: block.ID}, nil

	case ToolPostComment:
		args, errResp := decodeArgs(block)
		if errResp != nil {
			return nil, errResp
		}
		body, err := extract[string](args, "body")
		if err != nil {
			return nil, Error("%s", err)
		}
		return PostComment{ID: block.ID, Body: body}, nil

	case ToolModifyFile:
		args, errResp := decodeArgs(block)
		if errResp != nil {
			return nil, errResp
		}
		path, err := extract[string](args, "file_path")
		if err != nil {
			return nil, Error("%s", err)
		}
		content, err := extract[string](args, "new_content")
		if err != nil {
			return nil, Error("%s", err)
		}
		note, err := extract[string](args, "description")
		if err != nil {
			return nil, Error("%s", err)
		}
		return ModifyFile{ID: block.ID, Path: path, Content: content, Note: note}, nil

	default:
		return nil, Error("unknown tool: %q", block.Name)
	}
}
