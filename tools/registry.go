/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tools declares the fixed set of capabilities the model may call
// and dispatches its invocations to local handlers.
package tools

import (
	"encoding/json"
	"fmt"

	"chainguard.dev/reviewbot/request"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// Wire names of the declared tools.
const (
	ToolFetchComments     = "get_pr_comments"
	ToolFetchChangedFiles = "get_pr_files"
	ToolPostComment       = "create_pr_comment"
	ToolModifyFile        = "modify_file"
)

// emptyInput is the schema source for tools that take no arguments. It must
// be a named type: the reflector's ExpandedStruct mode looks the type up in
// its definitions by name, and an anonymous struct has none.
type emptyInput struct{}

// postCommentInput is the schema source for create_pr_comment.
type postCommentInput struct {
	Body string `json:"body" jsonschema:"required,description=The comment body"`
}

// modifyFileInput is the schema source for modify_file.
type modifyFileInput struct {
	Path    string `json:"file_path" jsonschema:"required,description=Path to the file to modify"`
	Content string `json:"new_content" jsonschema:"required,description=The complete new content for the file"`
	Note    string `json:"description" jsonschema:"required,description=Description of what was fixed"`
}

// Declarations returns the ordered tool set for an action kind. The set is
// fixed: comment and file reads, comment creation, and, only for fix
// actions, file modification. Deterministic for a given kind.
func Declarations(kind request.Kind) []anthropic.ToolUnionParam {
	decls := []anthropic.ToolUnionParam{
		declare(ToolFetchComments, "Get all comments on the current PR for conversation context", emptyInput{}),
		declare(ToolFetchChangedFiles, "Get files changed in the current PR", emptyInput{}),
		declare(ToolPostComment, "Create a comment on the current PR", postCommentInput{}),
	}
	if kind == request.KindFix {
		decls = append(decls, declare(ToolModifyFile, "Modify a file with new content to fix issues", modifyFileInput{}))
	}
	return decls
}

// declare builds one tool declaration, reflecting the input schema from the
// given struct.
func declare(name, description string, input any) anthropic.ToolUnionParam {
	properties, required := reflectSchema(input)
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        name,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type:       "object",
				Properties: properties,
				Required:   required,
			},
		},
	}
}

// reflector is configured the way our tool schemas need: requiredness comes
// from jsonschema tags and structs are expanded inline without $ref.
var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
}

// reflectSchema derives the properties map and required list for a tool
// input struct. Tool declarations are built at startup from types we own, so
// a reflection failure is a programmer error and panics.
func reflectSchema(input any) (map[string]any, []string) {
	schema := reflector.Reflect(input)

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("marshaling tool schema: %v", err))
	}
	var asMap struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		panic(fmt.Sprintf("unmarshaling tool schema: %v", err))
	}
	if asMap.Properties == nil {
		asMap.Properties = map[string]any{}
	}
	if asMap.Required == nil {
		asMap.Required = []string{}
	}
	return asMap.Properties, asMap.Required
}
