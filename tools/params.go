/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/anthropics/anthropic-sdk-go"
)

// decodeArgs deserializes a tool use block's input JSON once.
func decodeArgs(block anthropic.ToolUseBlock) (map[string]any, map[string]any) {
	var args map[string]any
	if len(block.Input) > 0 {
		if err := json.Unmarshal(block.Input, &args); err != nil {
			return nil, Error("failed to parse tool input: %v", err)
		}
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// extract pulls a required parameter from args with type safety.
func extract[T any](args map[string]any, name string) (T, error) {
	var zero T

	value, exists := args[name]
	if !exists {
		return zero, fmt.Errorf("%s parameter is required", name)
	}

	if v, ok := value.(T); ok {
		return v, nil
	}

	if v, ok := convertNumeric[T](value); ok {
		return v, nil
	}

	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, value)
}

// convertNumeric handles common JSON numeric conversions (float64 -> int kinds).
func convertNumeric[T any](value any) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case int:
		if floatVal, ok := value.(float64); ok {
			return any(int(floatVal)).(T), true
		}
	case int64:
		if floatVal, ok := value.(float64); ok {
			return any(int64(floatVal)).(T), true
		}
	}
	return zero, false
}

// Error creates an error response payload.
func Error(format string, args ...any) map[string]any {
	return map[string]any{
		"error": fmt.Sprintf(format, args...),
	}
}

// ErrorWithContext creates an error response payload with additional context fields.
func ErrorWithContext(err error, context map[string]any) map[string]any {
	response := map[string]any{
		"error": err.Error(),
	}
	maps.Copy(response, context)
	return response
}
