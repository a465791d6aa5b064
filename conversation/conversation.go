/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package conversation drives the bounded tool-calling exchange with the
// model: send context and tool declarations, dispatch requested tool calls,
// feed the outcomes back, and repeat up to the round bound before forcing
// termination.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"chainguard.dev/reviewbot/mutation"
	"chainguard.dev/reviewbot/request"
	"chainguard.dev/reviewbot/tools"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// Params configures one conversation run.
type Params struct {
	System string
	Prompt string
	Tools  []anthropic.ToolUnionParam

	Model       string
	MaxTokens   int64
	Temperature float64
	// ThinkingBudgetTokens enables extended thinking when positive.
	ThinkingBudgetTokens int64

	// MaxToolRounds bounds the number of tool-dispatch rounds, so the model
	// is called at most MaxToolRounds+1 times. Zero means the default of 2.
	MaxToolRounds int

	// Mode selects the fallback sentence when the terminal response carries
	// no text block.
	Mode request.Mode
}

// Result is what one conversation produced.
type Result struct {
	// Text is the final natural-language response, never empty.
	Text string
	// Mutations are the queued file changes in emission order.
	Mutations []mutation.Pending
	// CommentPosted is true when a create_pr_comment call succeeded during
	// the conversation.
	CommentPosted bool
}

const defaultMaxToolRounds = 2

// FallbackText is the fixed sentence substituted when the terminal response
// contains no text block.
func FallbackText(mode request.Mode) string {
	if mode == request.ModeIssue {
		return "I've gathered information about your request. Please let me know if you need more specific analysis or have additional questions."
	}
	return "I've analyzed the code changes. Please let me know if you need more specific feedback or have questions."
}

// Conversation wraps the model client. The send path is a func field so
// tests can substitute a scripted model.
type Conversation struct {
	send        func(ctx context.Context, params anthropic.MessageNewParams) (anthropic.Message, error)
	retryConfig RetryConfig
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *Conversation) { c.retryConfig = cfg }
}

// WithSender replaces the model send path. Used by tests.
func WithSender(send func(ctx context.Context, params anthropic.MessageNewParams) (anthropic.Message, error)) Option {
	return func(c *Conversation) { c.send = send }
}

// New builds a Conversation over the given client. Requests stream and
// accumulate so long responses do not hit transport idle limits.
func New(client anthropic.Client, opts ...Option) *Conversation {
	c := &Conversation{
		retryConfig: DefaultRetryConfig(),
		send: func(ctx context.Context, params anthropic.MessageNewParams) (anthropic.Message, error) {
			stream := client.Messages.NewStreaming(ctx, params)
			var msg anthropic.Message
			for stream.Next() {
				event := stream.Current()
				if err := msg.Accumulate(event); err != nil {
					return msg, fmt.Errorf("failed to accumulate event: %w", err)
				}
			}
			if err := stream.Err(); err != nil {
				return msg, err
			}
			return msg, nil
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the conversation to termination. Tool outcomes are returned
// to the model in invocation order, bundled into one reply per round. On a
// model request failure the error is returned and any queued side effects
// are discarded by the caller.
func (c *Conversation) Run(ctx context.Context, p Params, h tools.Handlers) (Result, error) {
	log := clog.FromContext(ctx)

	maxRounds := p.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.Model),
		MaxTokens: p.MaxTokens,
		Tools:     p.Tools,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(p.Prompt),
			},
		}},
	}
	params.Temperature = anthropic.Float(p.Temperature)
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.System}}
	}
	if p.ThinkingBudgetTokens > 0 {
		// Temperature must be 1.0 when thinking is enabled.
		params.Temperature = anthropic.Float(1.0)
		params.Thinking = anthropic.ThinkingConfigParamUnion{
			OfEnabled: &anthropic.ThinkingConfigEnabledParam{
				BudgetTokens: p.ThinkingBudgetTokens,
			},
		}
	}

	collector := &mutation.Collector{}
	commentPosted := false

	for round := 0; ; round++ {
		message, err := retryWithBackoff(ctx, c.retryConfig, "send_message", isRetryableModelError, func() (anthropic.Message, error) {
			return c.send(ctx, params)
		})
		if err != nil {
			return Result{}, fmt.Errorf("model request: %w", err)
		}

		if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
			log.With("input_tokens", message.Usage.InputTokens).
				With("output_tokens", message.Usage.OutputTokens).
				Info("Model usage")
		}

		var toolUses []anthropic.ToolUseBlock
		textContent := ""
		for _, content := range message.Content {
			switch content.Type {
			case "text":
				if textContent == "" {
					textContent = content.Text
				}
			case "tool_use":
				toolUses = append(toolUses, anthropic.ToolUseBlock{
					ID:    content.ID,
					Name:  content.Name,
					Input: content.Input,
				})
			}
		}

		if len(toolUses) > 0 && round < maxRounds {
			params.Messages = append(params.Messages, message.ToParam())

			results := make([]anthropic.ContentBlockParamUnion, 0, len(toolUses))
			for _, toolUse := range toolUses {
				log.With("tool", toolUse.Name).With("id", toolUse.ID).Info("Executing tool call")

				outcome := c.dispatch(ctx, toolUse, h, collector, &commentPosted)
				results = append(results, toolResultBlock(outcome))
			}

			params.Messages = append(params.Messages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: results,
			})
			continue
		}

		if len(toolUses) > 0 {
			log.With("rounds", round).Warn("Round bound reached with pending tool calls, terminating")
		}

		if textContent == "" {
			log.Warn("Final response contains no text block, using fallback text")
			textContent = FallbackText(p.Mode)
		}

		return Result{
			Text:          textContent,
			Mutations:     collector.Pending(),
			CommentPosted: commentPosted,
		}, nil
	}
}

// dispatch decodes and executes one tool call, converting every failure mode
// into an error outcome so the conversation continues.
func (c *Conversation) dispatch(ctx context.Context, toolUse anthropic.ToolUseBlock, h tools.Handlers, collector *mutation.Collector, commentPosted *bool) tools.Outcome {
	log := clog.FromContext(ctx)

	inv, errResp := tools.Decode(toolUse)
	if errResp != nil {
		log.With("tool", toolUse.Name).With("error", errResp["error"]).Error("Rejected tool call")
		return tools.Outcome{ID: toolUse.ID, Payload: errResp}
	}

	outcome, posted := tools.Dispatch(ctx, inv, h, collector)
	if posted {
		*commentPosted = true
	}
	return outcome
}

// toolResultBlock renders an outcome as the tool result content block fed
// back to the model.
func toolResultBlock(outcome tools.Outcome) anthropic.ContentBlockParamUnion {
	payload, err := json.Marshal(outcome.Payload)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error":"failed to marshal tool result: %v"}`, err))
	}
	return anthropic.ContentBlockParamUnion{
		OfToolResult: &anthropic.ToolResultBlockParam{
			ToolUseID: outcome.ID,
			Content: []anthropic.ToolResultBlockParamContentUnion{{
				OfText: &anthropic.TextBlockParam{Text: string(payload)},
			}},
		},
	}
}
