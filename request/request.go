/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package request defines the identity of a single reviewbot run: what was
// asked, what kind of action it is, and which pull request or issue it
// targets. A Request is constructed once from the environment and never
// mutated afterwards.
package request

import "fmt"

// Kind is the action requested of the bot.
type Kind string

const (
	KindReview  Kind = "review"
	KindPlan    Kind = "plan"
	KindFix     Kind = "fix"
	KindPropose Kind = "propose"
)

// Known reports whether k is one of the action kinds the bot understands.
// Unknown kinds still flow through the run so the publisher can surface a
// diagnostic rather than aborting.
func (k Kind) Known() bool {
	switch k {
	case KindReview, KindPlan, KindFix, KindPropose:
		return true
	}
	return false
}

// Mode is the interaction surface the run operates on.
type Mode string

const (
	ModePullRequest Mode = "pull-request"
	ModeIssue       Mode = "issue"
)

// ModeFromEvent maps a GitHub event name to the initial interaction mode.
// An issue_comment event may later flip to pull-request mode when the host
// reports the issue is backed by a pull request.
func ModeFromEvent(eventName string) Mode {
	switch eventName {
	case "issues", "issue_comment":
		return ModeIssue
	default:
		return ModePullRequest
	}
}

// Request carries everything that identifies one run.
type Request struct {
	Kind    Kind
	Mode    Mode
	Command string

	Owner  string
	Repo   string
	Number int

	HeadRef string
	BaseRef string
}

// Target renders the owner/repo#number reference for logs.
func (r Request) Target() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}
