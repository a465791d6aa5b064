/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package mutation accumulates the file changes a conversation requests and
// recovers changes embedded in free text when no tool calls were made.
package mutation

// Pending is a queued, not-yet-applied change to one file.
type Pending struct {
	// Path is the target path relative to the working tree root.
	Path string
	// Content is the complete new content for the file.
	Content string
	// Note is the model's justification for the change.
	Note string
}

// Collector accumulates pending mutations in emission order. It is threaded
// explicitly through tool dispatch rather than held as ambient state, and
// duplicate paths are kept: applying in order means the last write wins on
// disk while earlier entries remain visible in logs.
type Collector struct {
	pending []Pending
}

// Queue appends a mutation.
func (c *Collector) Queue(p Pending) {
	c.pending = append(c.pending, p)
}

// Pending returns the queued mutations in emission order.
func (c *Collector) Pending() []Pending {
	return c.pending
}

// Len returns the number of queued mutations.
func (c *Collector) Len() int {
	return len(c.pending)
}
