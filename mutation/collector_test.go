/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mutation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollectorOrder(t *testing.T) {
	c := &Collector{}
	c.Queue(Pending{Path: "a.go", Content: "one"})
	c.Queue(Pending{Path: "b.go", Content: "two"})
	c.Queue(Pending{Path: "a.go", Content: "three"})

	want := []Pending{{
		Path: "a.go", Content: "one",
	}, {
		Path: "b.go", Content: "two",
	}, {
		Path: "a.go", Content: "three",
	}}

	if diff := cmp.Diff(want, c.Pending()); diff != "" {
		t.Errorf("Pending() mismatch (-want +got):\n%s", diff)
	}
	if got := c.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestCollectorEmpty(t *testing.T) {
	c := &Collector{}
	if got := c.Pending(); got != nil {
		t.Errorf("Pending() on empty collector = %v, want nil", got)
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}
