/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package prompt

import "testing"

func TestSummarizeDiff(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		want  string
	}{{
		name: "single hunk",
		patch: `@@ -10,4 +10,6 @@ func divide(a, b int) int {
 	if b == 0 {
+		return 0
+	}
 	return a / b
 }`,
		want: "10-15",
	}, {
		name: "two hunks",
		patch: `@@ -1,3 +1,4 @@
 package main
+
 import "fmt"
@@ -20,3 +21,4 @@ func main() {
 	fmt.Println("hi")
+	fmt.Println("bye")
 }`,
		want: "1-4, 21-24",
	}, {
		name:  "empty patch",
		patch: "",
		want:  "",
	}, {
		name:  "whitespace only",
		patch: "   \n",
		want:  "",
	}, {
		name:  "not a diff",
		patch: "this is not a unified diff",
		want:  "",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeDiff("main.go", tt.patch); got != tt.want {
				t.Errorf("SummarizeDiff() = %q, want %q", got, tt.want)
			}
		})
	}
}
