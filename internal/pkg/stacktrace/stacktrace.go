// Package stacktrace trims raw goroutine stacks to the frames of this module.
package stacktrace

import "strings"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame in
// stack that belongs to an internal package, outermost call last.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		frame, _, _ := strings.Cut(line, " ")
		if _, after, ok := strings.Cut(frame, "/internal/"); ok {
			paths = append(paths, "internal/"+after)
		}
	}

	return paths
}
