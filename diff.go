// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import "bytes"

// Unbounded is passed as the bound to FirstDiff to compare whole sequences.
const Unbounded = -1

// FirstDiff reports the index of the first position at which a and b
// differ, considering only the first bound positions, or all of them if
// bound < 0. Where one sequence is shorter than the other, its missing
// elements differ from anything in the other. If no difference is found,
// FirstDiff reports false.
func FirstDiff[T comparable, Slice ~[]T](a, b Slice, bound int) (int, bool) {
	return FirstDiffFunc(a, b, bound, func(x, y T) bool { return x == y })
}

// FirstDiffFunc is as FirstDiff, but uses eq to compare elements.
func FirstDiffFunc[T any, Slice ~[]T](a, b Slice, bound int, eq func(x, y T) bool) (int, bool) {
	n := max(len(a), len(b))
	if bound >= 0 {
		n = min(n, bound)
	}
	for i := range n {
		if i >= len(a) || i >= len(b) || !eq(a[i], b[i]) {
			return i, true
		}
	}
	return 0, false
}

// divergence reports the position before which an edit from old to cur
// leaves the document unchanged, looking no further than the frontier.
// Checkpoints at or after the returned position are invalidated by the
// edit. If the edit does not touch the document before the frontier,
// divergence reports false.
func divergence(old, cur [][]byte, frontier Position) (Position, bool) {
	line, ok := FirstDiffFunc(old, cur, frontier.Line+1, bytes.Equal)
	if !ok {
		return Position{}, false
	}

	var col int
	if line < len(old) && line < len(cur) {
		bound := Unbounded
		if line == frontier.Line {
			bound = frontier.Col
		}
		col, ok = FirstDiff(old[line], cur[line], bound)
		if !ok {
			return Position{}, false
		}
	} else if len(cur) == 0 {
		line, col = 0, 0
	} else {
		// The line that differs was removed: blame the end of the document.
		line = len(cur) - 1
		col = len(cur[line])
	}
	return Position{Line: line, Col: col + 1}, true
}
