// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"fmt"

	"go4.org/mem"
)

// A delimiter describes a block of text bounded by an open and a close
// marker. If open == close the block does not nest. Blocks listed in inner
// are skipped whole when they begin before the next open or close marker.
type delimiter struct {
	open, close string
	inner       []delimiter
}

var (
	stringDelim    = delimiter{open: `"`, close: `"`}
	commentDelim   = delimiter{open: "(*", close: "*)"}
	attributeDelim = delimiter{open: "#[", close: "]", inner: []delimiter{stringDelim}}
)

func (d delimiter) nests() bool { return d.open != d.close }

// skipBlock skips the block delimited by d that opens at pos, and returns the
// position just after its matching close marker. If the document ends before
// the block is closed, skipBlock reports an *UnmatchedError naming the
// opening marker at pos, even if the failure occurred in a nested block.
//
// Precondition: lines[pos.Line] has d.open at offset pos.Col.
func skipBlock(lines [][]byte, pos Position, d delimiter) (Position, error) {
	if !mem.HasPrefix(tail(lines[pos.Line], pos.Col), mem.S(d.open)) {
		panic(fmt.Sprintf("skipBlock: no %q at %v", d.open, pos))
	}
	open, shut := mem.S(d.open), mem.S(d.close)
	line, col := pos.Line, pos.Col+len(d.open)

	for depth := 1; depth > 0; {
		if line >= len(lines) {
			return Position{}, &UnmatchedError{Delim: d.open, Pos: pos}
		}
		rest := tail(lines[line], col)

		end := mem.Index(rest, shut)
		start := -1
		if d.nests() {
			// A nested open marker only counts if it lies entirely before the
			// next close marker.
			if end >= 0 {
				start = mem.Index(rest.SliceTo(end), open)
			} else {
				start = mem.Index(rest, open)
			}
		}

		// Inner blocks found before the next structural marker are skipped
		// first, so that their contents cannot close this block.
		stop := end
		if start >= 0 {
			stop = start
		}
		if in, at := firstInner(rest, stop, d.inner); at >= 0 {
			next, err := skipBlock(lines, Position{Line: line, Col: col + at}, in)
			if err != nil {
				return Position{}, &UnmatchedError{Delim: d.open, Pos: pos}
			}
			line, col = next.Line, next.Col
			continue
		}

		switch {
		case start >= 0:
			col += start + open.Len()
			depth++
		case end >= 0:
			col += end + shut.Len()
			depth--
		default:
			line, col = line+1, 0
		}
	}
	return Position{Line: line, Col: col}, nil
}

// firstInner reports which of the inner delimiters opens earliest in rest
// and at what offset. Only openings lying entirely before stop are eligible,
// or anywhere in rest if stop < 0. If none is found, at < 0.
func firstInner(rest mem.RO, stop int, inner []delimiter) (_ delimiter, at int) {
	if stop >= 0 {
		rest = rest.SliceTo(stop)
	}
	var found delimiter
	at = -1
	for _, d := range inner {
		if i := mem.Index(rest, mem.S(d.open)); i >= 0 && (at < 0 || i < at) {
			found, at = d, i
		}
	}
	return found, at
}

// tail returns a view of line from offset col, or an empty view if col is
// past the end of the line. A negative col is treated as 0.
func tail(line []byte, col int) mem.RO {
	col = max(col, 0)
	if col >= len(line) {
		return mem.RO{}
	}
	return mem.B(line[col:])
}
