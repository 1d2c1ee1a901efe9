// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"cmp"
	"fmt"
)

// A Position describes a location in a document as a row and a byte offset
// within that row. Both are 0-based.
type Position struct {
	Line int `json:"line" yaml:"line"` // line number, 0-based
	Col  int `json:"col" yaml:"col"`   // byte offset of column in line, 0-based
}

// Compare reports the order of p relative to q: -1 if p precedes q, +1 if p
// follows q, and 0 if they are equal. Positions are ordered by line and then
// by column.
func (p Position) Compare(q Position) int {
	if c := cmp.Compare(p.Line, q.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Col, q.Col)
}

// Less reports whether p precedes q.
func (p Position) Less(q Position) bool { return p.Compare(q) < 0 }

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// A Range describes a region of a document between two positions.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

func (r Range) String() string { return r.Start.String() + "-" + r.End.String() }

// A Span describes a contiguous span of bytes in a command.
type Span struct {
	Pos int `json:"pos" yaml:"pos"` // the start offset, 0-based
	End int `json:"end" yaml:"end"` // the end offset, 0-based (noninclusive)
}

// NoSpan is the span reported by an evaluator that cannot locate an error
// more precisely than the whole command.
var NoSpan = Span{Pos: -1, End: -1}

// A Sentence is the extent of a single command in a document, before any
// comments are removed. Start is where scanning for the sentence began, and
// may precede the command text by whitespace and comments. Stop is the
// position of the last byte of the sentence (inclusive).
type Sentence struct {
	Start Position `json:"start" yaml:"start"`
	Stop  Position `json:"stop" yaml:"stop"`
}

// Next returns the position just after the end of s, where scanning for the
// following sentence begins.
func (s Sentence) Next() Position { return Position{Line: s.Stop.Line, Col: s.Stop.Col + 1} }

// Range returns the region of the document covered by s, with an exclusive
// end position.
func (s Sentence) Range() Range { return Range{Start: s.Start, End: s.Next()} }
