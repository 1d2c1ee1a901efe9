// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"bytes"

	"go4.org/mem"
)

// A CommentSpan records where a comment was removed from a command.
type CommentSpan struct {
	Offset int // offset of the separator byte that replaced the comment
	Length int // length in bytes of the original comment
}

// StripComments returns a copy of text with each top-level comment replaced
// by a single space, together with the location and original length of each
// comment removed. Nested comments are removed with their enclosing comment.
// String literals are copied unchanged, so comment markers inside a string
// are not treated as comments. A comment that is not closed extends to the
// end of text.
func StripComments(text []byte) ([]byte, []CommentSpan) {
	src := mem.B(text)
	out := make([]byte, 0, len(text))
	var spans []CommentSpan
	for src.Len() != 0 {
		com := mem.Index(src, mem.S(commentDelim.open))
		if com < 0 {
			out = mem.Append(out, src)
			break
		}

		// Copy through a string literal that opens before the comment.
		if q := mem.IndexByte(src.SliceTo(com), '"'); q >= 0 {
			n := q + 1
			if end := mem.IndexByte(src.SliceFrom(n), '"'); end >= 0 {
				n += end + 1
			} else {
				n = src.Len()
			}
			out = mem.Append(out, src.SliceTo(n))
			src = src.SliceFrom(n)
			continue
		}

		out = mem.Append(out, src.SliceTo(com))
		n := commentLen(src.SliceFrom(com))
		spans = append(spans, CommentSpan{Offset: len(out), Length: n})
		out = append(out, ' ')
		src = src.SliceFrom(com + n)
	}
	return out, spans
}

// commentLen returns the length of the comment at the front of text,
// including nested comments. An open marker counts as nesting only if it
// lies entirely before the next close marker, the same rule as skipBlock.
func commentLen(text mem.RO) int {
	open, shut := mem.S(commentDelim.open), mem.S(commentDelim.close)
	pos := open.Len()
	for depth := 1; depth > 0; {
		rest := text.SliceFrom(pos)
		end := mem.Index(rest, shut)
		if end < 0 {
			return text.Len()
		}
		if start := mem.Index(rest.SliceTo(end), open); start >= 0 {
			pos += start + open.Len()
			depth++
		} else {
			pos += end + shut.Len()
			depth--
		}
	}
	return pos
}

// UnstripOffset converts an offset into text returned by StripComments back
// into an offset into the original text, given the spans StripComments
// reported. An offset that refers to the separator byte of a comment maps to
// the start of that comment: only comments whose separator lies strictly
// before offset are added back. An exclusive end offset just past a comment's
// separator thus maps just past the comment.
func UnstripOffset(spans []CommentSpan, offset int) int {
	out := offset
	for _, s := range spans {
		if s.Offset >= offset {
			break
		}
		out += s.Length - 1
	}
	return out
}

// PositionAt returns the document position of the given byte offset into
// text, where text begins at position start. Offsets outside text are
// clipped to its bounds.
func PositionAt(text []byte, start Position, offset int) Position {
	offset = max(0, min(offset, len(text)))
	prefix := text[:offset]
	nl := bytes.LastIndexByte(prefix, '\n')
	if nl < 0 {
		return Position{Line: start.Line, Col: start.Col + offset}
	}
	return Position{
		Line: start.Line + bytes.Count(prefix, []byte("\n")),
		Col:  offset - nl - 1,
	}
}

// errorRange returns the document range blamed by an evaluator failure at
// the given span of the comment-stripped text of sentence s, whose original
// text is text.
func errorRange(text []byte, spans []CommentSpan, s Sentence, at Span) Range {
	if at.Pos < 0 || at.End < 0 {
		return s.Range()
	}
	return Range{
		Start: PositionAt(text, s.Start, UnstripOffset(spans, at.Pos)),
		End:   PositionAt(text, s.Start, UnstripOffset(spans, at.End)),
	}
}
