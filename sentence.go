// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"bytes"

	"go4.org/mem"
)

// NextSentence scans lines from after to find the next complete sentence.
// The returned sentence starts at after and stops at the last byte of the
// command, which is a terminating dot, a bullet, or the brace of a goal
// selector.
//
// If only whitespace and comments remain, NextSentence reports ErrNoSentence.
// If a comment, string, or attribute block is not closed before the end of
// the document, it reports an error of concrete type *UnmatchedError.
//
// A negative line or column in after is treated as 0.
func NextSentence(lines [][]byte, after Position) (Sentence, error) {
	after.Line, after.Col = max(after.Line, 0), max(after.Col, 0)
	stop, err := findSentenceEnd(lines, after)
	if err != nil {
		return Sentence{}, err
	}
	return Sentence{Start: after, Stop: stop}, nil
}

func findSentenceEnd(lines [][]byte, at Position) (Position, error) {
	line, col := at.Line, at.Col

	// Skip whitespace and any leading comments and attributes.
	var first mem.RO
	for {
		var ok bool
		line, col, first, ok = skipSpace(lines, line, col)
		if !ok {
			return Position{}, ErrNoSentence
		}
		d, ok := leadingBlock(first)
		if !ok {
			break
		}
		next, err := skipBlock(lines, Position{Line: line, Col: col}, d)
		if err != nil {
			return Position{}, err
		}
		line, col = next.Line, next.Col
	}

	switch c := first.At(0); c {
	case '{', '}':
		return Position{Line: line, Col: col}, nil

	case '-', '+', '*':
		// A bullet is a run of the same character: "--" is one bullet, but
		// "-+" is two.
		n := 1
		for n < first.Len() && first.At(n) == c {
			n++
		}
		return Position{Line: line, Col: col + n - 1}, nil
	}

	if isDigit(first.At(0)) {
		if n, ok := matchSelector(first); ok {
			return Position{Line: line, Col: col + n - 1}, nil
		}
		// Otherwise the digits are ordinary command text.
	}
	return findDot(lines, line, col)
}

// skipSpace advances from line, col past whitespace, possibly across lines.
// It returns the position of the first non-space byte and a view of the rest
// of its line. If the document has nothing but whitespace from line, col,
// skipSpace reports false.
func skipSpace(lines [][]byte, line, col int) (int, int, mem.RO, bool) {
	for ; line < len(lines); line, col = line+1, 0 {
		rest := tail(lines[line], col)
		if trim := mem.TrimLeftFunc(rest, isSpace); trim.Len() != 0 {
			return line, col + rest.Len() - trim.Len(), trim, true
		}
	}
	return line, col, mem.RO{}, false
}

// leadingBlock reports whether text begins with a block that may precede a
// sentence without being part of it.
func leadingBlock(text mem.RO) (delimiter, bool) {
	switch {
	case mem.HasPrefix(text, mem.S(commentDelim.open)):
		return commentDelim, true
	case mem.HasPrefix(text, mem.S(attributeDelim.open)):
		return attributeDelim, true
	}
	return delimiter{}, false
}

// matchSelector reports whether text begins with a bracketed goal selector,
// of the form "<digits> [space]* : [space]* {", and if so the length of the
// selector through the open brace.
func matchSelector(text mem.RO) (int, bool) {
	const (
		inDigits = iota
		beforeColon
		afterColon
	)
	state := inDigits
	for i := 1; i < text.Len(); i++ {
		c := text.At(i)
		switch {
		case state == inDigits && isDigit(c):
			// continue
		case state == inDigits && isSpaceByte(c):
			state = beforeColon
		case state == inDigits && c == ':':
			state = afterColon
		case state == beforeColon && isSpaceByte(c):
			// continue
		case state == beforeColon && c == ':':
			state = afterColon
		case state == afterColon && isSpaceByte(c):
			// continue
		case state == afterColon && c == '{':
			return i + 1, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// findDot scans forward from line, col for the dot that ends a command,
// skipping comments and string literals along the way.
func findDot(lines [][]byte, line, col int) (Position, error) {
	for line < len(lines) {
		rest := tail(lines[line], col)
		dot := mem.IndexByte(rest, '.')
		com := mem.Index(rest, mem.S(commentDelim.open))
		str := mem.IndexByte(rest, '"')

		switch {
		case dot < 0 && com < 0 && str < 0:
			line, col = line+1, 0

		case dot < 0 || (com >= 0 && com < dot) || (str >= 0 && str < dot):
			// A comment or string opens before the next dot.
			d, at := commentDelim, com
			if com < 0 || (str >= 0 && str < com) {
				d, at = stringDelim, str
			}
			next, err := skipBlock(lines, Position{Line: line, Col: col + at}, d)
			if err != nil {
				return Position{}, err
			}
			line, col = next.Line, next.Col

		case dot+1 == rest.Len() || isSpaceByte(rest.At(dot+1)):
			return Position{Line: line, Col: col + dot}, nil

		case mem.HasPrefix(rest.SliceFrom(dot), mem.S("...")):
			// An ellipsis ends the sentence at its second dot.
			return Position{Line: line, Col: col + dot + 1}, nil

		case mem.HasPrefix(rest.SliceFrom(dot), mem.S("..")):
			col += dot + 2

		default:
			// A dot inside a qualified name.
			col += dot + 1
		}
	}
	return Position{}, ErrNoSentence
}

// Between returns the text of lines from start to stop inclusive, with lines
// joined by newlines. Offsets past the end of a line are clipped.
func Between(lines [][]byte, start, stop Position) []byte {
	var buf bytes.Buffer
	for i := start.Line; i <= stop.Line && i < len(lines); i++ {
		line := lines[i]
		lo, hi := 0, len(line)
		if i == start.Line {
			lo = min(start.Col, len(line))
		}
		if i == stop.Line {
			hi = max(lo, min(stop.Col+1, len(line)))
		}
		if i > start.Line {
			buf.WriteByte('\n')
		}
		buf.Write(line[lo:hi])
	}
	return buf.Bytes()
}

// A Scanner reads the sentences of a document in order. Each call to Next
// advances the scanner to the next sentence, or reports an error.
//
//	s := vsent.NewScanner(lines)
//	for s.Next() == nil {
//	   log.Printf("Next sentence: %v", s.Sentence())
//	}
type Scanner struct {
	lines [][]byte
	pos   Position
	cur   Sentence
	err   error
}

// NewScanner constructs a scanner that reads sentences from the start of
// lines.
func NewScanner(lines [][]byte) *Scanner { return &Scanner{lines: lines} }

// Next advances s to the next sentence of the document. When no further
// sentences remain, Next returns ErrNoSentence. Any other error is of
// concrete type *UnmatchedError. Once Next has reported an error, it
// continues to report the same error.
func (s *Scanner) Next() error {
	if s.err != nil {
		return s.err
	}
	next, err := NextSentence(s.lines, s.pos)
	if err != nil {
		s.err = err
		return err
	}
	s.cur, s.pos = next, next.Next()
	return nil
}

// Sentence returns the current sentence.
func (s *Scanner) Sentence() Sentence { return s.cur }

// Text returns the text of the current sentence, including any leading
// whitespace and comments.
func (s *Scanner) Text() []byte { return Between(s.lines, s.cur.Start, s.cur.Stop) }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

func isSpace(r rune) bool { return r < 0x80 && isSpaceByte(byte(r)) }

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
