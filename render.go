// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"strings"

	"github.com/creachadair/mds/mstr"
)

// A Highlight marks a tagged region of rendered text. Line and Col are
// 1-based, as editors expect; Len is in bytes.
type Highlight struct {
	Line int    `json:"line" yaml:"line"`
	Col  int    `json:"col" yaml:"col"`
	Len  int    `json:"len" yaml:"len"`
	Tag  string `json:"tag" yaml:"tag"`
}

// Text is evaluator output that can be rendered as lines for display.
type Text interface {
	// Render returns the lines of the text, and highlights for any tagged
	// regions. The first line is placed at 0-based line number line of the
	// display, and highlights are numbered accordingly.
	Render(line int) ([]string, []Highlight)
}

// PlainText is untagged text. It renders without highlights.
type PlainText string

// Render satisfies the Text interface.
func (p PlainText) Render(int) ([]string, []Highlight) { return mstr.Lines(string(p)), nil }

// A Token is a fragment of tagged text. An empty Tag marks untagged text.
type Token struct {
	Text string
	Tag  string
}

// TaggedText is a sequence of tokens, each of which may span lines.
type TaggedText []Token

// Render satisfies the Text interface.
func (t TaggedText) Render(line int) ([]string, []Highlight) {
	var lines []string
	var hls []Highlight
	var cur strings.Builder

	line++ // 1-based from here on
	col := 1
	for _, tok := range t {
		// Split on newlines explicitly, so that a token like " =\n" ends the
		// line it is on.
		for i, part := range strings.Split(tok.Text, "\n") {
			if i > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
				line, col = line+1, 1
			}
			if tok.Tag != "" && part != "" {
				hls = append(hls, Highlight{Line: line, Col: col, Len: len(part), Tag: tok.Tag})
			}
			cur.WriteString(part)
			col += len(part)
		}
	}
	return append(lines, cur.String()), hls
}
