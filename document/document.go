// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package document provides implementations of the vsent.Document
// interface: an in-memory Buffer, and a File that follows a file on disk.
package document

import (
	"bytes"
	"strings"
	"sync"

	"github.com/creachadair/mds/mstr"
)

// A Buffer is an in-memory document. Each call to Set replaces its content
// and advances its revision. A Buffer is safe for concurrent use.
type Buffer struct {
	mu    sync.Mutex
	lines [][]byte
	rev   uint64
}

// NewBuffer constructs a Buffer with the given initial text, at revision 1.
func NewBuffer(text string) *Buffer {
	return &Buffer{lines: SplitLines(text), rev: 1}
}

// Set replaces the content of b with text and advances its revision.
func (b *Buffer) Set(text string) { b.SetLines(SplitLines(text)) }

// SetLines replaces the content of b with lines and advances its revision.
// The caller must not modify lines after calling SetLines.
func (b *Buffer) SetLines(lines [][]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = lines
	b.rev++
}

// Lines returns the current lines of b.
func (b *Buffer) Lines() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lines
}

// Revision returns the current revision of b.
func (b *Buffer) Revision() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rev
}

// String returns the text of b, with lines joined by newlines.
func (b *Buffer) String() string {
	return string(bytes.Join(b.Lines(), []byte("\n")))
}

// SplitLines splits text into lines. A trailing newline ends the last line
// rather than starting an empty one, and a carriage return before a newline
// is discarded.
func SplitLines(text string) [][]byte {
	ss := mstr.Lines(text)
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(strings.TrimSuffix(s, "\r"))
	}
	return out
}
