// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"errors"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func splitLines(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestSkipBlock(t *testing.T) {
	tests := []struct {
		lines []string
		at    Position
		d     delimiter
		want  Position
	}{
		{[]string{"(* a *) b"}, Position{}, commentDelim, Position{0, 7}},
		{[]string{"(* (* *) *)x"}, Position{}, commentDelim, Position{0, 11}},
		{[]string{"x (* a", "b *) c"}, Position{0, 2}, commentDelim, Position{1, 4}},
		{[]string{"(* a", "", "(* b *)", "*)"}, Position{}, commentDelim, Position{3, 2}},
		{[]string{`"a (* b" x`}, Position{}, stringDelim, Position{0, 8}},
		{[]string{`"a`, `b"`}, Position{}, stringDelim, Position{1, 2}},
		{[]string{"#[local] x"}, Position{}, attributeDelim, Position{0, 8}},
		{[]string{`#[a="]"] x`}, Position{}, attributeDelim, Position{0, 8}},
	}
	for _, tc := range tests {
		got, err := skipBlock(splitLines(tc.lines...), tc.at, tc.d)
		if err != nil {
			t.Errorf("skipBlock(%q, %v): unexpected error: %v", tc.lines, tc.at, err)
			continue
		}
		if got != tc.want {
			t.Errorf("skipBlock(%q, %v): got %v, want %v", tc.lines, tc.at, got, tc.want)
		}
	}
}

func TestSkipBlock_unmatched(t *testing.T) {
	tests := []struct {
		lines []string
		d     delimiter
		want  UnmatchedError
	}{
		{[]string{"(* a", "b"}, commentDelim, UnmatchedError{Delim: "(*", Pos: Position{}}},
		{[]string{"(* (* a *)"}, commentDelim, UnmatchedError{Delim: "(*", Pos: Position{}}},
		{[]string{`"abc`}, stringDelim, UnmatchedError{Delim: `"`, Pos: Position{}}},

		// A failure in an inner block is reported for the outer block.
		{[]string{`#[a="]`}, attributeDelim, UnmatchedError{Delim: "#[", Pos: Position{}}},
	}
	for _, tc := range tests {
		_, err := skipBlock(splitLines(tc.lines...), Position{}, tc.d)
		var uerr *UnmatchedError
		if !errors.As(err, &uerr) {
			t.Errorf("skipBlock(%q): got %v, want *UnmatchedError", tc.lines, err)
			continue
		}
		if diff := cmp.Diff(tc.want, *uerr); diff != "" {
			t.Errorf("skipBlock(%q): (-want, +got)\n%s", tc.lines, diff)
		}
	}
}

func TestSkipBlock_precondition(t *testing.T) {
	mtest.MustPanic(t, func() { skipBlock(splitLines("x (* y *)"), Position{}, commentDelim) })
}
