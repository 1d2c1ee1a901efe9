// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"errors"
	"fmt"
)

// ErrNoSentence is reported by the scanner when the document contains no
// further complete sentence. It is a normal end condition, not a failure.
var ErrNoSentence = errors.New("no more sentences")

// ErrRewindAmbiguous is reported when the evaluator cannot say how many
// sentences a rewind actually undid. The session is unchanged.
var ErrRewindAmbiguous = errors.New("rewind amount unknown")

// UnmatchedError is the concrete type of errors reported when a comment,
// string, or attribute block is opened but not closed before the end of the
// document.
type UnmatchedError struct {
	Delim string   // the opening delimiter, e.g. "(*"
	Pos   Position // the location of the opening delimiter
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("at %s: unmatched %q", e.Pos, e.Delim)
}

// Message returns the text shown to the user for e.
func (e *UnmatchedError) Message() string { return fmt.Sprintf("Found unmatched %s.", e.Delim) }

// Range returns the region of the document covered by the opening delimiter.
func (e *UnmatchedError) Range() Range {
	return Range{Start: e.Pos, End: Position{Line: e.Pos.Line, Col: e.Pos.Col + len(e.Delim)}}
}

// RejectedError records that the evaluator refused a sentence.
type RejectedError struct {
	Sentence Sentence // the sentence that was refused
	Range    Range    // the location of the failure in the document
	Message  string   // the evaluator's explanation, if any
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("at %s: sentence rejected", e.Range.Start)
	}
	return fmt.Sprintf("at %s: %s", e.Range.Start, e.Message)
}

// CommError is the concrete type of errors reported when the channel to the
// evaluator fails, as opposed to the evaluator refusing a sentence.
type CommError struct {
	Op  string // the operation in progress: "dispatch", "rewind", "query"
	Err error  // the underlying failure
}

func (e *CommError) Error() string { return fmt.Sprintf("%s: evaluator failed: %v", e.Op, e.Err) }

// Unwrap supports error wrapping.
func (e *CommError) Unwrap() error { return e.Err }
