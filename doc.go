// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package vsent tracks incremental checking of a proof script by an
// interactive evaluator, one sentence at a time.
//
// # Scanning
//
// The Scanner type splits a document into sentences. Construct a scanner
// from the lines of a document and call its Next method to iterate over the
// sentences. Next advances to the next sentence and returns nil, or reports
// an error:
//
//	s := vsent.NewScanner(lines)
//	for s.Next() == nil {
//	   log.Printf("Next sentence: %v", s.Sentence())
//	}
//
// Next returns ErrNoSentence when no complete sentence remains. Any other
// error is of concrete type *UnmatchedError, and reports a comment, string,
// or attribute block that is never closed.
//
// A sentence ends at the first of:
//
//	Form        | Example            | Ends at
//	----------- | ------------------ | ---------------------------------
//	brace       | { }                | the brace
//	bullet      | - + * -- ++        | the last character of the run
//	selector    | 2: {               | the open brace
//	command     | Check x.           | a dot followed by space or EOL
//
// Comments (* ... *), string literals, and attributes #[ ... ] are skipped
// while looking for the end of a sentence. Comments nest.
//
// # Sessions
//
// A Session pairs an Evaluator with a Document and tracks how much of the
// document the evaluator has accepted. Step sends further sentences, Rewind
// undoes accepted ones, and Seek moves to a cursor position in either
// direction:
//
//	s := vsent.New(eval, doc, nil)
//	if err := s.Step(ctx, 5); err != nil {
//	   log.Fatalf("Step failed: %v", err)
//	}
//	if rng, ok := s.ErrorRange(); ok {
//	   log.Printf("Rejected at %v: %v", rng, s.Failure())
//	}
//
// Comments are removed from each sentence before it is sent, and error
// locations reported by the evaluator are mapped back to the document. When
// the document changes, the session rewinds past any accepted sentence the
// change touched before doing anything else.
package vsent
