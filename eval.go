// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import "context"

// A Reply is the evaluator's response to a command.
type Reply struct {
	// Accepted reports whether the evaluator accepted the command.
	Accepted bool

	// Message is the evaluator's output for the command, if any.
	Message string

	// Error is the location of a failure in the command text that was sent,
	// as byte offsets. NoSpan means the whole command is to blame.
	Error Span

	// Diagnostics is any out-of-band output, such as the evaluator's
	// standard error.
	Diagnostics string
}

// A RewindReply is the evaluator's response to a request to rewind.
type RewindReply struct {
	// Extra is the number of sentences the evaluator undid beyond those
	// requested, for example because it cannot stop inside a proof.
	Extra int

	// Ambiguous reports that the evaluator could not say how many sentences
	// it undid. Extra is meaningless when it is set.
	Ambiguous bool

	Message     string
	Diagnostics string
}

// An Evaluator accepts sentences one at a time. The Session calls its
// methods from a single goroutine, except Interrupt.
type Evaluator interface {
	// Dispatch sends command to the evaluator and reports its reply. An error
	// means the evaluator could not be reached or failed; a refusal of the
	// command is reported by the reply.
	Dispatch(ctx context.Context, command string) (Reply, error)

	// Rewind undoes the n most recently accepted sentences.
	Rewind(ctx context.Context, n int) (RewindReply, error)

	// Interrupt aborts the command in progress, if any. It may be called
	// concurrently with the other methods.
	Interrupt()
}

// Querier is an optional interface that an Evaluator may implement to run
// commands outside the script. If an evaluator does not implement it,
// queries are sent with Dispatch.
type Querier interface {
	// Query runs query without adding it to the accepted sentences.
	Query(ctx context.Context, query string) (Reply, error)
}

// A Document provides the current text of the document a session checks.
type Document interface {
	// Lines returns the lines of the document without line terminators.
	// The caller must not modify the result, and the document must not
	// modify it after returning it.
	Lines() [][]byte

	// Revision returns a token that changes whenever the text changes.
	Revision() uint64
}

// An Observer receives progress reports from a session, for example to
// refresh a display while a batch of sentences is checked.
//
// Observer methods are called synchronously by the session and must not call
// back into it.
type Observer interface {
	// Sending reports that s is about to be sent to the evaluator, and that
	// pending sentences (including s) remain in the batch.
	Sending(s Sentence, pending int)

	// Dispatched reports the evaluator's reply for s.
	Dispatched(s Sentence, r Reply)
}

// RewindObserver is an optional interface that an Observer may implement to
// learn when accepted sentences are undone.
type RewindObserver interface {
	// Rewound reports that n sentences were undone and the new frontier.
	Rewound(n int, frontier Position)
}
