// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package vsent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/creachadair/mds/queue"
	"github.com/creachadair/mds/stack"
)

// Options control the behaviour of a Session. A nil *Options provides
// defaults as described on each field.
type Options struct {
	// Logger receives diagnostic logs. If nil, logs are discarded.
	Logger *slog.Logger

	// Observer, if set, receives progress reports.
	Observer Observer

	// Timeout, if positive, bounds each call to the evaluator.
	Timeout time.Duration

	// MaxSteps, if positive, caps the number of sentences a single call to
	// Step may check.
	MaxSteps int
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *Options) observer() Observer {
	if o == nil {
		return nil
	}
	return o.Observer
}

func (o *Options) timeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.Timeout
}

func (o *Options) maxSteps() int {
	if o == nil {
		return 0
	}
	return o.MaxSteps
}

// A Session tracks how much of a document an evaluator has accepted.
//
// The accepted prefix is a stack of checkpoints, each the exclusive end of
// one accepted sentence. Sentences found but not yet sent wait in a pending
// queue. The methods of a Session must not be called concurrently, except
// Interrupt.
type Session struct {
	eval     Evaluator
	doc      Document
	log      *slog.Logger
	obs      Observer
	timeout  time.Duration
	maxSteps int

	checkpoints stack.Stack[Position] // strictly increasing from the bottom
	pending     queue.Queue[Sentence] // ordered, at or after the frontier
	errorAt     *Range
	failure     error
	info        []string

	// The document as of the last sync.
	revision uint64
	snapshot [][]byte
}

// New constructs a Session that sends sentences of doc to eval. The current
// content of doc is taken as the starting snapshot for Sync.
func New(eval Evaluator, doc Document, opts *Options) *Session {
	return &Session{
		eval:     eval,
		doc:      doc,
		log:      opts.logger(),
		obs:      opts.observer(),
		timeout:  opts.timeout(),
		maxSteps: opts.maxSteps(),
		revision: doc.Revision(),
		snapshot: doc.Lines(),
	}
}

// Frontier returns the end of the accepted prefix of the document. If no
// sentences have been accepted, it is the start of the document.
func (s *Session) Frontier() Position { return s.checkpoints.Top() }

// Endpoint returns the frontier as editors number it: a 1-based line and the
// column just past the last accepted byte. If nothing is accepted, Endpoint
// returns line 1, column 1.
func (s *Session) Endpoint() (line, col int) {
	if s.checkpoints.IsEmpty() {
		return 1, 1
	}
	top := s.checkpoints.Top()
	return top.Line + 1, top.Col
}

// Checkpoints returns the end positions of the accepted sentences, oldest
// first.
func (s *Session) Checkpoints() []Position {
	if s.checkpoints.IsEmpty() {
		return nil
	}
	out := s.checkpoints.Slice()
	slices.Reverse(out)
	return out
}

// Pending returns the sentences found but not yet accepted, in order.
func (s *Session) Pending() []Sentence { return s.pending.Slice() }

// ErrorRange reports the location of the most recent failure, if any.
func (s *Session) ErrorRange() (Range, bool) {
	if s.errorAt == nil {
		return Range{}, false
	}
	return *s.errorAt, true
}

// Failure returns the advisory error from the most recent batch, or nil.
// The concrete type is *RejectedError or *UnmatchedError.
func (s *Session) Failure() error { return s.failure }

// Info returns the lines of the current informational message.
func (s *Session) Info() []string { return slices.Clone(s.info) }

// Highlights describes the regions of the document a display should mark.
type Highlights struct {
	Checked *Range // the accepted prefix
	Sent    *Range // sentences found but not yet accepted
	Error   *Range // the location of the most recent failure
}

// Highlights returns the regions of the document to mark.
func (s *Session) Highlights() Highlights {
	var h Highlights
	if !s.checkpoints.IsEmpty() {
		h.Checked = &Range{End: s.Frontier()}
	}
	if !s.pending.IsEmpty() {
		h.Sent = &Range{Start: s.Frontier(), End: s.pending.Back().Next()}
	}
	if s.errorAt != nil {
		r := *s.errorAt
		h.Error = &r
	}
	return h
}

// Step checks up to n further sentences of the document. Sentences are
// checked in order until one is rejected, in which case the rest of the
// batch is discarded and the failure is recorded in ErrorRange and Failure.
//
// Step reports an error only if the evaluator itself fails, or the context
// ends; a rejected sentence is not an error. Sentences accepted before such
// a failure remain accepted.
func (s *Session) Step(ctx context.Context, n int) error {
	if err := s.Sync(ctx); err != nil {
		return err
	}
	if n < 1 {
		return nil
	}
	if s.maxSteps > 0 {
		n = min(n, s.maxSteps)
	}
	lines := s.doc.Lines()
	unmatched := s.enqueue(lines, n, nil)
	return s.drain(ctx, lines, unmatched)
}

// Rewind undoes the n most recently accepted sentences. The evaluator may
// undo more than n, in which case the extra sentences are undone here too.
// If the evaluator cannot say how many it undid, Rewind reports an error
// wrapping ErrRewindAmbiguous and the session is unchanged.
func (s *Session) Rewind(ctx context.Context, n int) error {
	n = min(n, s.checkpoints.Len())
	if n < 1 {
		return nil
	}

	cctx, cancel := s.callContext(ctx)
	defer cancel()
	reply, err := s.eval.Rewind(cctx, n)
	if err != nil {
		s.log.Warn("rewind failed", "steps", n, "error", err)
		return &CommError{Op: "rewind", Err: err}
	}
	s.addDiagnostics(reply.Diagnostics)
	if reply.Ambiguous {
		s.log.Warn("rewind amount unknown", "steps", n, "message", reply.Message)
		return fmt.Errorf("%w: %s", ErrRewindAmbiguous, reply.Message)
	}

	var popped int
	for range n + max(reply.Extra, 0) {
		if _, ok := s.checkpoints.Pop(); !ok {
			break
		}
		popped++
	}
	s.pending.Clear()
	s.errorAt, s.failure = nil, nil
	s.log.Info("rewound", "steps", n, "extra", reply.Extra, "frontier", s.Frontier())
	if ro, ok := s.obs.(RewindObserver); ok {
		ro.Rewound(popped, s.Frontier())
	}
	return nil
}

// Seek moves the frontier to the cursor position pos. Afterward, the
// accepted sentences are exactly those whose last byte is at or before pos,
// unless a sentence is rejected on the way.
//
// If pos is before the frontier, Seek rewinds; otherwise it checks sentences
// up to pos as Step does. Pending sentences that end after pos are dropped
// without being sent.
func (s *Session) Seek(ctx context.Context, pos Position) error {
	if err := s.Sync(ctx); err != nil {
		return err
	}
	if pos.Less(s.Frontier()) {
		s.pending.Clear()
		// A checkpoint is one past the last byte of its sentence.
		return s.rewindTo(ctx, Position{Line: pos.Line, Col: pos.Col + 2})
	}
	for !s.pending.IsEmpty() && pos.Less(s.pending.Back().Stop) {
		s.pending.PopLast()
	}
	lines := s.doc.Lines()
	unmatched := s.enqueue(lines, -1, &pos)
	return s.drain(ctx, lines, unmatched)
}

// Top undoes all accepted sentences.
func (s *Session) Top(ctx context.Context) error { return s.Rewind(ctx, s.checkpoints.Len()) }

// Sync checks whether the document has changed since the last sync, and if
// so rewinds past any accepted sentence the change touched. Changes after
// the frontier do not cause a rewind. Any change discards the pending
// sentences, since their positions refer to the old text.
func (s *Session) Sync(ctx context.Context) error {
	rev := s.doc.Revision()
	if rev == s.revision {
		return nil
	}
	lines := s.doc.Lines()
	if !s.pending.IsEmpty() {
		s.log.Debug("document changed, dropping pending", "revision", rev, "pending", s.pending.Len())
		s.pending.Clear()
	}

	var err error
	if !s.checkpoints.IsEmpty() {
		if at, ok := divergence(s.snapshot, lines, s.Frontier()); ok {
			s.log.Info("document changed before frontier", "revision", rev, "at", at)
			err = s.rewindTo(ctx, at)
		}
	}
	s.revision, s.snapshot = rev, lines
	return err
}

// Stop discards all session state. It does not contact the evaluator.
func (s *Session) Stop() {
	s.checkpoints.Clear()
	s.pending.Clear()
	s.errorAt, s.failure, s.info = nil, nil, nil
	s.revision, s.snapshot = s.doc.Revision(), s.doc.Lines()
}

// Interrupt asks the evaluator to abort the command in progress. It is safe
// to call concurrently with other methods.
func (s *Session) Interrupt() { s.eval.Interrupt() }

// Query runs query outside the script and reports the evaluator's reply. A
// terminating dot is added if query lacks one. The accepted sentences are
// not affected. The reply message replaces the info lines.
func (s *Session) Query(ctx context.Context, query string) (Reply, error) {
	if !strings.HasSuffix(query, ".") {
		query += "."
	}
	cctx, cancel := s.callContext(ctx)
	defer cancel()

	var reply Reply
	var err error
	if q, ok := s.eval.(Querier); ok {
		reply, err = q.Query(cctx, query)
	} else {
		reply, err = s.eval.Dispatch(cctx, query)
	}
	if err != nil {
		return Reply{}, &CommError{Op: "query", Err: err}
	}
	s.setInfo(reply.Message, true)
	s.addDiagnostics(reply.Diagnostics)
	return reply, nil
}

// rewindTo undoes every accepted sentence whose checkpoint is at or after
// pos.
func (s *Session) rewindTo(ctx context.Context, pos Position) error {
	var n int
	s.checkpoints.Each(func(p Position) bool {
		if p.Less(pos) {
			return false // the rest are earlier still
		}
		n++
		return true
	})
	return s.Rewind(ctx, n)
}

// enqueue finds up to limit sentences (or without limit if limit < 0)
// following the last accepted or pending sentence, and adds them to the
// pending queue. If bound != nil, only sentences ending at or before bound
// are added.
//
// If scanning stops at an unmatched delimiter, enqueue returns the error so
// it can be reported once the batch is done. With a bound, only a delimiter
// opening at or before the bound is reported.
func (s *Session) enqueue(lines [][]byte, limit int, bound *Position) *UnmatchedError {
	at := s.Frontier()
	if !s.pending.IsEmpty() {
		at = s.pending.Back().Next()
	}
	for i := 0; limit < 0 || i < limit; i++ {
		next, err := NextSentence(lines, at)
		var uerr *UnmatchedError
		if errors.As(err, &uerr) {
			if bound == nil || !bound.Less(uerr.Pos) {
				return uerr
			}
			return nil
		} else if err != nil {
			s.log.Debug("end of sentences", "at", at)
			return nil
		}
		if bound != nil && bound.Less(next.Stop) {
			return nil
		}
		s.pending.Add(next)
		at = next.Next()
	}
	return nil
}

// drain sends pending sentences to the evaluator in order until the queue
// is empty or a sentence is rejected. If no sentence was rejected, unmatched
// (if set) is recorded as the failure of the batch.
func (s *Session) drain(ctx context.Context, lines [][]byte, unmatched *UnmatchedError) error {
	quiet := true // no messages so far in this batch
	var rejected bool
	s.errorAt, s.failure = nil, nil
	for !s.pending.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("checking interrupted: %w", err)
		}

		next := s.pending.Front()
		if s.obs != nil {
			s.obs.Sending(next, s.pending.Len())
		}
		text := Between(lines, next.Start, next.Stop)
		clean, spans := StripComments(text)

		s.log.Debug("dispatch", "start", next.Start, "stop", next.Stop)
		reply, err := s.dispatch(ctx, string(clean))
		if err != nil {
			// Leave the sentence pending; nothing further is sent.
			s.log.Warn("dispatch failed", "at", next.Start, "error", err)
			return &CommError{Op: "dispatch", Err: err}
		}
		s.pending.Pop()

		if reply.Diagnostics != "" {
			s.addDiagnostics(reply.Diagnostics)
			quiet = false
		}
		if reply.Message != "" {
			s.setInfo(reply.Message, quiet)
			quiet = false
		}
		if s.obs != nil {
			s.obs.Dispatched(next, reply)
		}

		if reply.Accepted {
			s.checkpoints.Push(next.Next())
			continue
		}

		s.pending.Clear()
		rng := errorRange(text, spans, next, reply.Error)
		s.errorAt = &rng
		s.failure = &RejectedError{Sentence: next, Range: rng, Message: reply.Message}
		rejected = true
		s.log.Debug("rejected", "range", rng)
	}

	if quiet {
		s.info = nil
	}
	if unmatched != nil && !rejected {
		s.setInfo(unmatched.Message(), false)
		rng := unmatched.Range()
		s.errorAt, s.failure = &rng, unmatched
	}
	return nil
}

func (s *Session) dispatch(ctx context.Context, command string) (Reply, error) {
	cctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.eval.Dispatch(cctx, command)
}

func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// setInfo sets the info lines to msg if reset is true or there is no current
// message, and otherwise appends msg after a blank line.
func (s *Session) setInfo(msg string, reset bool) {
	lines := strings.Split(msg, "\n")
	if reset || len(s.info) == 0 || (len(s.info) == 1 && s.info[0] == "") {
		s.info = lines
	} else {
		s.info = append(append(s.info, ""), lines...)
	}
}

func (s *Session) addDiagnostics(text string) {
	if text != "" {
		s.setInfo("From stderr: "+text, false)
	}
}
