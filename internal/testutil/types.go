// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/creachadair/vsent"
)

// Evaluator is a scripted implementation of the vsent.Evaluator and
// vsent.Querier interfaces. It accepts every command except those for which
// a rule is registered, and records what it was asked to do.
type Evaluator struct {
	// Rules maps a command (with surrounding whitespace removed) to the
	// reply for that command. Commands without a rule are accepted.
	Rules map[string]vsent.Reply

	// Extra is reported by each rewind as additional sentences undone.
	Extra int

	// Ambiguous, if true, makes each rewind report an unknown amount.
	Ambiguous bool

	// Fail, if non-nil, is reported by Dispatch once FailAfter commands have
	// been dispatched successfully.
	Fail      error
	FailAfter int

	// Hold, if true, makes Dispatch block until its context ends.
	Hold bool

	// RewindErr, if non-nil, is reported by Rewind.
	RewindErr error

	// Queries maps a query to its reply. If nil, the evaluator does not
	// answer queries itself and they arrive through Dispatch.
	Queries map[string]vsent.Reply

	mu          sync.Mutex
	sent        []string
	rewinds     []int
	asked       []string
	interrupted int
}

// Dispatch implements part of the vsent.Evaluator interface.
func (e *Evaluator) Dispatch(ctx context.Context, command string) (vsent.Reply, error) {
	if err := ctx.Err(); err != nil {
		return vsent.Reply{}, err
	}
	if e.Hold {
		<-ctx.Done()
		return vsent.Reply{}, ctx.Err()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Fail != nil && len(e.sent) >= e.FailAfter {
		return vsent.Reply{}, e.Fail
	}
	e.sent = append(e.sent, command)
	if r, ok := e.Rules[strings.TrimSpace(command)]; ok {
		return r, nil
	}
	return vsent.Reply{Accepted: true}, nil
}

// Rewind implements part of the vsent.Evaluator interface.
func (e *Evaluator) Rewind(ctx context.Context, n int) (vsent.RewindReply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.RewindErr != nil {
		return vsent.RewindReply{}, e.RewindErr
	}
	e.rewinds = append(e.rewinds, n)
	if e.Ambiguous {
		return vsent.RewindReply{Ambiguous: true, Message: "cannot tell"}, nil
	}
	return vsent.RewindReply{Extra: e.Extra}, nil
}

// Interrupt implements part of the vsent.Evaluator interface.
func (e *Evaluator) Interrupt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interrupted++
}

// Query implements the vsent.Querier interface.
func (e *Evaluator) Query(ctx context.Context, query string) (vsent.Reply, error) {
	if e.Queries == nil {
		return e.Dispatch(ctx, query)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.asked = append(e.asked, query)
	return e.Queries[query], nil
}

// Sent returns the commands dispatched so far, trimmed of surrounding space.
func (e *Evaluator) Sent() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.sent))
	for i, s := range e.sent {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// Rewinds returns the sizes of the rewinds requested so far.
func (e *Evaluator) Rewinds() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.rewinds...)
}

// Asked returns the queries answered by Query so far.
func (e *Evaluator) Asked() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.asked...)
}

// Interrupted returns the number of calls to Interrupt.
func (e *Evaluator) Interrupted() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interrupted
}

