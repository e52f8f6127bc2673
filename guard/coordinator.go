// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"sync"
	"sync/atomic"
)

// Coordinator is the confirmation state shared by every worker.
//
// The two flags are atomics so the output relays can check suppression
// on every chunk without locking. Every transition also happens under
// mu, which orders it against the decision slot and lets the Input
// Relay wait on settled while a round is between an answer and the next
// prompt.
//
// Invariants:
//   - suppressed is never true outside a round;
//   - confirming implies suppressed;
//   - at most one answer is in the answers channel, and only while
//     confirming is false.
type Coordinator struct {
	suppressed atomic.Bool
	confirming atomic.Bool

	mu       sync.Mutex
	settled  *sync.Cond
	decision Decision
	closed   bool

	answers chan Decision
}

// NewCoordinator returns a Coordinator with no round active.
func NewCoordinator() *Coordinator {
	c := &Coordinator{answers: make(chan Decision, 1)}
	c.settled = sync.NewCond(&c.mu)
	return c
}

// Suppressed reports whether output is currently hidden.
func (c *Coordinator) Suppressed() bool {
	return c.suppressed.Load()
}

// Confirming reports whether a prompt answer is outstanding.
func (c *Coordinator) Confirming() bool {
	return c.confirming.Load()
}

// Decision returns the most recent answer (Continue before any).
func (c *Coordinator) Decision() Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decision
}

// Answers delivers each submitted Decision once. Receiving from it is
// the Interceptor's signal that the confirming flag has been cleared
// for that answer.
func (c *Coordinator) Answers() <-chan Decision {
	return c.answers
}

// BeginRound suppresses output and opens the prompt.
func (c *Coordinator) BeginRound() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suppressed.Store(true)
	c.confirming.Store(true)
	c.settled.Broadcast()
}

// Rearm reopens the prompt after an Invalid answer.
func (c *Coordinator) Rearm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirming.Store(true)
	c.settled.Broadcast()
}

// Resume ends suppression after a Continue answer.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suppressed.Store(false)
	c.settled.Broadcast()
}

// Submit records an answer, clears the confirming flag, and publishes
// the answer to [Coordinator.Answers]. A Terminate answer also clears
// suppression so the child's reaction to the interrupt is shown.
// Submit returns false, recording nothing, when no prompt is open.
func (c *Coordinator) Submit(decision Decision) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.confirming.Load() {
		return false
	}
	c.decision = decision
	if decision == Terminate {
		c.suppressed.Store(false)
	}
	c.confirming.Store(false)
	// The slot is empty here: the previous answer was received before
	// the prompt could be reopened.
	c.answers <- decision
	return true
}

// Close releases any goroutine blocked in awaitLine. The Coordinator
// must not be used for new rounds afterwards.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.settled.Broadcast()
}

// awaitLine decides how the Input Relay treats its next line. It blocks
// while a round is suppressed but not confirming (an answer was taken
// and the Interceptor has not yet re-prompted or resumed). answer
// reports whether the line is a prompt answer; ok is false once the
// Coordinator is closed.
func (c *Coordinator) awaitLine() (answer, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.closed && c.suppressed.Load() && !c.confirming.Load() {
		c.settled.Wait()
	}
	if c.closed {
		return false, false
	}
	return c.suppressed.Load(), true
}

// awaitPrompt blocks until a prompt is open, returning true, or until
// the Coordinator is closed, returning false.
func (c *Coordinator) awaitPrompt() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.closed && !c.confirming.Load() {
		c.settled.Wait()
	}
	return !c.closed
}
