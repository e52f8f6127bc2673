// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// InputRelay reads lines from the real stdin and routes each one either
// to the child or to the confirmation prompt.
type InputRelay struct {
	reader      *bufio.Reader
	stdin       io.WriteCloser
	interrupt   func() error
	coordinator *Coordinator
	logger      *slog.Logger

	// forwarding is false once a write to the child has failed.
	forwarding bool
	failed     chan error
}

// NewInputRelay returns a relay from source to the child's stdin. The
// relay owns stdin and closes it when source ends. interrupt is called
// when the user confirms termination.
func NewInputRelay(source io.Reader, stdin io.WriteCloser, interrupt func() error, coordinator *Coordinator, logger *slog.Logger) *InputRelay {
	return &InputRelay{
		reader:      bufio.NewReader(source),
		stdin:       stdin,
		interrupt:   interrupt,
		coordinator: coordinator,
		logger:      logger.With("worker", "input-relay"),
		forwarding:  true,
		failed:      make(chan error, 1),
	}
}

// Failed delivers the first failed write to the child's stdin. After
// that failure the relay stops forwarding lines to the child but keeps
// reading prompt answers.
func (r *InputRelay) Failed() <-chan error {
	return r.failed
}

// Run relays until the Coordinator is closed. Read errors are treated
// as end of input.
//
// At end of input any unterminated final line is handled like a full
// line and the child's stdin is closed. Since no answer can arrive any
// more, every prompt still open or opened later is answered with
// Continue until the Coordinator is closed.
func (r *InputRelay) Run() {
	for {
		line, readErr := r.reader.ReadString('\n')
		if readErr == nil || line != "" {
			if !r.handle(line) {
				r.closeStdin()
				return
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				r.logger.Debug("read failed", "error", readErr)
			}
			r.logger.Debug("end of input")
			r.closeStdin()
			r.answerRemainingPrompts()
			return
		}
	}
}

// handle routes one line. It returns false once the Coordinator is
// closed.
func (r *InputRelay) handle(line string) bool {
	answer, ok := r.coordinator.awaitLine()
	if !ok {
		return false
	}
	if !answer {
		r.forward(line)
		return true
	}

	decision := ParseAnswer(line)
	r.logger.Debug("prompt answered", "decision", decision)
	// Record Terminate before the child can die from the interrupt, so
	// anyone observing the exit also sees the decision.
	r.coordinator.Submit(decision)
	if decision == Terminate {
		if err := r.interrupt(); err != nil {
			r.logger.Warn("interrupting child failed", "error", err)
		}
	}
	return true
}

func (r *InputRelay) forward(line string) {
	if !r.forwarding {
		r.logger.Debug("discarding line, child stdin is gone", "bytes", len(line))
		return
	}
	if _, err := io.WriteString(r.stdin, line); err != nil {
		r.forwarding = false
		r.failed <- fmt.Errorf("write to child stdin: %w", err)
	}
}

func (r *InputRelay) answerRemainingPrompts() {
	for r.coordinator.awaitPrompt() {
		r.logger.Debug("prompt open after end of input, continuing")
		r.coordinator.Submit(Continue)
	}
}

func (r *InputRelay) closeStdin() {
	if err := r.stdin.Close(); err != nil {
		r.logger.Debug("closing child stdin", "error", err)
	}
}
