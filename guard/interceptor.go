// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/SNKK62/command-guardian/lib/console"
)

// Texts shown during a confirmation round.
const (
	PromptText      = "Ctrl-C detected. Do you want to terminate the command? (Y/[n]):"
	InvalidText     = "Invalid input. You must enter 'Y', 'n', 'N' or just press ENTER."
	ContinuingText  = "Continuing command..."
	TerminatingText = "Terminating command..."
)

// ErrTerminated is returned by [Interceptor.Run] when the user confirmed
// termination.
var ErrTerminated = errors.New("termination confirmed")

// Interceptor turns interrupt signals into confirmation rounds.
type Interceptor struct {
	coordinator *Coordinator
	signals     <-chan os.Signal
	console     *console.Console
	logger      *slog.Logger

	// OnStateChange, when set, is called on the Interceptor's goroutine
	// for every round state transition.
	OnStateChange func(RoundState)
}

// NewInterceptor returns an Interceptor reading signals. The channel
// must only carry os.Interrupt; anything else panics.
func NewInterceptor(coordinator *Coordinator, signals <-chan os.Signal, console *console.Console, logger *slog.Logger) *Interceptor {
	return &Interceptor{
		coordinator: coordinator,
		signals:     signals,
		console:     console,
		logger:      logger.With("worker", "interceptor"),
	}
}

// Run handles interrupts until the user confirms termination, which
// returns ErrTerminated, or until ctx is done or the signal channel is
// closed, which return nil. Interrupts that arrive during a round are
// queued by the channel and start a new round once it ends.
func (i *Interceptor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-i.signals:
			if !ok {
				return nil
			}
			if sig != os.Interrupt {
				panic(fmt.Sprintf("interceptor received %v, only os.Interrupt is registered", sig))
			}
		}

		decision, ok := i.round(ctx)
		if !ok {
			return nil
		}
		if decision == Terminate {
			return ErrTerminated
		}
	}
}

// round runs one confirmation round. ok is false if ctx ended it.
func (i *Interceptor) round(ctx context.Context) (decision Decision, ok bool) {
	i.coordinator.BeginRound()
	i.transition(Prompting)
	i.console.Blank()
	i.console.Prompt(PromptText)

	for {
		select {
		case <-ctx.Done():
			return Continue, false
		case decision = <-i.coordinator.Answers():
		}

		switch decision {
		case Continue:
			i.console.Line(ContinuingText)
			i.coordinator.Resume()
			i.transition(ResolvedContinue)
			i.transition(Idle)
			return Continue, true
		case Terminate:
			i.console.Line(TerminatingText)
			i.transition(ResolvedTerminate)
			return Terminate, true
		default:
			i.transition(Retry)
			i.console.Line(InvalidText)
			i.coordinator.Rearm()
			i.transition(Prompting)
			i.console.Prompt(PromptText)
		}
	}
}

func (i *Interceptor) transition(state RoundState) {
	i.logger.Debug("round state", "state", state)
	if i.OnStateChange != nil {
		i.OnStateChange(state)
	}
}
