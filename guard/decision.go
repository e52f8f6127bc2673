// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"fmt"
	"strings"
)

// Decision is the outcome of one prompt answer.
type Decision int

const (
	// Continue resumes relaying. It is also the initial value.
	Continue Decision = iota
	// Terminate interrupts the child and ends the supervisor.
	Terminate
	// Invalid re-displays the prompt.
	Invalid
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Terminate:
		return "terminate"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// ParseAnswer maps a prompt answer to a Decision. Surrounding
// whitespace (including the line terminator) is ignored. Only an
// uppercase "Y" terminates.
func ParseAnswer(line string) Decision {
	switch strings.TrimSpace(line) {
	case "Y":
		return Terminate
	case "n", "N", "":
		return Continue
	default:
		return Invalid
	}
}

// RoundState is the Interceptor's position in a confirmation round.
type RoundState int

const (
	// Idle means no round is active and output is relayed.
	Idle RoundState = iota
	// Prompting means the prompt is displayed and an answer is
	// outstanding.
	Prompting
	// Retry means an invalid answer was received and the prompt is
	// about to be shown again.
	Retry
	// ResolvedContinue means the round ended with Continue.
	ResolvedContinue
	// ResolvedTerminate means the round ended with Terminate.
	ResolvedTerminate
)

func (s RoundState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Prompting:
		return "prompting"
	case Retry:
		return "retry"
	case ResolvedContinue:
		return "resolved-continue"
	case ResolvedTerminate:
		return "resolved-terminate"
	default:
		return fmt.Sprintf("RoundState(%d)", int(s))
	}
}
