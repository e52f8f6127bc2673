// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"testing"

	"github.com/SNKK62/command-guardian/lib/testutil"
)

func TestCoordinatorInitialState(t *testing.T) {
	t.Parallel()

	coordinator := NewCoordinator()
	if coordinator.Suppressed() || coordinator.Confirming() {
		t.Error("new Coordinator has a round active")
	}
	if got := coordinator.Decision(); got != Continue {
		t.Errorf("initial Decision() = %s, want continue", got)
	}
	if coordinator.Submit(Terminate) {
		t.Error("Submit accepted an answer with no prompt open")
	}
}

func TestCoordinatorRound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		decision       Decision
		wantSuppressed bool
	}{
		{Continue, true},
		{Invalid, true},
		{Terminate, false},
	}

	for _, test := range tests {
		t.Run(test.decision.String(), func(t *testing.T) {
			t.Parallel()

			coordinator := NewCoordinator()
			coordinator.BeginRound()
			if !coordinator.Suppressed() || !coordinator.Confirming() {
				t.Fatal("BeginRound did not set both flags")
			}

			if !coordinator.Submit(test.decision) {
				t.Fatal("Submit rejected with a prompt open")
			}
			if coordinator.Confirming() {
				t.Error("Confirming() still true after Submit")
			}
			if got := coordinator.Suppressed(); got != test.wantSuppressed {
				t.Errorf("Suppressed() = %v, want %v", got, test.wantSuppressed)
			}
			if got := coordinator.Decision(); got != test.decision {
				t.Errorf("Decision() = %s, want %s", got, test.decision)
			}
			if got := testutil.RequireReceive(t, coordinator.Answers(), testTimeout, "answer published"); got != test.decision {
				t.Errorf("Answers() delivered %s, want %s", got, test.decision)
			}
			if coordinator.Submit(test.decision) {
				t.Error("second Submit accepted without re-arming")
			}
		})
	}
}

func TestCoordinatorAwaitLineWaitsForRearm(t *testing.T) {
	t.Parallel()

	coordinator := NewCoordinator()
	coordinator.BeginRound()
	coordinator.Submit(Invalid)
	<-coordinator.Answers()

	type route struct{ answer, ok bool }
	routed := make(chan route, 1)
	go func() {
		answer, ok := coordinator.awaitLine()
		routed <- route{answer, ok}
	}()

	select {
	case r := <-routed:
		t.Fatalf("awaitLine returned %+v between answer and re-prompt", r)
	default:
	}

	coordinator.Rearm()
	if got := testutil.RequireReceive(t, routed, testTimeout, "awaitLine after Rearm"); !got.answer || !got.ok {
		t.Errorf("awaitLine after Rearm = %+v, want answer", got)
	}
}

func TestCoordinatorAwaitLineAfterResume(t *testing.T) {
	t.Parallel()

	coordinator := NewCoordinator()
	coordinator.BeginRound()
	coordinator.Submit(Continue)

	routed := make(chan bool, 1)
	go func() {
		answer, _ := coordinator.awaitLine()
		routed <- answer
	}()

	coordinator.Resume()
	if testutil.RequireReceive(t, routed, testTimeout, "awaitLine after Resume") {
		t.Error("line after Resume routed as an answer, want forwarded")
	}
}

func TestCoordinatorCloseReleasesWaiters(t *testing.T) {
	t.Parallel()

	coordinator := NewCoordinator()
	coordinator.BeginRound()
	coordinator.Submit(Continue)

	lineDone := make(chan bool, 1)
	go func() {
		_, ok := coordinator.awaitLine()
		lineDone <- ok
	}()
	promptDone := make(chan bool, 1)
	go func() {
		promptDone <- coordinator.awaitPrompt()
	}()

	coordinator.Close()
	if testutil.RequireReceive(t, lineDone, testTimeout, "awaitLine after Close") {
		t.Error("awaitLine reported ok after Close")
	}
	if testutil.RequireReceive(t, promptDone, testTimeout, "awaitPrompt after Close") {
		t.Error("awaitPrompt reported an open prompt after Close")
	}
}
