// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"log/slog"
	"testing"
	"time"

	"github.com/SNKK62/command-guardian/lib/testutil"
)

const testTimeout = 10 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// respond plays the input relay's part: wait for an open prompt, then
// submit decision.
func respond(t *testing.T, coordinator *Coordinator, decision Decision) {
	t.Helper()
	testutil.RequireEventually(t, coordinator.Confirming, testTimeout, "prompt open before answering %s", decision)
	if !coordinator.Submit(decision) {
		t.Fatalf("Submit(%s) rejected with a prompt open", decision)
	}
}
