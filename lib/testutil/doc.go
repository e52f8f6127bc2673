// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with a time.After fallback) so individual tests
// do not need direct time.After calls. [RequireEventually] polls a
// condition that is observable only through shared state, such as the
// coordinator flags or bytes accumulating in a relay's output buffer.
// [SyncBuffer] is a bytes.Buffer that is safe to write from a relay
// goroutine while the test reads it.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no internal dependencies.
package testutil
