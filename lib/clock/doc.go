// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Code that waits on wall-clock time accepts a Clock instead of calling
// time.After or time.Sleep directly. In production, Real() provides the
// standard library behavior. In tests, Fake() provides a deterministic
// clock that advances only when Advance is called.
//
// The supervisor uses a Clock for the termination grace period: after
// the user confirms termination it waits a bounded time for the
// interrupted child to exit. Tests drive that wait with a FakeClock:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	// ... start the supervisor with c ...
//	c.WaitForTimers(1)         // wait for the grace timer to register
//	c.Advance(3 * time.Second) // expire it deterministically
package clock
