// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package child launches and tracks the single supervised command.
//
// The command runs in a new session (setsid), so it has no controlling
// terminal and never receives the terminal's SIGINT when the user
// presses Ctrl-C. The only signals it sees are the ones the supervisor
// sends explicitly through [Child.Interrupt] or [Child.Signal].
//
// Its stdout and stderr are the slave ends of two pseudo-terminal
// channels; its stdin is a pipe whose write end is [Child.Stdin]. The
// parent's copies of the child-side descriptors are closed as soon as
// the process has started, so end of stream on the parent side follows
// the child's own lifetime.
package child
