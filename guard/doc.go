// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package guard relays a supervised command's terminal I/O and asks for
// confirmation before an interrupt is allowed to reach it.
//
// After launch, five goroutines run against one shared [Coordinator]:
//
//   - two [OutputRelay] workers copy the stdout and stderr pty masters
//     to the real streams, discarding chunks while output is suppressed;
//   - one [InputRelay] reads lines from the real stdin and either
//     forwards them to the child or, during a confirmation round,
//     records them as answers;
//   - one [Interceptor] turns each SIGINT into a confirmation round:
//     suppress output, prompt, wait for an answer, act on it;
//   - the child waiter owned by the child package.
//
// A round starts when the Interceptor receives an interrupt. Output is
// suppressed and the prompt is shown. The Input Relay parses the next
// line with [ParseAnswer] and hands the [Decision] to the Interceptor
// over a single-slot channel. "Y" interrupts the child and ends the
// supervisor; "n", "N" or an empty line resumes relaying; anything else
// re-prompts. Lines typed while a retry is being set up wait for the
// new prompt instead of being forwarded to the child.
//
// [Supervisor] wires the workers together and owns the process-level
// lifecycle: pty allocation, launch, status lines and the exit code.
package guard
