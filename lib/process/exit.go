// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// InterruptedExitCode is the shell convention for a process ended by
// SIGINT (128 + 2).
const InterruptedExitCode = 128 + int(syscall.SIGINT)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for setup errors reported before the console exists.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// ExitCode maps the error returned by exec.Cmd.Wait to a shell-style
// exit status: 0 for a nil error, the child's own code for a normal
// exit, and 128+signal when the child was killed by a signal. Any
// other error (the wait itself failed) maps to 1.
func ExitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return 1
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return exitErr.ExitCode()
}
