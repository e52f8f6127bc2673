// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// command-guardian runs a command and asks for confirmation before a
// Ctrl-C is allowed to interrupt it.
//
// Usage:
//
//	command-guardian [flags] <command> [args...]
//
// The command's output is relayed through pseudo-terminals, so it keeps
// its interactive formatting. Its input is relayed line by line. When
// Ctrl-C is pressed the command's output is paused and a prompt asks
// whether to terminate it: "Y" sends it SIGINT, "n", "N" or Enter
// resumes. The command runs in its own session and never sees the
// terminal's Ctrl-C directly.
//
// The exit status is the command's own exit status, 128+N when it was
// killed by signal N, and 130 when a confirmed termination could not be
// observed within the grace period.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/SNKK62/command-guardian/child"
	"github.com/SNKK62/command-guardian/guard"
	"github.com/SNKK62/command-guardian/lib/console"
	"github.com/SNKK62/command-guardian/lib/process"
	"github.com/SNKK62/command-guardian/lib/version"
	"github.com/SNKK62/command-guardian/terminal"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

func run(args []string) error {
	invocation, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}
	switch {
	case invocation.help:
		return nil
	case invocation.version:
		fmt.Printf("command-guardian %s\n", version.Info())
		return nil
	}

	cfg := invocation.config
	logger := newLogger(cfg.LogLevel)

	fallback := terminal.Geometry{Rows: cfg.Terminal.Rows, Columns: cfg.Terminal.Columns}
	geometry := terminal.Detect(int(os.Stdout.Fd()), fallback)
	logger.Debug("terminal geometry", "geometry", geometry, "fallback", fallback)

	supervisor := guard.New(guard.Options{
		Command:           invocation.command,
		Args:              invocation.args,
		Console:           console.New(os.Stdout, cfg.Color),
		Geometry:          geometry,
		Grace:             cfg.Termination.Grace.Std(),
		PropagateExitCode: cfg.ExitCode.Propagate,
		Logger:            logger,
	})

	code, err := supervisor.Run(context.Background())
	if errors.Is(err, child.ErrNotStarted) {
		console.New(os.Stderr, cfg.Color).Errorf("Failed to invoke child process: %v", err)
		return exitStatus(1)
	}
	if err != nil {
		return err
	}
	if code != 0 {
		return exitStatus(code)
	}
	return nil
}

// exitStatus is returned from run to exit with a status without
// printing anything further.
type exitStatus int

func (s exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(s)) }

func (s exitStatus) ExitCode() int { return int(s) }
