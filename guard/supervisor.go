// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/SNKK62/command-guardian/child"
	"github.com/SNKK62/command-guardian/lib/clock"
	"github.com/SNKK62/command-guardian/lib/config"
	"github.com/SNKK62/command-guardian/lib/console"
	"github.com/SNKK62/command-guardian/lib/process"
	"github.com/SNKK62/command-guardian/terminal"
)

// Options configures a Supervisor. Zero-valued fields get the defaults
// noted on each field.
type Options struct {
	// Command is the executable to run. Required.
	Command string
	// Args are passed to Command.
	Args []string

	// Stdin, Stdout and Stderr are the real streams. Defaults:
	// os.Stdin, os.Stdout, os.Stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Console receives prompts and status lines. Default: a
	// color-detecting Console on Stdout.
	Console *console.Console

	// Signals carries interrupts. Default: os.Interrupt registered with
	// signal.Notify for the duration of Run.
	Signals <-chan os.Signal

	// Geometry sizes both pty channels. Default: terminal.DefaultGeometry.
	Geometry terminal.Geometry

	// Grace bounds how long Run waits for the child after a confirmed
	// termination, and for the output relays to drain after a natural
	// exit. Default: 3s.
	Grace time.Duration

	// PropagateExitCode makes Run return the child's exit code.
	PropagateExitCode bool

	// Clock times the grace waits. Default: clock.Real().
	Clock clock.Clock

	// Logger receives diagnostics. Default: slog.Default().
	Logger *slog.Logger

	// OnStateChange is passed to the Interceptor.
	OnStateChange func(RoundState)
}

// DefaultGrace is used when Options.Grace is zero.
const DefaultGrace = 3 * time.Second

// Supervisor runs one command under interrupt confirmation.
type Supervisor struct {
	options Options
}

// New returns a Supervisor for options, filling in defaults.
func New(options Options) *Supervisor {
	if options.Stdin == nil {
		options.Stdin = os.Stdin
	}
	if options.Stdout == nil {
		options.Stdout = os.Stdout
	}
	if options.Stderr == nil {
		options.Stderr = os.Stderr
	}
	if options.Console == nil {
		options.Console = console.New(options.Stdout, config.ColorAuto)
	}
	if options.Geometry == (terminal.Geometry{}) {
		options.Geometry = terminal.DefaultGeometry
	}
	if options.Grace == 0 {
		options.Grace = DefaultGrace
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Supervisor{options: options}
}

// Run launches the command and supervises it until it exits or the
// user confirms termination. It returns the exit code the supervisor
// should exit with.
//
// Setup failures (pty allocation, launch) return exit code 1 and an
// error; nothing has been printed for them. If ctx is cancelled the
// child is interrupted and Run returns once it exits (or the grace
// period passes) with ctx's error.
func (s *Supervisor) Run(ctx context.Context) (int, error) {
	options := s.options
	logger := options.Logger

	stdoutChannel, stderrChannel, err := terminal.Allocate(options.Geometry)
	if err != nil {
		return 1, err
	}
	logger.Debug("pty channels allocated", "geometry", options.Geometry)

	proc, err := child.Launch(options.Command, options.Args, stdoutChannel, stderrChannel)
	if err != nil {
		stdoutChannel.Close()
		stderrChannel.Close()
		return 1, err
	}
	options.Console.Successf("Invoked child process successfully (PID: %d)", proc.Pid)
	logger.Info("child started", "pid", proc.Pid, "command", options.Command)

	coordinator := NewCoordinator()
	defer coordinator.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := options.Signals
	if signals == nil {
		notified := make(chan os.Signal, 1)
		signal.Notify(notified, os.Interrupt)
		defer signal.Stop(notified)
		signals = notified
	}

	var relays sync.WaitGroup
	for _, relay := range []*OutputRelay{
		NewOutputRelay("stdout", stdoutChannel.Master, options.Stdout, coordinator, logger),
		NewOutputRelay("stderr", stderrChannel.Master, options.Stderr, coordinator, logger),
	} {
		relays.Add(1)
		go func() {
			defer relays.Done()
			relay.Run()
		}()
	}
	relaysDone := make(chan struct{})
	go func() {
		relays.Wait()
		close(relaysDone)
	}()

	// The input relay may stay blocked on stdin after Run returns; the
	// process exits right after, so it is not waited for.
	input := NewInputRelay(options.Stdin, proc.Stdin, proc.Interrupt, coordinator, logger)
	go input.Run()

	interceptor := NewInterceptor(coordinator, signals, options.Console, logger)
	interceptor.OnStateChange = options.OnStateChange
	interceptorDone := make(chan error, 1)
	go func() { interceptorDone <- interceptor.Run(ctx) }()

	inputFailed := input.Failed()
	for {
		select {
		case <-proc.Done():
			if coordinator.Decision() == Terminate {
				// The child died from the confirmed interrupt before
				// the interceptor finished reporting it.
				if interceptorDone != nil {
					<-interceptorDone
				}
				return s.terminated(proc, relaysDone), nil
			}
			s.await(relaysDone, "output relays")
			options.Console.Line("Command finished.")
			logger.Info("child exited", "pid", proc.Pid, "exit_code", proc.ExitCode())
			return s.naturalExitCode(proc), nil

		case err := <-interceptorDone:
			interceptorDone = nil
			if errors.Is(err, ErrTerminated) {
				return s.terminated(proc, relaysDone), nil
			}

		case err := <-inputFailed:
			inputFailed = nil
			logger.Error("input relay stopped forwarding", "error", err)
			options.Console.Errorf("Input to the command failed: %v", err)

		case <-ctx.Done():
			logger.Info("supervisor cancelled, interrupting child", "pid", proc.Pid)
			if err := proc.Interrupt(); err != nil && !errors.Is(err, child.ErrExited) {
				logger.Warn("interrupting child failed", "error", err)
			}
			s.await(proc.Done(), "child exit")
			return process.InterruptedExitCode, fmt.Errorf("supervise %s: %w", options.Command, ctx.Err())
		}
	}
}

// terminated finishes a confirmed termination. The child has already
// been sent SIGINT by the input relay.
func (s *Supervisor) terminated(proc *child.Child, relaysDone <-chan struct{}) int {
	exited := s.await(proc.Done(), "child exit")
	if exited {
		s.await(relaysDone, "output relays")
	}
	s.options.Console.Success("Program terminated.")
	if !exited {
		s.options.Logger.Warn("child still running after grace period", "pid", proc.Pid, "grace", s.options.Grace)
		return process.InterruptedExitCode
	}
	s.options.Logger.Info("child terminated", "pid", proc.Pid, "exit_code", proc.ExitCode())
	if !s.options.PropagateExitCode {
		return process.InterruptedExitCode
	}
	return proc.ExitCode()
}

func (s *Supervisor) naturalExitCode(proc *child.Child) int {
	if !s.options.PropagateExitCode {
		return 0
	}
	return proc.ExitCode()
}

// await waits for done for at most the grace period and reports whether
// it closed in time.
func (s *Supervisor) await(done <-chan struct{}, what string) bool {
	select {
	case <-done:
		return true
	case <-s.options.Clock.After(s.options.Grace):
		s.options.Logger.Debug("grace period elapsed", "waiting_for", what, "grace", s.options.Grace)
		return false
	}
}
