// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/SNKK62/command-guardian/child"
	"github.com/SNKK62/command-guardian/lib/clock"
	"github.com/SNKK62/command-guardian/lib/config"
	"github.com/SNKK62/command-guardian/lib/console"
	"github.com/SNKK62/command-guardian/lib/testutil"
)

type runResult struct {
	code int
	err  error
}

type supervisorHarness struct {
	output  *testutil.SyncBuffer
	errput  *testutil.SyncBuffer
	stdin   *io.PipeWriter
	signals chan os.Signal
	clock   *clock.FakeClock
	cancel  context.CancelFunc
	result  chan runResult
}

func startSupervisor(t *testing.T, propagate bool, command string, args ...string) *supervisorHarness {
	t.Helper()

	stdinReader, stdinWriter := io.Pipe()
	h := &supervisorHarness{
		output:  &testutil.SyncBuffer{},
		errput:  &testutil.SyncBuffer{},
		stdin:   stdinWriter,
		signals: make(chan os.Signal, 1),
		clock:   clock.Fake(time.Unix(1_800_000_000, 0)),
		result:  make(chan runResult, 1),
	}
	t.Cleanup(func() { stdinWriter.Close() })

	supervisor := New(Options{
		Command:           command,
		Args:              args,
		Stdin:             stdinReader,
		Stdout:            h.output,
		Stderr:            h.errput,
		Console:           console.New(h.output, config.ColorNever),
		Signals:           h.signals,
		PropagateExitCode: propagate,
		Clock:             h.clock,
		Logger:            discardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	t.Cleanup(cancel)
	go func() {
		code, err := supervisor.Run(ctx)
		h.result <- runResult{code, err}
	}()
	return h
}

func (h *supervisorHarness) waitForOutput(t *testing.T, text string) {
	t.Helper()
	testutil.RequireEventually(t, func() bool {
		return strings.Contains(h.output.String(), text)
	}, testTimeout, "output containing %q (have %q)", text, h.output.String())
}

func (h *supervisorHarness) send(t *testing.T, line string) {
	t.Helper()
	if _, err := io.WriteString(h.stdin, line); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
}

func (h *supervisorHarness) wait(t *testing.T) runResult {
	t.Helper()
	return testutil.RequireReceive(t, h.result, testTimeout, "supervisor Run returns")
}

var pidPattern = regexp.MustCompile(`\(PID: (\d+)\)`)

// childPid reads the pid from the launch banner.
func (h *supervisorHarness) childPid(t *testing.T) int {
	t.Helper()
	h.waitForOutput(t, "(PID: ")
	match := pidPattern.FindStringSubmatch(h.output.String())
	if match == nil {
		t.Fatalf("no pid in launch banner: %q", h.output.String())
	}
	pid, err := strconv.Atoi(match[1])
	if err != nil {
		t.Fatalf("parse pid %q: %v", match[1], err)
	}
	return pid
}

func skipIfInterruptIgnored(t *testing.T) {
	t.Helper()
	if signal.Ignored(os.Interrupt) {
		t.Skip("SIGINT is ignored by the test process and would be inherited by the child")
	}
}

func TestSupervisorNaturalExit(t *testing.T) {
	t.Parallel()

	h := startSupervisor(t, true, "/bin/sh", "-c", "echo hello; echo oops >&2")
	result := h.wait(t)

	if result.err != nil || result.code != 0 {
		t.Fatalf("Run() = (%d, %v), want (0, nil)", result.code, result.err)
	}

	output := h.output.String()
	for _, want := range []string{"Invoked child process successfully (PID: ", "hello", "Command finished."} {
		if !strings.Contains(output, want) {
			t.Errorf("stdout %q does not contain %q", output, want)
		}
	}
	if strings.Index(output, "hello") > strings.Index(output, "Command finished.") {
		t.Errorf("child output arrived after the completion line: %q", output)
	}
	if strings.Contains(output, PromptText) {
		t.Errorf("confirmation prompt shown without an interrupt: %q", output)
	}
	if !strings.Contains(h.errput.String(), "oops") {
		t.Errorf("stderr = %q, want the child's stderr", h.errput.String())
	}
	if strings.Contains(output, "oops") {
		t.Errorf("child stderr leaked into stdout: %q", output)
	}
}

func TestSupervisorExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		propagate bool
		want      int
	}{
		{"propagated", true, 4},
		{"not propagated", false, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			h := startSupervisor(t, test.propagate, "/bin/sh", "-c", "exit 4")
			if result := h.wait(t); result.code != test.want || result.err != nil {
				t.Errorf("Run() = (%d, %v), want (%d, nil)", result.code, result.err, test.want)
			}
		})
	}
}

func TestSupervisorContinueScenario(t *testing.T) {
	t.Parallel()

	h := startSupervisor(t, true, "/bin/sh", "-c", `while read line; do echo "echo:$line"; done`)
	h.waitForOutput(t, "Invoked child process successfully")

	h.signals <- os.Interrupt
	h.waitForOutput(t, PromptText)
	h.send(t, "N\n")
	h.waitForOutput(t, ContinuingText)

	h.send(t, "hello\n")
	h.waitForOutput(t, "echo:hello")

	output := h.output.String()
	if got := strings.Count(output, PromptText); got != 1 {
		t.Errorf("prompt shown %d times, want 1", got)
	}
	if strings.Contains(output, "echo:N") {
		t.Errorf("prompt answer was forwarded to the child: %q", output)
	}

	h.stdin.Close()
	result := h.wait(t)
	if result.code != 0 || result.err != nil {
		t.Errorf("Run() = (%d, %v), want (0, nil)", result.code, result.err)
	}
	h.waitForOutput(t, "Command finished.")
}

func TestSupervisorTerminateScenario(t *testing.T) {
	skipIfInterruptIgnored(t)
	t.Parallel()

	h := startSupervisor(t, true, "/bin/sh", "-c", "exec sleep 100")
	h.waitForOutput(t, "Invoked child process successfully")

	h.signals <- os.Interrupt
	h.waitForOutput(t, PromptText)
	h.send(t, "garbage\n")
	testutil.RequireEventually(t, func() bool {
		return strings.Count(h.output.String(), PromptText) == 2
	}, testTimeout, "prompt shown again after invalid answer")
	h.send(t, "Y\n")

	result := h.wait(t)
	if result.err != nil {
		t.Fatalf("Run() error = %v", result.err)
	}
	if result.code != 130 {
		t.Errorf("exit code = %d, want 130 from the interrupted child", result.code)
	}

	output := h.output.String()
	if got := strings.Count(output, InvalidText); got != 1 {
		t.Errorf("invalid message shown %d times, want 1", got)
	}
	for _, want := range []string{TerminatingText, "Program terminated."} {
		if !strings.Contains(output, want) {
			t.Errorf("stdout %q does not contain %q", output, want)
		}
	}
	if strings.Contains(output, "Command finished.") {
		t.Errorf("natural completion reported after a confirmed termination: %q", output)
	}
}

func TestSupervisorGraceExpires(t *testing.T) {
	t.Parallel()

	// The child ignores SIGINT, so a confirmed termination leaves it
	// running and the supervisor gives up after the grace period.
	h := startSupervisor(t, true, "/bin/sh", "-c", "trap '' INT; echo ready; exec sleep 100")
	pid := h.childPid(t)
	t.Cleanup(func() { unix.Kill(pid, unix.SIGKILL) })
	h.waitForOutput(t, "ready")

	h.signals <- os.Interrupt
	h.waitForOutput(t, PromptText)
	h.send(t, "Y\n")

	h.clock.WaitForTimers(1)
	h.clock.Advance(DefaultGrace)

	result := h.wait(t)
	if result.code != 130 || result.err != nil {
		t.Errorf("Run() = (%d, %v), want (130, nil)", result.code, result.err)
	}
	h.waitForOutput(t, "Program terminated.")

	if err := unix.Kill(pid, 0); err != nil {
		t.Errorf("child %d not alive after the grace period: %v", pid, err)
	}
}

func TestSupervisorStdinEndOfFile(t *testing.T) {
	t.Parallel()

	h := startSupervisor(t, true, "cat")
	h.waitForOutput(t, "Invoked child process successfully")

	h.send(t, "line one\npartial")
	h.stdin.Close()

	result := h.wait(t)
	if result.code != 0 || result.err != nil {
		t.Fatalf("Run() = (%d, %v), want (0, nil)", result.code, result.err)
	}
	for _, want := range []string{"line one", "partial"} {
		if !strings.Contains(h.output.String(), want) {
			t.Errorf("stdout %q does not contain %q", h.output.String(), want)
		}
	}
}

func TestSupervisorLaunchFailure(t *testing.T) {
	t.Parallel()

	h := startSupervisor(t, true, "command-guardian-test-no-such-binary")
	result := h.wait(t)

	if result.code != 1 {
		t.Errorf("exit code = %d, want 1", result.code)
	}
	if !errors.Is(result.err, child.ErrNotStarted) {
		t.Errorf("error = %v, want child.ErrNotStarted", result.err)
	}
	if strings.Contains(h.output.String(), "Invoked child process") {
		t.Errorf("launch banner printed for a failed launch: %q", h.output.String())
	}
}

func TestSupervisorCancel(t *testing.T) {
	skipIfInterruptIgnored(t)
	t.Parallel()

	h := startSupervisor(t, true, "/bin/sh", "-c", "exec sleep 100")
	h.waitForOutput(t, "Invoked child process successfully")

	h.cancel()
	result := h.wait(t)
	if result.code != 130 {
		t.Errorf("exit code = %d, want 130", result.code)
	}
	if !errors.Is(result.err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", result.err)
	}
}
