// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package child

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/SNKK62/command-guardian/lib/process"
	"github.com/SNKK62/command-guardian/terminal"
)

var (
	// ErrNotStarted wraps every launch failure: the executable was not
	// found, could not be executed, or its stdin pipe could not be
	// created.
	ErrNotStarted = errors.New("child process not started")

	// ErrExited is returned when signaling a child that has already
	// been reaped.
	ErrExited = errors.New("child process already exited")
)

// Child is a running (or finished) supervised command.
type Child struct {
	// Pid is the child's process ID. It does not change after launch.
	Pid int

	// Stdin is the write end of the child's stdin pipe. Closing it
	// makes the child observe end of file.
	Stdin io.WriteCloser

	cmd *exec.Cmd

	// done is closed after cmd.Wait returns; waitErr is written before
	// the close and read only after it.
	done    chan struct{}
	waitErr error
}

// Launch starts name with args. The child's stdout and stderr are the
// slave ends of the given channels, which are closed in the parent once
// the child holds its own copies. On failure the slaves are left open
// and the returned error wraps [ErrNotStarted].
func Launch(name string, args []string, stdout, stderr *terminal.Channel) (*Child, error) {
	stdinReader, stdinWriter, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: create stdin pipe: %w", ErrNotStarted, err)
	}

	cmd := exec.Command(name, args...)
	cmd.Stdin = stdinReader
	cmd.Stdout = stdout.Slave
	cmd.Stderr = stderr.Slave
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		stdinReader.Close()
		stdinWriter.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrNotStarted, name, err)
	}

	// The child has its own copies now.
	stdinReader.Close()
	stdout.CloseSlave()
	stderr.CloseSlave()

	child := &Child{
		Pid:   cmd.Process.Pid,
		Stdin: stdinWriter,
		cmd:   cmd,
		done:  make(chan struct{}),
	}
	go child.waitLoop()
	return child, nil
}

func (c *Child) waitLoop() {
	c.waitErr = c.cmd.Wait()
	close(c.done)
}

// Done returns a channel that is closed when the child has exited and
// been reaped.
func (c *Child) Done() <-chan struct{} {
	return c.done
}

// Exited reports whether the child has exited.
func (c *Child) Exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the child exits and returns the error from
// exec.Cmd.Wait: nil for exit status 0, an *exec.ExitError otherwise.
func (c *Child) Wait() error {
	<-c.done
	return c.waitErr
}

// Err returns the wait error, or nil while the child is still running.
func (c *Child) Err() error {
	if !c.Exited() {
		return nil
	}
	return c.waitErr
}

// ExitCode returns the child's shell-style exit status (128+signal when
// it was killed by a signal), or -1 while it is still running.
func (c *Child) ExitCode() int {
	if !c.Exited() {
		return -1
	}
	return process.ExitCode(c.waitErr)
}

// Interrupt sends SIGINT to the child.
func (c *Child) Interrupt() error {
	return c.Signal(unix.SIGINT)
}

// Signal delivers sig to the child's pid. The signal goes to the
// process only, not to its session or process group.
func (c *Child) Signal(sig unix.Signal) error {
	if c.Exited() {
		return ErrExited
	}
	if err := unix.Kill(c.Pid, sig); err != nil {
		return fmt.Errorf("send %s to pid %d: %w", unix.SignalName(sig), c.Pid, err)
	}
	return nil
}
