// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

import (
	"errors"
	"fmt"
	"os"

	"github.com/creack/pty"
)

// Channel is one pseudo-terminal pair. Bytes written to Slave are
// readable from Master.
type Channel struct {
	Master *os.File
	Slave  *os.File
}

// Open allocates a pseudo-terminal pair with the given window size.
func Open(geometry Geometry) (*Channel, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}

	size := &pty.Winsize{Rows: geometry.Rows, Cols: geometry.Columns}
	if err := pty.Setsize(master, size); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("set pty size %s: %w", geometry, err)
	}

	return &Channel{Master: master, Slave: slave}, nil
}

// CloseSlave closes the slave end. The supervisor calls this once the
// child holds its own copy, so that the master sees end of stream when
// the child exits.
func (c *Channel) CloseSlave() error {
	if c.Slave == nil {
		return nil
	}
	err := c.Slave.Close()
	c.Slave = nil
	return err
}

// Close closes both ends.
func (c *Channel) Close() error {
	slaveErr := c.CloseSlave()
	masterErr := c.Master.Close()
	return errors.Join(slaveErr, masterErr)
}

// Allocate opens the two channels used for a child's stdout and stderr.
// On failure nothing is left open.
func Allocate(geometry Geometry) (stdout, stderr *Channel, err error) {
	stdout, err = Open(geometry)
	if err != nil {
		return nil, nil, fmt.Errorf("allocate stdout channel: %w", err)
	}
	stderr, err = Open(geometry)
	if err != nil {
		stdout.Close()
		return nil, nil, fmt.Errorf("allocate stderr channel: %w", err)
	}
	return stdout, stderr, nil
}
