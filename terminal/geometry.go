// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

import (
	"errors"
	"fmt"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by [Size] when the file descriptor is not
// a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// Geometry is a terminal size in character cells.
type Geometry struct {
	Rows    uint16
	Columns uint16
}

// DefaultGeometry is used when the real terminal size is unavailable.
var DefaultGeometry = Geometry{Rows: 24, Columns: 80}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Columns)
}

// Size returns the geometry of the terminal open on fd.
func Size(fd int) (Geometry, error) {
	if !term.IsTerminal(fd) {
		return Geometry{}, fmt.Errorf("file descriptor %d: %w", fd, ErrNotTerminal)
	}
	columns, rows, err := term.GetSize(fd)
	if err != nil {
		return Geometry{}, fmt.Errorf("get terminal size: %w", err)
	}
	if rows <= 0 || columns <= 0 {
		return Geometry{}, fmt.Errorf("terminal reports empty size %dx%d", rows, columns)
	}
	return Geometry{Rows: uint16(rows), Columns: uint16(columns)}, nil
}

// Detect returns the geometry of the terminal on fd, or fallback when
// fd is not a terminal or its size cannot be read.
func Detect(fd int, fallback Geometry) Geometry {
	geometry, err := Size(fd)
	if err != nil {
		return fallback
	}
	return geometry
}
