// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package terminal allocates the pseudo-terminal channels that carry a
// supervised command's output, and discovers the geometry they should
// have.
//
// Each output stream of the child gets its own [Channel]: the child
// writes to the slave end, and the supervisor reads the master end.
// Because the slave is a terminal, programs keep their interactive
// behavior (line buffering, colors) even though their output is being
// relayed. Both channels are sized to the real terminal at allocation
// time; later resizes are not propagated.
package terminal
