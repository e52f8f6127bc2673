// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package console writes the user-facing lines of command-guardian: the
// confirmation prompt, status lines and launch banners. These are not
// logs; they are part of the interactive surface and go to stdout next
// to the supervised command's own output.
//
// Styling uses lipgloss on a renderer bound to the destination writer.
// The color mode decides the termenv profile: auto detects it from the
// writer (and honors NO_COLOR), always forces ANSI, never forces plain
// text.
package console
