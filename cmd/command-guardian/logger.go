// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// newLogger creates the diagnostic logger. When stderr is a terminal it
// uses slog.TextHandler for human-readable output; otherwise
// slog.JSONHandler. level is one of debug, info, warn or error and has
// already been validated.
func newLogger(level string) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: parseLevel(level)}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler).With("pid", os.Getpid())
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
