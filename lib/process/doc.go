// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the command-guardian
// binary: fatal error reporting before the console and logger exist,
// and translation of a child's wait status into the exit code the
// supervisor itself exits with.
package process
