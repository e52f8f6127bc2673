// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for command-guardian.
//
// Configuration is optional. A file is loaded only when one is named by:
//   - the --config flag, or
//   - the COMMAND_GUARDIAN_CONFIG environment variable.
//
// Without either, [Default] is used unchanged. A file is merged over the
// defaults, so it only needs the fields it changes. The format follows
// the file extension: .yaml and .yml are YAML; .json and .jsonc are JSON
// with // and /* */ comments and trailing commas allowed; .toml is TOML.
package config
