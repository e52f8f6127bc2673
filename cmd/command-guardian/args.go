// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"

	"github.com/SNKK62/command-guardian/lib/config"
)

// invocation is the parsed command line.
type invocation struct {
	config  *config.Config
	command string
	args    []string

	help    bool
	version bool
}

// parseArgs parses flags up to the first positional argument, loads the
// configuration, and applies flag overrides. Usage problems are written
// to stderr and returned as exitStatus(1).
func parseArgs(args []string, stderr io.Writer) (*invocation, error) {
	var configPath, logLevel, color, commandLine string
	var result invocation

	flagSet := pflag.NewFlagSet("command-guardian", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	// Everything after the command belongs to the command.
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&commandLine, "command-line", "c", "", "run this shell-quoted command line instead of <command> [args...]")
	flagSet.StringVar(&configPath, "config", "", "config file (.yaml, .yml, .json, .jsonc); default $"+config.EnvironmentVariable)
	flagSet.StringVar(&logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error (default warn)")
	flagSet.StringVar(&color, "color", "", "color output: auto, always, never (default auto)")
	flagSet.BoolVar(&result.version, "version", false, "print version information and exit")
	flagSet.BoolVarP(&result.help, "help", "h", false, "show help")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			result.help = true
			return &result, nil
		}
		fmt.Fprintf(stderr, "command-guardian: %v\n", err)
		printUsage(stderr, flagSet)
		return nil, exitStatus(1)
	}
	if result.help {
		printUsage(stderr, flagSet)
		return &result, nil
	}
	if result.version {
		return &result, nil
	}

	positional := flagSet.Args()
	if commandLine != "" {
		if len(positional) > 0 {
			fmt.Fprintf(stderr, "command-guardian: --command-line cannot be combined with positional arguments\n")
			return nil, exitStatus(1)
		}
		words, err := shellquote.Split(commandLine)
		if err != nil {
			fmt.Fprintf(stderr, "command-guardian: --command-line: %v\n", err)
			return nil, exitStatus(1)
		}
		positional = words
	}
	if len(positional) == 0 {
		printUsage(stderr, flagSet)
		return nil, exitStatus(1)
	}
	result.command = positional[0]
	result.args = positional[1:]

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flagSet.Changed("color") {
		cfg.Color = config.ColorMode(color)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	result.config = cfg

	return &result, nil
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Usage: command-guardian [flags] <command> [args...]
       command-guardian [flags] -c '<command line>'

Run <command> and ask for confirmation before Ctrl-C interrupts it.

Flags:
%s`, flagSet.FlagUsages())
}
