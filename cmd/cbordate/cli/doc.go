// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for cbordate.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct whose tags
// become pflag flags ([FlagsFromParams]), and a Run function. Commands
// are assembled into a tree in cmd/cbordate/main.go and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing,
// and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Errors returned by commands are either a [ToolError], which carries a
// category and exit status, or an [ExitError], which carries only an
// exit status for commands that already printed their verdict.
// [NewCommandLogger] builds the slog logger commands use for
// diagnostics on stderr.
package cli
