// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for cbordate packages.
//
// [MustHex] turns a spaced hex fixture such as "A2 00 C1 1A 682C4A77
// 03 F5" into bytes, so tests can quote wire fixtures the way they are
// written in RFC 8949 and bug reports.
//
// [WriteFile] writes a fixture into the test's temporary directory and
// returns its path, for commands and loaders that read from disk.
//
// [RequireErrorIs] and [RequireDecodeError] encapsulate the errors.Is
// and errors.As checks that nearly every decode test repeats, and
// report the full error chain on failure.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
