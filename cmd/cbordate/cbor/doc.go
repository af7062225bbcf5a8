// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbor implements the cbordate subcommands for decoding,
// inspecting, and producing CBOR documents that carry tagged dates.
//
// Subcommands:
//
//   - decode: convert CBOR to JSON, optionally through a schema file.
//   - date: decode a single tag 0 or tag 1 date item.
//   - encode: write a date-time as a tagged CBOR date.
//   - diag: convert CBOR to RFC 8949 Extended Diagnostic Notation.
//   - inspect: list every value with its coding path.
//   - validate: check well-formedness within the decoder limits.
//
// Every reading subcommand accepts input from stdin or from a file path
// argument. Input may be hex (--hex) and may be framed as zstd or LZ4,
// which is removed before decoding according to --decompress or the
// input.decompress setting. Decoder limits, the date mode, and the
// schema directory come from the configuration file named by --config
// or $CBORDATE_CONFIG.
//
// Decode failures are logged with the coding path, byte offset, and
// BLAKE3 digest of the input, and returned as validation errors
// (exit code 2). The validate subcommand instead reports malformed
// input as a verdict with exit code 1.
package cbor
