// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared fxamacker/cbor configuration used
// alongside the hand-written stream decoder in lib/cborvalue.
//
// The stream decoder owns reading: it preserves distinctions the
// reflection-based decoder folds away (undefined vs null, unassigned
// simple values, repeated map keys, exact byte offsets). This package
// owns everything else that touches the wire:
//
//   - [EncodeValue] writes a decoded [cborvalue.Value] back to bytes,
//     which makes round-trip properties testable.
//   - [MarshalDate] produces tag 0 and tag 1 dates from time.Time.
//   - [Diagnose] and [DiagnoseFirst] render RFC 8949 diagnostic
//     notation for the CLI and for error reports.
//   - [Wellformed] is an independent well-formedness check used to
//     cross-validate the stream decoder.
//
// All modes are built once in init and are safe for concurrent use.
package codec
