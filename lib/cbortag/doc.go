// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbortag coerces tagged CBOR values into time.Time.
//
// Two tags carry dates (RFC 8949 §3.4.1, §3.4.2):
//
//   - Tag 0 wraps a text string in one of three ISO 8601 grammars,
//     tried in order: date-time with fractional seconds
//     ("2017-01-23T10:12:31.484Z"), date-time without a fraction
//     ("2021-06-30T19:22:31Z"), and calendar date only ("2016-06-13",
//     read as midnight UTC).
//   - Tag 1 wraps epoch seconds as an integer or a float.
//
// [DateFrom] is strict: it dispatches on the tag and fails when the
// payload does not match the tag's expected shape. [ProbeDate] and
// [DateFromBytes] are lenient: they run the [ProbeChain], which tries
// a numeric payload first and text second under either date tag, so
// producers that put epoch seconds under tag 0 still decode.
//
// Every failure is a *cborvalue.DecodeError of kind DataCorrupted.
// The grammar table and tag registry are package-level and never
// modified, so every function here is safe for concurrent use.
package cbortag
