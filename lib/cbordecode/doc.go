// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbordecode maps decoded CBOR trees onto Go values.
//
// [KeyedContainer] and [UnkeyedContainer] are views over a decoded map
// or array that track the coding path, so every error names the field
// that failed ("items[3].when"). A [Schema] is an explicit list of
// fields, each binding a map key to a [DecodeFunc] and a setter:
//
//	var dateAndBool = cbordecode.MustSchema(
//		cbordecode.Field("date", cbordecode.IntKey(0), cbordecode.AsDate,
//			func(r *Record, v time.Time) { r.Date = v }),
//		cbordecode.Field("bool", cbordecode.IntKey(3), cbordecode.AsBool,
//			func(r *Record, v bool) { r.Bool = v }),
//	)
//
// Decoding is field-scoped. Map entries the schema does not name are
// never inspected, so a schema asking only for key 3 decodes a map
// whose other entries hold malformed dates. A required field that is
// missing fails with KeyNotFound, one of the wrong kind with
// TypeMismatch, and one whose date coercion fails with DataCorrupted.
// Bytes that are not well-formed CBOR fail every schema, since no tree
// can be built from them.
package cbordecode
