// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schemafile describes CBOR map layouts in files instead of Go
// code, so the cbordate command can decode documents it was not
// compiled against.
//
// A schema file lists fields by name, CBOR map key, and type:
//
//	name: event
//	fields:
//	  - name: when
//	    key: 0
//	    type: date
//	  - name: active
//	    key: 3
//	    type: bool
//	  - name: tags
//	    key: labels
//	    type: array
//	    items: string
//	    optional: true
//
// The same structure is accepted as YAML, as JSON with comments and
// trailing commas (.json, .jsonc), or as TOML with [[fields]] tables.
// [Compile] turns a [Definition] into a [Schema] built on
// lib/cbordecode, so file-described schemas get the same partial
// decoding, coding paths, and error kinds as Go-declared ones. The
// result is a [Record] keyed by field name.
//
// [Plain] converts an arbitrary value into the same JSON-friendly form
// used for "value" fields and for schema-less decoding.
package schemafile
