// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content digests for CBOR documents.
//
// The inspect command reports a digest alongside the decoded structure
// so captures can be compared and deduplicated without diffing bytes.
// Digests use BLAKE3 keyed mode with a fixed document domain key, so
// they never collide with plain BLAKE3 sums of the same bytes.
//
// The API surface:
//
//   - [Sum] and [HashReader] -- digest a buffer or a stream
//   - [HashFile] -- streams a file through the hash with constant
//     memory usage regardless of file size
//   - [FormatDigest] and [ParseDigest] -- the canonical hex form
//
// This package has no dependencies on other cbordate packages.
package binhash
