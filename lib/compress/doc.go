// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress unwraps compressed CBOR input before decoding.
//
// CBOR captures are often stored zstd- or LZ4-framed. [Detect] looks
// at the leading frame magic number and [Decompress] unwraps the
// payload under a caller-supplied size cap, so a small compressed
// file cannot expand into an unbounded allocation ahead of the
// decoder's own length limits. [Compress] produces the same frames and
// is used when writing encoded dates back out.
//
// Only frame formats are handled. Bare LZ4 blocks carry no magic
// number and no length, so they cannot be told apart from CBOR.
package compress
