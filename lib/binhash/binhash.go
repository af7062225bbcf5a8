// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed hash of a CBOR document.
type Digest [32]byte

// documentDomainKey separates document digests from any other BLAKE3
// use of the same bytes. It is the ASCII domain name, zero-padded to
// 32 bytes. Changing it invalidates every recorded digest.
var documentDomainKey = [32]byte{
	'c', 'b', 'o', 'r', 'd', 'a', 't', 'e', '.', 'd', 'o', 'c', 'u', 'm', 'e', 'n',
	't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

func newHasher() *blake3.Hasher {
	hasher, err := blake3.NewKeyed(documentDomainKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("blake3 keyed hasher: " + err.Error())
	}
	return hasher
}

// Sum returns the document digest of data. Digests are always taken
// over the decompressed CBOR bytes, so the same document hashes the
// same whether it arrived raw, zstd-framed, or LZ4-framed.
func Sum(data []byte) Digest {
	hasher := newHasher()
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// HashReader streams reader through the hash function with constant
// memory usage.
func HashReader(reader io.Reader) (Digest, error) {
	hasher := newHasher()
	if _, err := io.Copy(hasher, reader); err != nil {
		return Digest{}, err
	}
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// HashFile computes the digest of the file at path without loading it
// into memory.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, err := HashReader(file)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, nil
}

// String returns the hex encoding of the digest.
func (digest Digest) String() string {
	return FormatDigest(digest)
}

// FormatDigest returns the hex-encoded string representation of a
// digest. This is the format used in command output and log lines.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a hex-encoded digest string. Returns an error if
// the string is not a valid 64-character hex encoding of 32 bytes.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing document digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("document digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
