// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

// MustHex decodes a hex fixture, ignoring spaces and newlines.
//
//	data := testutil.MustHex(t, "A2 00 C1 1A 682C4A77 03 F5")
func MustHex(t TB, fixture string) []byte {
	t.Helper()
	compact := strings.Join(strings.Fields(fixture), "")
	data, err := hex.DecodeString(compact)
	if err != nil {
		t.Fatalf("invalid hex fixture %q: %v", fixture, err)
	}
	return data
}

// TempDirer is the subset of testing.TB WriteFile needs.
type TempDirer interface {
	TB
	TempDir() string
}

// WriteFile writes data to name inside the test's temporary directory
// and returns the absolute path.
func WriteFile(t TempDirer, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}
