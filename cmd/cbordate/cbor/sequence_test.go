// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
	"github.com/bureau-foundation/cbordate/lib/config"
	"github.com/bureau-foundation/cbordate/lib/testutil"
)

func TestDecodeItems(t *testing.T) {
	options := config.Default().DecodeOptions()

	// true, 1(0), "a" as a sequence.
	data := testutil.MustHex(t, "f5 c100 6161")
	items, err := decodeItems(options, data, true)
	if err != nil {
		t.Fatalf("decodeItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	wantOffsets := []int{0, 1, 3}
	for i, decoded := range items {
		if decoded.offset != wantOffsets[i] {
			t.Errorf("item %d offset = %d, want %d", i, decoded.offset, wantOffsets[i])
		}
	}
	if !bytes.Equal(items[1].raw, []byte{0xc1, 0x00}) {
		t.Errorf("item 1 raw = %x, want c100", items[1].raw)
	}

	if _, err := decodeItems(options, data, false); err == nil {
		t.Error("a sequence should fail without sequence mode")
	}

	empty, err := decodeItems(options, nil, true)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty sequence = (%v, %v), want no items", empty, err)
	}
}

func TestShiftOffset(t *testing.T) {
	original := cborvalue.CorruptedAt(1, "unexpected end of input")

	shifted := shiftOffset(original, 4)
	var decodeError *cborvalue.DecodeError
	if !errors.As(shifted, &decodeError) || decodeError.Offset != 5 {
		t.Fatalf("shiftOffset = %v, want offset 5", shifted)
	}
	if original.Offset != 1 {
		t.Errorf("shiftOffset modified the original error (offset %d)", original.Offset)
	}

	tree := cborvalue.Corrupted(nil, "not a date")
	if got := shiftOffset(tree, 4); got != error(tree) {
		t.Errorf("errors without an offset should pass through unchanged, got %v", got)
	}
}
