// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"errors"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// item is one top-level data item of the input.
type item struct {
	value cborvalue.Value

	// offset is where the item starts in the input.
	offset int

	// raw is the item's encoded bytes.
	raw []byte
}

// decodeItems decodes data as exactly one item, or with sequence set as
// an RFC 8742 CBOR sequence of zero or more items. Error offsets are
// relative to the start of data.
func decodeItems(options cborvalue.DecodeOptions, data []byte, sequence bool) ([]item, error) {
	if !sequence {
		v, err := options.Decode(data)
		if err != nil {
			return nil, err
		}
		return []item{{value: v, raw: data}}, nil
	}

	var items []item
	for offset := 0; offset < len(data); {
		v, rest, err := options.DecodeFirst(data[offset:])
		if err != nil {
			return nil, shiftOffset(err, offset)
		}
		end := len(data) - len(rest)
		items = append(items, item{value: v, offset: offset, raw: data[offset:end]})
		offset = end
	}
	return items, nil
}

// shiftOffset moves the byte offset of a stream decoder error by delta.
func shiftOffset(err error, delta int) error {
	var decodeError *cborvalue.DecodeError
	if delta == 0 || !errors.As(err, &decodeError) || decodeError.Offset < 0 {
		return err
	}
	shifted := *decodeError
	shifted.Offset += delta
	return &shifted
}
