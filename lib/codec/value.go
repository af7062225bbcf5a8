// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// EncodeValue encodes a decoded value back to CBOR. Integers and
// lengths use their shortest form and floats the shortest width that
// preserves the value; map pairs keep their order, including duplicate
// keys. Decoding the output yields a value Equal to v.
func EncodeValue(v cborvalue.Value) ([]byte, error) {
	return appendValue(nil, v)
}

func appendValue(buffer []byte, v cborvalue.Value) ([]byte, error) {
	switch v.Kind() {
	case cborvalue.KindArray:
		elements, _ := v.Elements()
		raw := make([]cbor.RawMessage, len(elements))
		for i, element := range elements {
			encoded, err := appendValue(nil, element)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			raw[i] = encoded
		}
		return appendLeaf(buffer, raw)

	case cborvalue.KindMap:
		pairs, _ := v.Pairs()
		buffer = appendMapHead(buffer, uint64(len(pairs)))
		for i, pair := range pairs {
			var err error
			if buffer, err = appendValue(buffer, pair.Key); err != nil {
				return nil, fmt.Errorf("map key %d: %w", i, err)
			}
			if buffer, err = appendValue(buffer, pair.Value); err != nil {
				return nil, fmt.Errorf("map value %d: %w", i, err)
			}
		}
		return buffer, nil

	case cborvalue.KindTag:
		number, child, _ := v.Tag()
		content, err := appendValue(nil, child)
		if err != nil {
			return nil, fmt.Errorf("tag %d content: %w", number, err)
		}
		return appendLeaf(buffer, cbor.RawTag{Number: number, Content: content})

	case cborvalue.KindUnsigned:
		n, _ := v.Uint64()
		return appendLeaf(buffer, n)

	case cborvalue.KindNegative:
		if i, ok := v.Int64(); ok {
			return appendLeaf(buffer, i)
		}
		// -1-n with n beyond int64: the encoder narrows a big.Int to a
		// plain negative integer when it fits.
		n, _ := v.NegativeArgument()
		value := new(big.Int).SetUint64(n)
		value.Neg(value).Sub(value, big.NewInt(1))
		return appendLeaf(buffer, value)

	case cborvalue.KindBytes:
		b, _ := v.ByteString()
		if b == nil {
			b = []byte{}
		}
		return appendLeaf(buffer, b)

	case cborvalue.KindText:
		s, _ := v.TextString()
		return appendLeaf(buffer, s)

	case cborvalue.KindFloat:
		f, _ := v.Float64()
		return appendLeaf(buffer, f)

	case cborvalue.KindBool:
		b, _ := v.Boolean()
		return appendLeaf(buffer, b)

	case cborvalue.KindNull:
		return appendLeaf(buffer, nil)

	case cborvalue.KindUndefined:
		return appendLeaf(buffer, cbor.SimpleValue(23))

	case cborvalue.KindSimple:
		n, _ := v.SimpleValue()
		return appendLeaf(buffer, cbor.SimpleValue(n))

	default:
		return nil, fmt.Errorf("codec: cannot encode %s", v.Kind())
	}
}

func appendLeaf(buffer []byte, leaf any) ([]byte, error) {
	encoded, err := valueEncMode.Marshal(leaf)
	if err != nil {
		return nil, err
	}
	return append(buffer, encoded...), nil
}

// appendMapHead writes a major type 5 head. The leaf encoder has no
// notion of an ordered map with repeated keys, so the head is written
// directly and the pairs follow it.
func appendMapHead(buffer []byte, n uint64) []byte {
	const major = 5 << 5
	switch {
	case n < 24:
		return append(buffer, major|byte(n))
	case n <= math.MaxUint8:
		return append(buffer, major|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(buffer, major|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(buffer, major|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(buffer, major|27), n)
	}
}
