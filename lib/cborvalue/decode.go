// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cborvalue

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/x448/float16"
)

// Limits applied when a DecodeOptions field is zero.
const (
	DefaultMaxNestedLevels    = 512
	DefaultMaxContainerLength = 1 << 24
	DefaultMaxStringLength    = 1 << 26
)

// Major types (RFC 8949 §3.1).
const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7
)

const (
	infoOneByte     = 24
	infoTwoBytes    = 25
	infoFourBytes   = 26
	infoEightBytes  = 27
	infoIndefinite  = 31
	breakByte       = 0xff
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
)

// DecodeOptions bounds the resources a single decode may consume. The
// zero value selects the defaults above.
type DecodeOptions struct {
	// MaxNestedLevels is the deepest nesting of arrays, maps and tags
	// accepted. A top-level array is at level 1.
	MaxNestedLevels int

	// MaxContainerLength caps the number of elements of an array or
	// pairs of a map.
	MaxContainerLength int

	// MaxStringLength caps the byte length of a byte or text string,
	// summed across chunks for indefinite-length strings.
	MaxStringLength int
}

func (o DecodeOptions) withDefaults() DecodeOptions {
	if o.MaxNestedLevels <= 0 {
		o.MaxNestedLevels = DefaultMaxNestedLevels
	}
	if o.MaxContainerLength <= 0 {
		o.MaxContainerLength = DefaultMaxContainerLength
	}
	if o.MaxStringLength <= 0 {
		o.MaxStringLength = DefaultMaxStringLength
	}
	return o
}

// Decode decodes data as exactly one CBOR data item using the default
// limits. Trailing bytes after the item are an error.
func Decode(data []byte) (Value, error) {
	return DecodeOptions{}.Decode(data)
}

// DecodeFirst decodes the first CBOR data item in data using the default
// limits and returns it with the remaining unconsumed bytes. Use it to
// walk CBOR sequences (RFC 8742) one item at a time.
func DecodeFirst(data []byte) (Value, []byte, error) {
	return DecodeOptions{}.DecodeFirst(data)
}

// Decode decodes data as exactly one CBOR data item.
func (o DecodeOptions) Decode(data []byte) (Value, error) {
	value, rest, err := o.DecodeFirst(data)
	if err != nil {
		return Value{}, err
	}
	if len(rest) > 0 {
		return Value{}, CorruptedAt(len(data)-len(rest), "%d unexpected trailing bytes after item", len(rest))
	}
	return value, nil
}

// DecodeFirst decodes the first CBOR data item in data and returns the
// remaining bytes.
func (o DecodeOptions) DecodeFirst(data []byte) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, CorruptedAt(0, "empty input")
	}
	state := decodeState{data: data, options: o.withDefaults()}
	value, err := state.value(0)
	if err != nil {
		return Value{}, nil, err
	}
	return value, data[state.offset:], nil
}

// decodeState is a cursor over the input. It only ever moves forward.
type decodeState struct {
	data    []byte
	offset  int
	options DecodeOptions
}

func (d *decodeState) remaining() int { return len(d.data) - d.offset }

func (d *decodeState) readByte() (byte, error) {
	if d.offset >= len(d.data) {
		return 0, CorruptedAt(d.offset, "unexpected end of input")
	}
	b := d.data[d.offset]
	d.offset++
	return b, nil
}

func (d *decodeState) peekByte() (byte, bool) {
	if d.offset >= len(d.data) {
		return 0, false
	}
	return d.data[d.offset], true
}

func (d *decodeState) readN(n int) ([]byte, error) {
	if n > d.remaining() {
		return nil, CorruptedAt(d.offset, "unexpected end of input: need %d bytes, %d remain", n, d.remaining())
	}
	chunk := d.data[d.offset : d.offset+n]
	d.offset += n
	return chunk, nil
}

// argument reads the argument encoded by the additional information of
// the head that started at start.
func (d *decodeState) argument(info byte, start int) (uint64, error) {
	switch {
	case info < infoOneByte:
		return uint64(info), nil
	case info == infoOneByte:
		b, err := d.readN(1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case info == infoTwoBytes:
		b, err := d.readN(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint16(b)), nil
	case info == infoFourBytes:
		b, err := d.readN(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint32(b)), nil
	case info == infoEightBytes:
		b, err := d.readN(8)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(b), nil
	case info == infoIndefinite:
		return 0, CorruptedAt(start, "indefinite length not allowed for major type %d", d.data[start]>>5)
	default:
		return 0, CorruptedAt(start, "reserved additional information %d", info)
	}
}

func (d *decodeState) value(depth int) (Value, error) {
	start := d.offset
	initial, err := d.readByte()
	if err != nil {
		return Value{}, err
	}
	major := initial >> 5
	info := initial & 0x1f

	switch major {
	case majorUnsigned, majorNegative:
		n, err := d.argument(info, start)
		if err != nil {
			return Value{}, err
		}
		if major == majorUnsigned {
			return Unsigned(n), nil
		}
		return Negative(n), nil

	case majorBytes, majorText:
		if info == infoIndefinite {
			return d.indefiniteString(major, start)
		}
		n, err := d.argument(info, start)
		if err != nil {
			return Value{}, err
		}
		contents, err := d.stringBody(major, n, start)
		if err != nil {
			return Value{}, err
		}
		if major == majorBytes {
			return Value{kind: KindBytes, raw: contents}, nil
		}
		return Value{kind: KindText, raw: contents}, nil

	case majorArray:
		if err := d.enter(depth, start); err != nil {
			return Value{}, err
		}
		if info == infoIndefinite {
			return d.indefiniteArray(depth, start)
		}
		n, err := d.argument(info, start)
		if err != nil {
			return Value{}, err
		}
		// Every element occupies at least one byte.
		if err := d.checkLength(n, 1, start, "array"); err != nil {
			return Value{}, err
		}
		elements := make([]Value, 0, int(n))
		for range n {
			element, err := d.value(depth + 1)
			if err != nil {
				return Value{}, err
			}
			elements = append(elements, element)
		}
		return Value{kind: KindArray, items: elements}, nil

	case majorMap:
		if err := d.enter(depth, start); err != nil {
			return Value{}, err
		}
		if info == infoIndefinite {
			return d.indefiniteMap(depth, start)
		}
		n, err := d.argument(info, start)
		if err != nil {
			return Value{}, err
		}
		if err := d.checkLength(n, 2, start, "map"); err != nil {
			return Value{}, err
		}
		pairs := make([]Pair, 0, int(n))
		for range n {
			pair, err := d.pair(depth)
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, pair)
		}
		return Value{kind: KindMap, pairs: pairs}, nil

	case majorTag:
		if err := d.enter(depth, start); err != nil {
			return Value{}, err
		}
		number, err := d.argument(info, start)
		if err != nil {
			return Value{}, err
		}
		child, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		return Tagged(number, child), nil

	default:
		return d.simple(info, start)
	}
}

// enter checks that an array, map or tag inside depth enclosing
// containers stays within the nesting limit.
func (d *decodeState) enter(depth int, start int) error {
	if depth+1 > d.options.MaxNestedLevels {
		err := CorruptedAt(start, "nesting exceeds %d levels", d.options.MaxNestedLevels)
		err.Err = ErrTooDeeplyNested
		return err
	}
	return nil
}

// checkLength rejects a declared container length that could not fit in
// the remaining input, before anything is allocated for it.
func (d *decodeState) checkLength(n uint64, minItemBytes int, start int, what string) error {
	if n > uint64(d.options.MaxContainerLength) {
		return CorruptedAt(start, "%s length %d exceeds limit %d", what, n, d.options.MaxContainerLength)
	}
	if n > uint64(d.remaining()/minItemBytes) {
		return CorruptedAt(start, "%s declares %d entries but only %d bytes remain", what, n, d.remaining())
	}
	return nil
}

func (d *decodeState) stringBody(major byte, n uint64, start int) ([]byte, error) {
	if n > uint64(d.options.MaxStringLength) {
		return nil, CorruptedAt(start, "string length %d exceeds limit %d", n, d.options.MaxStringLength)
	}
	if n > uint64(d.remaining()) {
		return nil, CorruptedAt(start, "string declares %d bytes but only %d remain", n, d.remaining())
	}
	body, err := d.readN(int(n))
	if err != nil {
		return nil, err
	}
	if major == majorText && !utf8.Valid(body) {
		return nil, CorruptedAt(start, "text string is not valid UTF-8")
	}
	return append([]byte(nil), body...), nil
}

func (d *decodeState) indefiniteString(major byte, start int) (Value, error) {
	var contents []byte
	for {
		next, ok := d.peekByte()
		if !ok {
			return Value{}, CorruptedAt(start, "indefinite-length string missing break")
		}
		if next == breakByte {
			d.offset++
			break
		}
		chunkStart := d.offset
		d.offset++
		if next>>5 != major {
			return Value{}, CorruptedAt(chunkStart, "indefinite-length string chunk has major type %d, want %d", next>>5, major)
		}
		if next&0x1f == infoIndefinite {
			return Value{}, CorruptedAt(chunkStart, "nested indefinite-length string chunk")
		}
		n, err := d.argument(next&0x1f, chunkStart)
		if err != nil {
			return Value{}, err
		}
		if n > uint64(d.options.MaxStringLength-len(contents)) {
			return Value{}, CorruptedAt(chunkStart, "string length exceeds limit %d", d.options.MaxStringLength)
		}
		chunk, err := d.stringBody(major, n, chunkStart)
		if err != nil {
			return Value{}, err
		}
		contents = append(contents, chunk...)
	}
	if major == majorBytes {
		return Value{kind: KindBytes, raw: contents}, nil
	}
	return Value{kind: KindText, raw: contents}, nil
}

func (d *decodeState) indefiniteArray(depth int, start int) (Value, error) {
	elements := []Value{}
	for {
		next, ok := d.peekByte()
		if !ok {
			return Value{}, CorruptedAt(start, "indefinite-length array missing break")
		}
		if next == breakByte {
			d.offset++
			return Value{kind: KindArray, items: elements}, nil
		}
		if len(elements) >= d.options.MaxContainerLength {
			return Value{}, CorruptedAt(start, "array length exceeds limit %d", d.options.MaxContainerLength)
		}
		element, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, element)
	}
}

func (d *decodeState) indefiniteMap(depth int, start int) (Value, error) {
	pairs := []Pair{}
	for {
		next, ok := d.peekByte()
		if !ok {
			return Value{}, CorruptedAt(start, "indefinite-length map missing break")
		}
		if next == breakByte {
			d.offset++
			return Value{kind: KindMap, pairs: pairs}, nil
		}
		if len(pairs) >= d.options.MaxContainerLength {
			return Value{}, CorruptedAt(start, "map length exceeds limit %d", d.options.MaxContainerLength)
		}
		pair, err := d.pair(depth)
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, pair)
	}
}

func (d *decodeState) pair(depth int) (Pair, error) {
	key, err := d.value(depth + 1)
	if err != nil {
		return Pair{}, err
	}
	value, err := d.value(depth + 1)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Key: key, Value: value}, nil
}

func (d *decodeState) simple(info byte, start int) (Value, error) {
	switch {
	case info < simpleFalse:
		return Simple(info), nil
	case info == simpleFalse:
		return Bool(false), nil
	case info == simpleTrue:
		return Bool(true), nil
	case info == simpleNull:
		return Null(), nil
	case info == simpleUndefined:
		return Undefined(), nil
	case info == infoOneByte:
		b, err := d.readByte()
		if err != nil {
			return Value{}, err
		}
		if b < 32 {
			return Value{}, CorruptedAt(start, "simple value %d must use the one-byte encoding", b)
		}
		return Simple(b), nil
	case info == infoTwoBytes:
		b, err := d.readN(2)
		if err != nil {
			return Value{}, err
		}
		half := float16.Frombits(binary.BigEndian.Uint16(b))
		return Float(float64(half.Float32())), nil
	case info == infoFourBytes:
		b, err := d.readN(4)
		if err != nil {
			return Value{}, err
		}
		return Float(float64(math.Float32frombits(binary.BigEndian.Uint32(b)))), nil
	case info == infoEightBytes:
		b, err := d.readN(8)
		if err != nil {
			return Value{}, err
		}
		return Float(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case info == infoIndefinite:
		return Value{}, CorruptedAt(start, "break outside an indefinite-length item")
	default:
		return Value{}, CorruptedAt(start, "reserved additional information %d", info)
	}
}
