// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cborvalue

import (
	"bytes"
	"fmt"
	"math"
)

// Kind identifies which variant a [Value] holds. The set is closed:
// every well-formed CBOR data item decodes to exactly one of these.
type Kind uint8

const (
	// KindInvalid is the zero Kind. A zero Value has this kind and is
	// never produced by the decoder.
	KindInvalid Kind = iota
	KindUnsigned
	KindNegative
	KindBytes
	KindText
	KindArray
	KindMap
	KindTag
	KindFloat
	KindBool
	KindNull
	KindUndefined
	KindSimple
)

// String returns the human-readable name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindUnsigned:
		return "unsigned integer"
	case KindNegative:
		return "negative integer"
	case KindBytes:
		return "byte string"
	case KindText:
		return "text string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindTag:
		return "tagged value"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindSimple:
		return "simple value"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// Value is one decoded CBOR data item. Values are immutable once
// constructed; the slices returned by accessors must not be modified.
//
// The payload fields are shared between variants:
//
//   - number: the unsigned value, the negative argument n (value is
//     -1-n), the tag number, the simple value, or 1/0 for booleans.
//   - float: the floating-point value.
//   - raw: byte string contents, or text string contents as bytes.
//   - items: array elements, or the single tagged child.
//   - pairs: map entries in wire order.
type Value struct {
	kind   Kind
	number uint64
	float  float64
	raw    []byte
	items  []Value
	pairs  []Pair
}

// Pair is one map entry. Maps keep every pair in wire order, including
// duplicate keys; see [Value.Lookup] for the lookup policy.
type Pair struct {
	Key   Value
	Value Value
}

// Unsigned returns a major type 0 value.
func Unsigned(n uint64) Value { return Value{kind: KindUnsigned, number: n} }

// Negative returns a major type 1 value whose integer value is -1-n.
// Storing the wire argument keeps the full range down to -2^64 lossless.
func Negative(n uint64) Value { return Value{kind: KindNegative, number: n} }

// Int returns the integer i as an unsigned or negative value.
func Int(i int64) Value {
	if i >= 0 {
		return Unsigned(uint64(i))
	}
	return Negative(uint64(-(i + 1)))
}

// Bytes returns a byte string value.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }

// Text returns a text string value.
func Text(s string) Value { return Value{kind: KindText, raw: []byte(s)} }

// Array returns an array value holding elements in order.
func Array(elements ...Value) Value {
	if elements == nil {
		elements = []Value{}
	}
	return Value{kind: KindArray, items: elements}
}

// Map returns a map value holding pairs in order.
func Map(pairs ...Pair) Value {
	if pairs == nil {
		pairs = []Pair{}
	}
	return Value{kind: KindMap, pairs: pairs}
}

// Tagged returns tag number wrapping child.
func Tagged(number uint64, child Value) Value {
	return Value{kind: KindTag, number: number, items: []Value{child}}
}

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.number = 1
	}
	return v
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Undefined returns the undefined value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Simple returns an unassigned simple value. Simple values 20-23 are
// false/true/null/undefined and should be built with their dedicated
// constructors; the decoder never produces Simple for them.
func Simple(n uint8) Value { return Value{kind: KindSimple, number: uint64(n)} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v is anything other than the zero Value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Uint64 returns the value of an unsigned integer.
func (v Value) Uint64() (uint64, bool) {
	if v.kind != KindUnsigned {
		return 0, false
	}
	return v.number, true
}

// Int64 returns the value of an unsigned or negative integer when it
// fits in an int64.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindUnsigned:
		if v.number > math.MaxInt64 {
			return 0, false
		}
		return int64(v.number), true
	case KindNegative:
		if v.number > math.MaxInt64 {
			return 0, false
		}
		return -1 - int64(v.number), true
	default:
		return 0, false
	}
}

// NegativeArgument returns the wire argument n of a negative integer
// whose value is -1-n.
func (v Value) NegativeArgument() (uint64, bool) {
	if v.kind != KindNegative {
		return 0, false
	}
	return v.number, true
}

// ByteString returns the contents of a byte string.
func (v Value) ByteString() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.raw, true
}

// TextString returns the contents of a text string.
func (v Value) TextString() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return string(v.raw), true
}

// Elements returns the elements of an array.
func (v Value) Elements() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.items, true
}

// Pairs returns the entries of a map in wire order.
func (v Value) Pairs() ([]Pair, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.pairs, true
}

// Tag returns the tag number and child of a tagged value.
func (v Value) Tag() (uint64, Value, bool) {
	if v.kind != KindTag {
		return 0, Value{}, false
	}
	return v.number, v.items[0], true
}

// Float64 returns the value of a float.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.float, true
}

// Boolean returns the value of a boolean.
func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.number == 1, true
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsUndefined reports whether v is undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// SimpleValue returns the number of an unassigned simple value.
func (v Value) SimpleValue() (uint8, bool) {
	if v.kind != KindSimple {
		return 0, false
	}
	return uint8(v.number), true
}

// Len returns the number of elements of an array, pairs of a map, or
// bytes of a string. It returns 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindMap:
		return len(v.pairs)
	case KindBytes, KindText:
		return len(v.raw)
	default:
		return 0
	}
}

// Lookup returns the value stored under key in a map. When the wire
// map repeats a key, the last occurrence wins. Lookup on anything
// other than a map reports false.
func (v Value) Lookup(key Value) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for i := len(v.pairs) - 1; i >= 0; i-- {
		if v.pairs[i].Key.Equal(key) {
			return v.pairs[i].Value, true
		}
	}
	return Value{}, false
}

// Index returns element i of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Equal reports structural equality. Floats compare by bit pattern so
// that NaN payloads and signed zeros are distinguished.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUnsigned, KindNegative, KindBool, KindSimple:
		return v.number == other.number
	case KindFloat:
		return math.Float64bits(v.float) == math.Float64bits(other.float)
	case KindBytes, KindText:
		return bytes.Equal(v.raw, other.raw)
	case KindTag:
		return v.number == other.number && v.items[0].Equal(other.items[0])
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.pairs) != len(other.pairs) {
			return false
		}
		for i := range v.pairs {
			if !v.pairs[i].Key.Equal(other.pairs[i].Key) || !v.pairs[i].Value.Equal(other.pairs[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String returns a short description for logs and error messages. Use
// lib/codec.Diagnose for full diagnostic notation.
func (v Value) String() string {
	switch v.kind {
	case KindUnsigned:
		return fmt.Sprintf("%d", v.number)
	case KindNegative:
		if i, ok := v.Int64(); ok {
			return fmt.Sprintf("%d", i)
		}
		return fmt.Sprintf("-1-%d", v.number)
	case KindBytes:
		return fmt.Sprintf("h'%x'", v.raw)
	case KindText:
		return fmt.Sprintf("%q", v.raw)
	case KindArray:
		return fmt.Sprintf("array(%d)", len(v.items))
	case KindMap:
		return fmt.Sprintf("map(%d)", len(v.pairs))
	case KindTag:
		return fmt.Sprintf("%d(%s)", v.number, v.items[0])
	case KindFloat:
		return fmt.Sprintf("%g", v.float)
	case KindBool:
		if v.number == 1 {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindSimple:
		return fmt.Sprintf("simple(%d)", v.number)
	default:
		return "<invalid>"
	}
}
