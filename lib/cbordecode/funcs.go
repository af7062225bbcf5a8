// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbordecode

import (
	"time"

	"github.com/bureau-foundation/cbordate/lib/cbortag"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// DecodeFunc converts one decoded value into a Go value. path is the
// coding path of v and must be attached to any error returned.
type DecodeFunc[V any] func(v cborvalue.Value, path cborvalue.Path) (V, error)

// AsBool decodes a boolean.
func AsBool(v cborvalue.Value, path cborvalue.Path) (bool, error) {
	b, ok := v.Boolean()
	if !ok {
		return false, cborvalue.Mismatch(path, "boolean", v.Kind())
	}
	return b, nil
}

// AsInt64 decodes an unsigned or negative integer that fits in int64.
func AsInt64(v cborvalue.Value, path cborvalue.Path) (int64, error) {
	if i, ok := v.Int64(); ok {
		return i, nil
	}
	if v.Kind() == cborvalue.KindUnsigned || v.Kind() == cborvalue.KindNegative {
		return 0, cborvalue.Corrupted(path, "integer %s does not fit in int64", v)
	}
	return 0, cborvalue.Mismatch(path, "integer", v.Kind())
}

// AsUint64 decodes an unsigned integer.
func AsUint64(v cborvalue.Value, path cborvalue.Path) (uint64, error) {
	n, ok := v.Uint64()
	if !ok {
		return 0, cborvalue.Mismatch(path, "unsigned integer", v.Kind())
	}
	return n, nil
}

// AsFloat64 decodes a float. Integers are accepted when float64
// represents them exactly.
func AsFloat64(v cborvalue.Value, path cborvalue.Path) (float64, error) {
	if f, ok := v.Float64(); ok {
		return f, nil
	}
	if i, ok := v.Int64(); ok {
		f := float64(i)
		if f < -(1<<53) || f > 1<<53 {
			return 0, cborvalue.Corrupted(path, "integer %d is not exactly representable as float64", i)
		}
		return f, nil
	}
	if v.Kind() == cborvalue.KindUnsigned || v.Kind() == cborvalue.KindNegative {
		return 0, cborvalue.Corrupted(path, "integer %s is not exactly representable as float64", v)
	}
	return 0, cborvalue.Mismatch(path, "float", v.Kind())
}

// AsString decodes a text string.
func AsString(v cborvalue.Value, path cborvalue.Path) (string, error) {
	s, ok := v.TextString()
	if !ok {
		return "", cborvalue.Mismatch(path, "text string", v.Kind())
	}
	return s, nil
}

// AsBytes decodes a byte string.
func AsBytes(v cborvalue.Value, path cborvalue.Path) ([]byte, error) {
	b, ok := v.ByteString()
	if !ok {
		return nil, cborvalue.Mismatch(path, "byte string", v.Kind())
	}
	return b, nil
}

// AsValue returns v unchanged.
func AsValue(v cborvalue.Value, _ cborvalue.Path) (cborvalue.Value, error) {
	return v, nil
}

// AsDate decodes a tag 0 or tag 1 date strictly: tag 0 must hold text
// and tag 1 must hold a number.
func AsDate(v cborvalue.Value, path cborvalue.Path) (time.Time, error) {
	t, err := cbortag.DateFrom(v)
	if err != nil {
		return time.Time{}, cborvalue.AtPath(err, path)
	}
	return t, nil
}

// AsProbedDate decodes a date under either tag, trying the payload as
// epoch seconds and then as text.
func AsProbedDate(v cborvalue.Value, path cborvalue.Path) (time.Time, error) {
	t, err := cbortag.ProbeDate(v)
	if err != nil {
		return time.Time{}, cborvalue.AtPath(err, path)
	}
	return t, nil
}
