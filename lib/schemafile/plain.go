// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemafile

import (
	"math"

	"github.com/bureau-foundation/cbordate/lib/cbortag"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// Plain converts a value to Go values that encoding/json can render:
//
//   - integers become int64 or uint64; negatives below the int64 range
//     become their diagnostic text
//   - floats become float64, with NaN and infinities as "NaN", "Infinity",
//     and "-Infinity"
//   - maps become map[string]any keyed by the text or decimal key, or by
//     the diagnostic form of any other key
//   - tags 0 and 1 become time.Time when they coerce to a date
//   - other tags become {"tag": n, "value": ...}
//   - simple values become {"simple": n}; null and undefined become nil
func Plain(v cborvalue.Value) any {
	switch v.Kind() {
	case cborvalue.KindUnsigned:
		n, _ := v.Uint64()
		return n
	case cborvalue.KindNegative:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.String()
	case cborvalue.KindBytes:
		b, _ := v.ByteString()
		return b
	case cborvalue.KindText:
		s, _ := v.TextString()
		return s
	case cborvalue.KindArray:
		elements, _ := v.Elements()
		result := make([]any, len(elements))
		for i, element := range elements {
			result[i] = Plain(element)
		}
		return result
	case cborvalue.KindMap:
		pairs, _ := v.Pairs()
		result := make(map[string]any, len(pairs))
		for _, pair := range pairs {
			result[plainKey(pair.Key)] = Plain(pair.Value)
		}
		return result
	case cborvalue.KindTag:
		number, child, _ := v.Tag()
		if cbortag.IsDateTag(number) {
			if t, err := cbortag.ProbeDate(v); err == nil {
				return t
			}
		}
		return map[string]any{"tag": number, "value": Plain(child)}
	case cborvalue.KindFloat:
		f, _ := v.Float64()
		switch {
		case math.IsNaN(f):
			return "NaN"
		case math.IsInf(f, 1):
			return "Infinity"
		case math.IsInf(f, -1):
			return "-Infinity"
		}
		return f
	case cborvalue.KindBool:
		b, _ := v.Boolean()
		return b
	case cborvalue.KindSimple:
		n, _ := v.SimpleValue()
		return map[string]any{"simple": n}
	default:
		return nil
	}
}

func plainKey(key cborvalue.Value) string {
	if s, ok := key.TextString(); ok {
		return s
	}
	return key.String()
}
