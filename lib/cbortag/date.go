// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"math"
	"time"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// Epoch seconds outside [minEpochSeconds, maxEpochSeconds] are rejected:
// 0001-01-01T00:00:00Z through 9999-12-31T23:59:59Z, the range every
// grammar can format.
const (
	minEpochSeconds = -62135596800
	maxEpochSeconds = 253402300799
)

// DateFrom coerces a tag 0 or tag 1 value to a UTC instant. Tag 0 must
// wrap text in one of the grammars; tag 1 must wrap an integer or float.
func DateFrom(v cborvalue.Value) (time.Time, error) {
	number, child, ok := v.Tag()
	if !ok || !IsDateTag(number) {
		return time.Time{}, cborvalue.Corrupted(nil, "%s is not a recognized date tag", v)
	}
	if number == TagEpochDateTime {
		return EpochDate(child)
	}
	text, ok := child.TextString()
	if !ok {
		return time.Time{}, cborvalue.Corrupted(nil, "tag 0 date holds %s, want text string", child.Kind())
	}
	return ParseDateText(text)
}

// EpochDate interprets an untagged integer or float as seconds since
// 1970-01-01T00:00:00Z. Floats carry fractional seconds.
func EpochDate(v cborvalue.Value) (time.Time, error) {
	switch v.Kind() {
	case cborvalue.KindUnsigned, cborvalue.KindNegative:
		seconds, ok := v.Int64()
		if !ok || seconds < minEpochSeconds || seconds > maxEpochSeconds {
			return time.Time{}, cborvalue.Corrupted(nil, "epoch seconds %s out of range", v)
		}
		return time.Unix(seconds, 0).UTC(), nil

	case cborvalue.KindFloat:
		f, _ := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, cborvalue.Corrupted(nil, "epoch seconds %v is not finite", f)
		}
		if f < minEpochSeconds || f >= maxEpochSeconds+1 {
			return time.Time{}, cborvalue.Corrupted(nil, "epoch seconds %v out of range", f)
		}
		whole := math.Floor(f)
		nanos := int64(math.Round((f - whole) * 1e9))
		return time.Unix(int64(whole), nanos).UTC(), nil

	default:
		return time.Time{}, cborvalue.Corrupted(nil, "epoch date holds %s, want integer or float", v.Kind())
	}
}

// EncodeEpoch returns t as a tag 1 value: an integer when t has no
// sub-second part, a float otherwise.
func EncodeEpoch(t time.Time) cborvalue.Value {
	if t.Nanosecond() == 0 {
		return cborvalue.Tagged(TagEpochDateTime, cborvalue.Int(t.Unix()))
	}
	seconds := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return cborvalue.Tagged(TagEpochDateTime, cborvalue.Float(seconds))
}
