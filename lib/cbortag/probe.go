// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"errors"
	"time"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// Coercer is one attempt at turning a value into a date. A Coercer
// returns an error instead of guessing when the value is not its shape.
type Coercer func(cborvalue.Value) (time.Time, error)

// Chain tries coercers in order and returns the first success.
type Chain []Coercer

// Coerce runs the chain against v. When every coercer fails the error
// is DataCorrupted and wraps each individual failure.
func (c Chain) Coerce(v cborvalue.Value) (time.Time, error) {
	var failures []error
	for _, coerce := range c {
		t, err := coerce(v)
		if err == nil {
			return t, nil
		}
		failures = append(failures, err)
	}
	err := cborvalue.Corrupted(nil, "%s did not coerce to a date", v)
	err.Err = errors.Join(failures...)
	return time.Time{}, err
}

// ProbeChain accepts either date tag and tries its payload as epoch
// seconds first, then as text.
var ProbeChain = Chain{probeNumeric, probeText}

func probeNumeric(v cborvalue.Value) (time.Time, error) {
	child, err := dateChild(v)
	if err != nil {
		return time.Time{}, err
	}
	return EpochDate(child)
}

func probeText(v cborvalue.Value) (time.Time, error) {
	child, err := dateChild(v)
	if err != nil {
		return time.Time{}, err
	}
	text, ok := child.TextString()
	if !ok {
		return time.Time{}, cborvalue.Corrupted(nil, "date payload is %s, want text string", child.Kind())
	}
	return ParseDateText(text)
}

func dateChild(v cborvalue.Value) (cborvalue.Value, error) {
	number, child, ok := v.Tag()
	if !ok || !IsDateTag(number) {
		return cborvalue.Value{}, cborvalue.Corrupted(nil, "%s is not a recognized date tag", v)
	}
	return child, nil
}

// ProbeDate coerces v with the ProbeChain.
func ProbeDate(v cborvalue.Value) (time.Time, error) {
	return ProbeChain.Coerce(v)
}

// DateFromBytes reads a date from the encoded bytes of a single tagged
// item. The first byte must be 0xc0 or 0xc1 and at least one payload
// byte must follow; the payload is then probed like ProbeDate.
func DateFromBytes(data []byte) (time.Time, error) {
	if len(data) < 2 {
		return time.Time{}, cborvalue.CorruptedAt(0, "date needs a tag byte and a payload, got %d bytes", len(data))
	}
	var number uint64
	switch data[0] {
	case 0xc0:
		number = TagDateTimeString
	case 0xc1:
		number = TagEpochDateTime
	default:
		return time.Time{}, cborvalue.CorruptedAt(0, "first byte %#02x is not a date tag", data[0])
	}
	child, err := cborvalue.Decode(data[1:])
	if err != nil {
		var decodeError *cborvalue.DecodeError
		if errors.As(err, &decodeError) && decodeError.Offset >= 0 {
			shifted := *decodeError
			shifted.Offset++
			return time.Time{}, &shifted
		}
		return time.Time{}, err
	}
	return ProbeDate(cborvalue.Tagged(number, child))
}
