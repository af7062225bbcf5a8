// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Used for Go values.
var encMode cbor.EncMode

// valueEncMode encodes the leaves of a cborvalue.Value. It uses
// preferred serialization without sorting, since map order is written
// by EncodeValue itself, and leaves NaN payloads untouched so that
// decoding the output reproduces the original float bits.
var valueEncMode cbor.EncMode

// dateEncModes encode time.Time as tag 0 (RFC 3339 text) and tag 1
// (epoch seconds) respectively.
var (
	textDateEncMode  cbor.EncMode
	epochDateEncMode cbor.EncMode
)

// diagMode renders diagnostic notation with the same nesting ceiling as
// the stream decoder, so anything the decoder accepts can be shown.
var diagMode cbor.DiagMode

// decMode validates well-formedness with limits matching the stream
// decoder's defaults.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	valueOptions := cbor.PreferredUnsortedEncOptions()
	valueOptions.NaNConvert = cbor.NaNConvertNone
	valueEncMode, err = valueOptions.EncMode()
	if err != nil {
		panic("codec: CBOR value encoder initialization failed: " + err.Error())
	}

	textOptions := cbor.CoreDetEncOptions()
	textOptions.Time = cbor.TimeRFC3339Nano
	textOptions.TimeTag = cbor.EncTagRequired
	textDateEncMode, err = textOptions.EncMode()
	if err != nil {
		panic("codec: CBOR text date encoder initialization failed: " + err.Error())
	}

	epochOptions := cbor.CoreDetEncOptions()
	epochOptions.Time = cbor.TimeUnixDynamic
	epochOptions.TimeTag = cbor.EncTagRequired
	epochDateEncMode, err = epochOptions.EncMode()
	if err != nil {
		panic("codec: CBOR epoch date encoder initialization failed: " + err.Error())
	}

	diagMode, err = cbor.DiagOptions{
		MaxNestedLevels:  cborvalue.DefaultMaxNestedLevels,
		MaxArrayElements: cborvalue.DefaultMaxContainerLength,
		MaxMapPairs:      cborvalue.DefaultMaxContainerLength,
	}.DiagMode()
	if err != nil {
		panic("codec: CBOR diagnostic mode initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels:  cborvalue.DefaultMaxNestedLevels,
		MaxArrayElements: cborvalue.DefaultMaxContainerLength,
		MaxMapPairs:      cborvalue.DefaultMaxContainerLength,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// DateEncoding selects the wire representation MarshalDate produces.
type DateEncoding int

const (
	// DateText encodes tag 0 over an RFC 3339 text string with
	// nanosecond precision.
	DateText DateEncoding = iota

	// DateEpoch encodes tag 1 over integer seconds, or float seconds
	// when t has a fractional part.
	DateEpoch
)

// MarshalDate encodes t as a tagged CBOR date.
func MarshalDate(t time.Time, encoding DateEncoding) ([]byte, error) {
	switch encoding {
	case DateText:
		return textDateEncMode.Marshal(t.UTC())
	case DateEpoch:
		return epochDateEncMode.Marshal(t)
	default:
		return nil, fmt.Errorf("codec: unknown date encoding %d", encoding)
	}
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// single data item in data.
func Diagnose(data []byte) (string, error) {
	return diagMode.Diagnose(data)
}

// DiagnoseFirst returns the CBOR diagnostic notation for the first
// data item in data, along with the remaining unconsumed bytes. Use
// this to process CBOR sequences one item at a time.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	return diagMode.DiagnoseFirst(data)
}

// DiagnoseValue returns the diagnostic notation of a decoded value.
func DiagnoseValue(v cborvalue.Value) (string, error) {
	data, err := EncodeValue(v)
	if err != nil {
		return "", err
	}
	return Diagnose(data)
}

// Wellformed reports whether data is exactly one well-formed CBOR data
// item. It is an independent check of the stream decoder.
func Wellformed(data []byte) error {
	return decMode.Wellformed(data)
}
