// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cborvalue

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is. Every *DecodeError matches exactly one
// of the first three; errors caused by exceeding the nesting limit also
// match ErrTooDeeplyNested.
var (
	ErrDataCorrupted   = errors.New("data corrupted")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrKeyNotFound     = errors.New("key not found")
	ErrTooDeeplyNested = errors.New("too deeply nested")
)

// ErrorKind classifies a [DecodeError].
type ErrorKind uint8

const (
	// DataCorrupted covers malformed bytes, wrong shapes, and
	// unrecognized tags or formats.
	DataCorrupted ErrorKind = iota + 1

	// TypeMismatch means a value is present but is not of the
	// requested kind.
	TypeMismatch

	// KeyNotFound means a required field is absent.
	KeyNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case DataCorrupted:
		return "data_corrupted"
	case TypeMismatch:
		return "type_mismatch"
	case KeyNotFound:
		return "key_not_found"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case DataCorrupted:
		return ErrDataCorrupted
	case TypeMismatch:
		return ErrTypeMismatch
	case KeyNotFound:
		return ErrKeyNotFound
	default:
		return nil
	}
}

// DecodeError is the error type returned by every decoding operation in
// this module. Callers distinguish kinds with errors.Is against the
// sentinels, and read the coding path with errors.As.
type DecodeError struct {
	Kind ErrorKind

	// Path is the coding path to the failing value. Empty at the root.
	Path Path

	// Offset is the byte offset into the input where the stream
	// decoder detected the problem, or -1 when the error was raised
	// against an already-decoded tree.
	Offset int

	// Reason describes a DataCorrupted error.
	Reason string

	// Expected names the requested type of a TypeMismatch error, and
	// Actual the kind that was found.
	Expected string
	Actual   Kind

	// Key is the missing key of a KeyNotFound error.
	Key string

	// Err is an optional underlying cause.
	Err error
}

// Corrupted returns a DataCorrupted error raised against a decoded tree.
func Corrupted(path Path, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: DataCorrupted, Path: path, Offset: -1, Reason: fmt.Sprintf(format, args...)}
}

// CorruptedAt returns a DataCorrupted error at a byte offset.
func CorruptedAt(offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: DataCorrupted, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// Mismatch returns a TypeMismatch error.
func Mismatch(path Path, expected string, actual Kind) *DecodeError {
	return &DecodeError{Kind: TypeMismatch, Path: path, Offset: -1, Expected: expected, Actual: actual}
}

// NotFound returns a KeyNotFound error.
func NotFound(path Path, key string) *DecodeError {
	return &DecodeError{Kind: KeyNotFound, Path: path, Offset: -1, Key: key}
}

func (e *DecodeError) Error() string {
	var builder strings.Builder
	builder.WriteString(e.Kind.sentinel().Error())
	if len(e.Path) > 0 {
		builder.WriteString(" at ")
		builder.WriteString(e.Path.String())
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&builder, " (byte %d)", e.Offset)
	}
	switch e.Kind {
	case DataCorrupted:
		builder.WriteString(": ")
		builder.WriteString(e.Reason)
	case TypeMismatch:
		fmt.Fprintf(&builder, ": expected %s, found %s", e.Expected, e.Actual)
	case KeyNotFound:
		fmt.Fprintf(&builder, ": no value for key %s", e.Key)
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	return builder.String()
}

// Is matches the sentinel for e.Kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WithPath returns a copy of e whose path is prefix followed by e.Path.
// Containers use it when an error from a nested decode surfaces through
// a parent that knows more of the path.
func (e *DecodeError) WithPath(prefix Path) *DecodeError {
	if len(prefix) == 0 {
		return e
	}
	copied := *e
	joined := make(Path, 0, len(prefix)+len(e.Path))
	joined = append(joined, prefix...)
	copied.Path = append(joined, e.Path...)
	return &copied
}

// AtPath attaches path to err. A *DecodeError keeps its kind and gains
// the path as a prefix; any other error becomes the cause of a
// DataCorrupted error at path.
func AtPath(err error, path Path) error {
	if err == nil {
		return nil
	}
	var decodeError *DecodeError
	if errors.As(err, &decodeError) {
		return decodeError.WithPath(path)
	}
	return &DecodeError{Kind: DataCorrupted, Path: path, Offset: -1, Reason: "decode failed", Err: err}
}
