// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireErrorIs fails the test unless errors.Is(err, target).
//
//	testutil.RequireErrorIs(t, err, cborvalue.ErrDataCorrupted, "decoding %s", name)
func RequireErrorIs(t TB, err, target error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error matching %v, got nil: %s", target, formatMessage(msgAndArgs))
	}
	if !errors.Is(err, target) {
		t.Fatalf("error %q does not match %v: %s", err, target, formatMessage(msgAndArgs))
	}
}

// RequireDecodeError fails the test unless err is a
// *cborvalue.DecodeError of the given kind whose coding path renders as
// path. It returns the DecodeError for further checks.
//
//	decodeError := testutil.RequireDecodeError(t, err, cborvalue.TypeMismatch, "items[1].when")
func RequireDecodeError(t TB, err error, kind cborvalue.ErrorKind, path string) *cborvalue.DecodeError {
	t.Helper()
	var decodeError *cborvalue.DecodeError
	if !errors.As(err, &decodeError) {
		t.Fatalf("expected *cborvalue.DecodeError, got %T: %v", err, err)
	}
	if decodeError.Kind != kind {
		t.Fatalf("error kind = %s, want %s (error: %v)", decodeError.Kind, kind, err)
	}
	if got := decodeError.Path.String(); got != path {
		t.Fatalf("error path = %q, want %q (error: %v)", got, path, err)
	}
	return decodeError
}

// formatMessage formats optional message arguments into a string.
// Accepts either a single string or a format string followed by args.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return "(no message)"
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs)
}
