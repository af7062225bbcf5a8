// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbordecode

import (
	"strconv"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// Key addresses one entry of a CBOR map: an integer key (matched
// against unsigned and negative map keys) or a string key (matched
// against text map keys). The zero Key is the integer key 0.
type Key struct {
	text    string
	integer int64
	isText  bool
}

// IntKey returns an integer key.
func IntKey(i int64) Key { return Key{integer: i} }

// StringKey returns a text key.
func StringKey(s string) Key { return Key{text: s, isText: true} }

// IsText reports whether k is a text key.
func (k Key) IsText() bool { return k.isText }

// Int returns the integer of an integer key.
func (k Key) Int() (int64, bool) {
	if k.isText {
		return 0, false
	}
	return k.integer, true
}

// Value returns the map key value k matches.
func (k Key) Value() cborvalue.Value {
	if k.isText {
		return cborvalue.Text(k.text)
	}
	return cborvalue.Int(k.integer)
}

// String renders the key as it appears in coding paths. Integer keys
// render in decimal.
func (k Key) String() string {
	if k.isText {
		return k.text
	}
	return strconv.FormatInt(k.integer, 10)
}

// keyOf converts a wire map key to a Key. Keys of any other kind, or
// integers outside int64, have no Key form.
func keyOf(v cborvalue.Value) (Key, bool) {
	if s, ok := v.TextString(); ok {
		return StringKey(s), true
	}
	if i, ok := v.Int64(); ok {
		return IntKey(i), true
	}
	return Key{}, false
}
