// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import "fmt"

// Tag numbers with date semantics.
const (
	TagDateTimeString uint64 = 0
	TagEpochDateTime  uint64 = 1
)

// Meaning describes a registered tag.
type Meaning struct {
	Number      uint64
	Name        string
	Description string
}

func (m Meaning) String() string {
	return fmt.Sprintf("%s (tag %d)", m.Name, m.Number)
}

var registry = map[uint64]Meaning{
	TagDateTimeString: {
		Number:      TagDateTimeString,
		Name:        "standardDateTimeString",
		Description: "date-time as ISO 8601 text",
	},
	TagEpochDateTime: {
		Number:      TagEpochDateTime,
		Name:        "epochBasedDateTime",
		Description: "date-time as seconds since 1970-01-01T00:00:00Z",
	},
}

// Lookup returns the meaning of a registered tag number.
func Lookup(number uint64) (Meaning, bool) {
	meaning, ok := registry[number]
	return meaning, ok
}

// IsDateTag reports whether number is one of the two date tags.
func IsDateTag(number uint64) bool {
	return number == TagDateTimeString || number == TagEpochDateTime
}

// TagByte returns the single-byte CBOR head for a date tag: 0xc0 for
// tag 0 and 0xc1 for tag 1.
func TagByte(number uint64) (byte, bool) {
	if !IsDateTag(number) {
		return 0, false
	}
	return 0xc0 | byte(number), true
}
