// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cborvalue

import (
	"strconv"
	"strings"
)

// PathSegment is one step of a coding path: either a map key or an
// array index.
type PathSegment struct {
	// Key is the map key rendered as text. Integer map keys render in
	// decimal. Empty for index segments.
	Key string

	// Index is the array position. Only meaningful when IsIndex is set.
	Index int

	// IsIndex distinguishes positional segments from keyed ones.
	IsIndex bool
}

// KeySegment returns a keyed path segment.
func KeySegment(key string) PathSegment { return PathSegment{Key: key} }

// IndexSegment returns a positional path segment.
func IndexSegment(index int) PathSegment { return PathSegment{Index: index, IsIndex: true} }

// Path is the sequence of segments traversed from the document root to
// the value being decoded. Paths are values: Append never modifies the
// receiver's backing array.
type Path []PathSegment

// Append returns a new path with segment added at the end.
func (p Path) Append(segment PathSegment) Path {
	extended := make(Path, len(p), len(p)+1)
	copy(extended, p)
	return append(extended, segment)
}

// String renders the path as "items[3].when". The root path renders as
// an empty string.
func (p Path) String() string {
	var builder strings.Builder
	for i, segment := range p {
		if segment.IsIndex {
			builder.WriteByte('[')
			builder.WriteString(strconv.Itoa(segment.Index))
			builder.WriteByte(']')
			continue
		}
		if i > 0 {
			builder.WriteByte('.')
		}
		builder.WriteString(segment.Key)
	}
	return builder.String()
}
