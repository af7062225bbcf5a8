// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbordecode

import (
	"time"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// UnkeyedContainer reads the elements of a decoded array in order.
// Each Decode call consumes one element, and only on success: a
// failed decode leaves the cursor in place.
type UnkeyedContainer struct {
	elements []cborvalue.Value
	path     cborvalue.Path
	index    int
}

// NewUnkeyedContainer wraps an array value found at path.
func NewUnkeyedContainer(v cborvalue.Value, path cborvalue.Path) (*UnkeyedContainer, error) {
	elements, ok := v.Elements()
	if !ok {
		return nil, cborvalue.Mismatch(path, "array", v.Kind())
	}
	return &UnkeyedContainer{elements: elements, path: path}, nil
}

// Path returns the coding path of the array.
func (c *UnkeyedContainer) Path() cborvalue.Path { return c.path }

// Count returns the number of elements.
func (c *UnkeyedContainer) Count() int { return len(c.elements) }

// CurrentIndex returns the index of the next element to decode.
func (c *UnkeyedContainer) CurrentIndex() int { return c.index }

// IsAtEnd reports whether every element has been consumed.
func (c *UnkeyedContainer) IsAtEnd() bool { return c.index >= len(c.elements) }

// DecodeNext decodes the next element with decode and advances past it.
func DecodeNext[V any](c *UnkeyedContainer, decode DecodeFunc[V]) (V, error) {
	var zero V
	if c.IsAtEnd() {
		return zero, cborvalue.Corrupted(c.path, "unkeyed container is at end after %d elements", len(c.elements))
	}
	decoded, err := decode(c.elements[c.index], c.path.Append(cborvalue.IndexSegment(c.index)))
	if err != nil {
		return zero, err
	}
	c.index++
	return decoded, nil
}

// Next returns the next element undecoded.
func (c *UnkeyedContainer) Next() (cborvalue.Value, error) {
	return DecodeNext(c, AsValue)
}

// DecodeNil consumes the next element when it is null or undefined and
// reports whether it did.
func (c *UnkeyedContainer) DecodeNil() bool {
	if c.IsAtEnd() {
		return false
	}
	element := c.elements[c.index]
	if element.IsNull() || element.IsUndefined() {
		c.index++
		return true
	}
	return false
}

func (c *UnkeyedContainer) DecodeBool() (bool, error) { return DecodeNext(c, AsBool) }

func (c *UnkeyedContainer) DecodeInt64() (int64, error) { return DecodeNext(c, AsInt64) }

func (c *UnkeyedContainer) DecodeUint64() (uint64, error) { return DecodeNext(c, AsUint64) }

func (c *UnkeyedContainer) DecodeFloat64() (float64, error) { return DecodeNext(c, AsFloat64) }

func (c *UnkeyedContainer) DecodeString() (string, error) { return DecodeNext(c, AsString) }

func (c *UnkeyedContainer) DecodeBytes() ([]byte, error) { return DecodeNext(c, AsBytes) }

// DecodeDate decodes the next element as a strict tag 0 or tag 1 date.
func (c *UnkeyedContainer) DecodeDate() (time.Time, error) { return DecodeNext(c, AsDate) }

// NestedKeyed returns a container over the next element, which must be
// a map.
func (c *UnkeyedContainer) NestedKeyed() (*KeyedContainer, error) {
	return DecodeNext(c, NewKeyedContainer)
}

// NestedUnkeyed returns a container over the next element, which must
// be an array.
func (c *UnkeyedContainer) NestedUnkeyed() (*UnkeyedContainer, error) {
	return DecodeNext(c, NewUnkeyedContainer)
}
