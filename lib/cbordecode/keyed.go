// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbordecode

import (
	"time"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// KeyedContainer is a read-only view of a decoded map addressed by
// [Key]. Lookups never fail: a missing key is only an error when a
// Decode method demands it. Unknown keys in the map are ignored.
type KeyedContainer struct {
	value cborvalue.Value
	path  cborvalue.Path
}

// NewKeyedContainer wraps a map value found at path.
func NewKeyedContainer(v cborvalue.Value, path cborvalue.Path) (*KeyedContainer, error) {
	if v.Kind() != cborvalue.KindMap {
		return nil, cborvalue.Mismatch(path, "map", v.Kind())
	}
	return &KeyedContainer{value: v, path: path}, nil
}

// Path returns the coding path of the map.
func (c *KeyedContainer) Path() cborvalue.Path { return c.path }

// ValueFor returns the value stored under key. When the map repeats a
// key the last occurrence wins.
func (c *KeyedContainer) ValueFor(key Key) (cborvalue.Value, bool) {
	return c.value.Lookup(key.Value())
}

// Contains reports whether the map has an entry under key.
func (c *KeyedContainer) Contains(key Key) bool {
	_, ok := c.ValueFor(key)
	return ok
}

// Keys returns the distinct keys of the map in first-seen order. Map
// keys that are neither text nor int64-range integers are omitted.
func (c *KeyedContainer) Keys() []Key {
	pairs, _ := c.value.Pairs()
	keys := make([]Key, 0, len(pairs))
	seen := make(map[Key]bool, len(pairs))
	for _, pair := range pairs {
		key, ok := keyOf(pair.Key)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

func (c *KeyedContainer) childPath(key Key) cborvalue.Path {
	return c.path.Append(cborvalue.KeySegment(key.String()))
}

// DecodeKey decodes the value under key with decode. A missing key is
// KeyNotFound.
func DecodeKey[V any](c *KeyedContainer, key Key, decode DecodeFunc[V]) (V, error) {
	v, ok := c.ValueFor(key)
	if !ok {
		var zero V
		return zero, cborvalue.NotFound(c.path, key.String())
	}
	return decode(v, c.childPath(key))
}

// DecodeIfPresent decodes the value under key when it is present and
// not null or undefined. It reports false without error otherwise.
func DecodeIfPresent[V any](c *KeyedContainer, key Key, decode DecodeFunc[V]) (V, bool, error) {
	var zero V
	v, ok := c.ValueFor(key)
	if !ok || v.IsNull() || v.IsUndefined() {
		return zero, false, nil
	}
	decoded, err := decode(v, c.childPath(key))
	if err != nil {
		return zero, false, err
	}
	return decoded, true, nil
}

// DecodeNil reports whether key is present and holds null or
// undefined. A missing key is KeyNotFound.
func (c *KeyedContainer) DecodeNil(key Key) (bool, error) {
	v, ok := c.ValueFor(key)
	if !ok {
		return false, cborvalue.NotFound(c.path, key.String())
	}
	return v.IsNull() || v.IsUndefined(), nil
}

func (c *KeyedContainer) DecodeBool(key Key) (bool, error) {
	return DecodeKey(c, key, AsBool)
}

func (c *KeyedContainer) DecodeInt64(key Key) (int64, error) {
	return DecodeKey(c, key, AsInt64)
}

func (c *KeyedContainer) DecodeUint64(key Key) (uint64, error) {
	return DecodeKey(c, key, AsUint64)
}

func (c *KeyedContainer) DecodeFloat64(key Key) (float64, error) {
	return DecodeKey(c, key, AsFloat64)
}

func (c *KeyedContainer) DecodeString(key Key) (string, error) {
	return DecodeKey(c, key, AsString)
}

func (c *KeyedContainer) DecodeBytes(key Key) ([]byte, error) {
	return DecodeKey(c, key, AsBytes)
}

// DecodeDate decodes a strict tag 0 or tag 1 date.
func (c *KeyedContainer) DecodeDate(key Key) (time.Time, error) {
	return DecodeKey(c, key, AsDate)
}

func (c *KeyedContainer) DecodeValue(key Key) (cborvalue.Value, error) {
	return DecodeKey(c, key, AsValue)
}

// NestedKeyed returns a container over the map stored under key.
func (c *KeyedContainer) NestedKeyed(key Key) (*KeyedContainer, error) {
	return DecodeKey(c, key, NewKeyedContainer)
}

// NestedUnkeyed returns a container over the array stored under key.
func (c *KeyedContainer) NestedUnkeyed(key Key) (*UnkeyedContainer, error) {
	return DecodeKey(c, key, NewUnkeyedContainer)
}
