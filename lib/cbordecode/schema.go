// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbordecode

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// FieldSpec binds one field of T to a map key and a decode function.
// Build FieldSpecs with [Field] and [OptionalField].
type FieldSpec[T any] struct {
	name     string
	key      Key
	required bool
	apply    func(target *T, c *KeyedContainer) error
	valid    bool
}

// Field declares a required field: the key must be present and decode
// must succeed, or the whole decode fails.
func Field[T, V any](name string, key Key, decode DecodeFunc[V], set func(*T, V)) FieldSpec[T] {
	return FieldSpec[T]{
		name:     name,
		key:      key,
		required: true,
		valid:    decode != nil && set != nil,
		apply: func(target *T, c *KeyedContainer) error {
			v, err := DecodeKey(c, key, decode)
			if err != nil {
				return err
			}
			set(target, v)
			return nil
		},
	}
}

// OptionalField declares a field that may be absent, null, or
// undefined, in which case set is not called and the target keeps its
// prior value. A present value that fails to decode still fails.
func OptionalField[T, V any](name string, key Key, decode DecodeFunc[V], set func(*T, V)) FieldSpec[T] {
	return FieldSpec[T]{
		name:  name,
		key:   key,
		valid: decode != nil && set != nil,
		apply: func(target *T, c *KeyedContainer) error {
			v, ok, err := DecodeIfPresent(c, key, decode)
			if err != nil {
				return err
			}
			if ok {
				set(target, v)
			}
			return nil
		},
	}
}

// FieldInfo describes a schema field.
type FieldInfo struct {
	Name     string
	Key      Key
	Required bool
}

// Schema decodes CBOR maps into values of T. A Schema only looks at the
// keys its fields name: other entries, malformed or not, are never
// inspected. Schemas are immutable and safe for concurrent use.
type Schema[T any] struct {
	fields  []FieldSpec[T]
	options cborvalue.DecodeOptions
}

// NewSchema builds a schema from fields. Field names and keys must be
// unique and every field must have a decode and a set function.
func NewSchema[T any](fields ...FieldSpec[T]) (*Schema[T], error) {
	var errs []error
	names := make(map[string]bool, len(fields))
	keys := make(map[Key]string, len(fields))
	for i, field := range fields {
		if field.name == "" {
			errs = append(errs, fmt.Errorf("field %d: name is required", i))
		}
		if !field.valid {
			errs = append(errs, fmt.Errorf("field %q: decode and set functions are required", field.name))
		}
		if names[field.name] {
			errs = append(errs, fmt.Errorf("field %q: duplicate name", field.name))
		}
		if other, ok := keys[field.key]; ok {
			errs = append(errs, fmt.Errorf("field %q: key %s already used by field %q", field.name, field.key, other))
		}
		names[field.name] = true
		keys[field.key] = field.name
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Schema[T]{fields: append([]FieldSpec[T](nil), fields...)}, nil
}

// MustSchema is NewSchema for package-level schema variables. It panics
// on an invalid field list, which is a programming error.
func MustSchema[T any](fields ...FieldSpec[T]) *Schema[T] {
	s, err := NewSchema(fields...)
	if err != nil {
		panic("cbordecode: " + err.Error())
	}
	return s
}

// WithOptions returns a copy of s that decodes bytes under options.
func (s *Schema[T]) WithOptions(options cborvalue.DecodeOptions) *Schema[T] {
	copied := *s
	copied.options = options
	return &copied
}

// Fields describes the schema's fields in declaration order.
func (s *Schema[T]) Fields() []FieldInfo {
	infos := make([]FieldInfo, len(s.fields))
	for i, field := range s.fields {
		infos[i] = FieldInfo{Name: field.name, Key: field.key, Required: field.required}
	}
	return infos
}

// Decode decodes data as exactly one CBOR map and fills a T from it.
// Structural errors in any part of data fail the decode; semantic
// errors only fail it when they affect a field of the schema.
func (s *Schema[T]) Decode(data []byte) (T, error) {
	v, err := s.options.Decode(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.DecodeValue(v, nil)
}

// DecodeValue fills a T from an already-decoded map found at path.
// Fields are decoded in declaration order and the first failure is
// returned.
func (s *Schema[T]) DecodeValue(v cborvalue.Value, path cborvalue.Path) (T, error) {
	var target T
	if err := s.DecodeInto(&target, v, path); err != nil {
		var zero T
		return zero, err
	}
	return target, nil
}

// DecodeInto fills target from v. Optional fields that are absent leave
// the matching part of target untouched. On error target may be
// partially filled.
func (s *Schema[T]) DecodeInto(target *T, v cborvalue.Value, path cborvalue.Path) error {
	container, err := NewKeyedContainer(v, path)
	if err != nil {
		return err
	}
	for _, field := range s.fields {
		if err := field.apply(target, container); err != nil {
			return err
		}
	}
	return nil
}

// Nested returns a DecodeFunc that decodes a map with s.
func Nested[V any](s *Schema[V]) DecodeFunc[V] {
	return s.DecodeValue
}

// ListOf returns a DecodeFunc that decodes an array by applying elem to
// each element.
func ListOf[V any](elem DecodeFunc[V]) DecodeFunc[[]V] {
	return func(v cborvalue.Value, path cborvalue.Path) ([]V, error) {
		container, err := NewUnkeyedContainer(v, path)
		if err != nil {
			return nil, err
		}
		decoded := make([]V, 0, container.Count())
		for !container.IsAtEnd() {
			element, err := DecodeNext(container, elem)
			if err != nil {
				return nil, err
			}
			decoded = append(decoded, element)
		}
		return decoded, nil
	}
}

// MapOf returns a DecodeFunc that decodes a map with text or integer
// keys into a Go map, applying elem to each value.
func MapOf[V any](elem DecodeFunc[V]) DecodeFunc[map[Key]V] {
	return func(v cborvalue.Value, path cborvalue.Path) (map[Key]V, error) {
		container, err := NewKeyedContainer(v, path)
		if err != nil {
			return nil, err
		}
		keys := container.Keys()
		decoded := make(map[Key]V, len(keys))
		for _, key := range keys {
			element, err := DecodeKey(container, key, elem)
			if err != nil {
				return nil, err
			}
			decoded[key] = element
		}
		return decoded, nil
	}
}
