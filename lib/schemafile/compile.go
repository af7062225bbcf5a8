// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemafile

import (
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/cbordate/lib/cbordecode"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// Record is the decoded form of a schema-described map, keyed by field
// name. Values are bool, int64, uint64, float64, string, []byte,
// time.Time, []any, map[string]any, Record, or the [Plain] form of a
// raw value.
type Record map[string]any

// Field type names.
const (
	TypeBool       = "bool"
	TypeInt        = "int"
	TypeUint       = "uint"
	TypeFloat      = "float"
	TypeString     = "string"
	TypeBytes      = "bytes"
	TypeDate       = "date"
	TypeProbedDate = "probed-date"
	TypeValue      = "value"
	TypeArray      = "array"
	TypeMap        = "map"
	TypeRecord     = "record"
)

// Types lists every field type name in documentation order.
var Types = []string{
	TypeBool, TypeInt, TypeUint, TypeFloat, TypeString, TypeBytes,
	TypeDate, TypeProbedDate, TypeValue, TypeArray, TypeMap, TypeRecord,
}

// Options adjusts compilation.
type Options struct {
	// DateDecoder decodes fields of type "date". Defaults to
	// [cbordecode.AsDate]. "probed-date" fields always probe.
	DateDecoder cbordecode.DecodeFunc[time.Time]

	// Decode bounds the stream decoder used by [Schema.Decode].
	Decode cborvalue.DecodeOptions
}

// Schema is a compiled schema file. It is immutable and safe for
// concurrent use.
type Schema struct {
	name    string
	schema  *cbordecode.Schema[Record]
	options cborvalue.DecodeOptions
}

// Compile checks a definition and builds its decoder. Every problem in
// the definition is reported, not just the first.
func Compile(definition *Definition, options Options) (*Schema, error) {
	if options.DateDecoder == nil {
		options.DateDecoder = cbordecode.AsDate
	}
	if len(definition.Fields) == 0 {
		return nil, fmt.Errorf("schema %q declares no fields", definition.Name)
	}

	compiled, err := compileRecord(definition.Fields, "", options)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", definition.Name, err)
	}
	return &Schema{name: definition.Name, schema: compiled, options: options.Decode}, nil
}

// Load reads, parses, and compiles a schema file.
func Load(path string, options Options) (*Schema, error) {
	definition, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(definition, options)
}

// Name returns the schema's name.
func (s *Schema) Name() string { return s.name }

// Fields describes the top-level fields in declaration order.
func (s *Schema) Fields() []cbordecode.FieldInfo { return s.schema.Fields() }

// Decode decodes data as one CBOR map and extracts the declared
// fields. Undeclared map entries are ignored.
func (s *Schema) Decode(data []byte) (Record, error) {
	v, err := s.options.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.DecodeValue(v, nil)
}

// DecodeValue extracts the declared fields from an already-decoded map.
func (s *Schema) DecodeValue(v cborvalue.Value, path cborvalue.Path) (Record, error) {
	return decodeRecord(s.schema)(v, path)
}

func compileRecord(fields []FieldDefinition, prefix string, options Options) (*cbordecode.Schema[Record], error) {
	var (
		problems []error
		specs    []cbordecode.FieldSpec[Record]
	)
	for i, field := range fields {
		label := fmt.Sprintf("%sfields[%d]", prefix, i)
		if field.Name != "" {
			label = fmt.Sprintf("%sfield %q", prefix, field.Name)
		}

		key, err := parseKey(field.Key)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", label, err))
		}
		decode, err := compileField(field, label, options)
		if err != nil {
			problems = append(problems, err)
		}
		if len(problems) > 0 {
			continue
		}
		specs = append(specs, fieldSpec(field, key, decode))
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return cbordecode.NewSchema(specs...)
}

func fieldSpec(field FieldDefinition, key cbordecode.Key, decode cbordecode.DecodeFunc[any]) cbordecode.FieldSpec[Record] {
	name := field.Name
	set := func(record *Record, v any) {
		if *record == nil {
			*record = Record{}
		}
		(*record)[name] = v
	}
	if field.Optional {
		return cbordecode.OptionalField(name, key, decode, set)
	}
	return cbordecode.Field(name, key, decode, set)
}

// compileField returns the decoder for one field definition.
func compileField(field FieldDefinition, label string, options Options) (cbordecode.DecodeFunc[any], error) {
	if field.Type != TypeArray && field.Items != "" {
		return nil, fmt.Errorf("%s: items is only valid for type %q", label, TypeArray)
	}
	if field.Type != TypeMap && field.Values != "" {
		return nil, fmt.Errorf("%s: values is only valid for type %q", label, TypeMap)
	}
	if field.Type != TypeRecord && len(field.Fields) > 0 {
		return nil, fmt.Errorf("%s: fields is only valid for type %q", label, TypeRecord)
	}

	switch field.Type {
	case TypeArray:
		elem, err := scalarDecoder(defaultType(field.Items), label, options)
		if err != nil {
			return nil, err
		}
		return erase(cbordecode.ListOf(elem)), nil
	case TypeMap:
		elem, err := scalarDecoder(defaultType(field.Values), label, options)
		if err != nil {
			return nil, err
		}
		return stringKeyed(cbordecode.MapOf(elem)), nil
	case TypeRecord:
		if len(field.Fields) == 0 {
			return nil, fmt.Errorf("%s: record declares no fields", label)
		}
		nested, err := compileRecord(field.Fields, label+".", options)
		if err != nil {
			return nil, err
		}
		return erase(decodeRecord(nested)), nil
	default:
		return scalarDecoder(field.Type, label, options)
	}
}

// scalarDecoder handles the types that take no parameters.
func scalarDecoder(typeName, label string, options Options) (cbordecode.DecodeFunc[any], error) {
	switch typeName {
	case TypeBool:
		return erase(cbordecode.AsBool), nil
	case TypeInt:
		return erase(cbordecode.AsInt64), nil
	case TypeUint:
		return erase(cbordecode.AsUint64), nil
	case TypeFloat:
		return erase(cbordecode.AsFloat64), nil
	case TypeString:
		return erase(cbordecode.AsString), nil
	case TypeBytes:
		return erase(cbordecode.AsBytes), nil
	case TypeDate:
		return erase(options.DateDecoder), nil
	case TypeProbedDate:
		return erase(cbordecode.AsProbedDate), nil
	case TypeValue:
		return func(v cborvalue.Value, _ cborvalue.Path) (any, error) {
			return Plain(v), nil
		}, nil
	case "":
		return nil, fmt.Errorf("%s: type is required", label)
	case TypeArray, TypeMap, TypeRecord:
		return nil, fmt.Errorf("%s: element type %q is not allowed here", label, typeName)
	default:
		return nil, fmt.Errorf("%s: unknown type %q", label, typeName)
	}
}

func defaultType(typeName string) string {
	if typeName == "" {
		return TypeValue
	}
	return typeName
}

func erase[V any](decode cbordecode.DecodeFunc[V]) cbordecode.DecodeFunc[any] {
	return func(v cborvalue.Value, path cborvalue.Path) (any, error) {
		decoded, err := decode(v, path)
		if err != nil {
			return nil, err
		}
		return decoded, nil
	}
}

func stringKeyed(decode cbordecode.DecodeFunc[map[cbordecode.Key]any]) cbordecode.DecodeFunc[any] {
	return func(v cborvalue.Value, path cborvalue.Path) (any, error) {
		decoded, err := decode(v, path)
		if err != nil {
			return nil, err
		}
		result := make(map[string]any, len(decoded))
		for key, element := range decoded {
			result[key.String()] = element
		}
		return result, nil
	}
}

// decodeRecord decodes into a fresh, non-nil Record so that a map whose
// optional fields are all absent yields an empty record.
func decodeRecord(schema *cbordecode.Schema[Record]) cbordecode.DecodeFunc[Record] {
	return func(v cborvalue.Value, path cborvalue.Path) (Record, error) {
		record := Record{}
		if err := schema.DecodeInto(&record, v, path); err != nil {
			return nil, err
		}
		return record, nil
	}
}
