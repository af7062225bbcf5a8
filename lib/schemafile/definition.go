// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemafile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/cbordate/lib/cbordecode"
)

// Format is the on-disk syntax of a schema file.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
	FormatTOML  Format = "toml"
)

// FormatFromPath picks the syntax from the file extension. JSON files
// are read as JSONC, which is a superset.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unrecognized schema file extension %q (want .yaml, .yml, .json, .jsonc, or .toml)", filepath.Ext(path))
	}
}

// Definition is the parsed, uncompiled content of a schema file.
type Definition struct {
	// Name labels the schema in log output. Defaults to the file name
	// without its extension when read with [ReadFile].
	Name string `yaml:"name" json:"name" toml:"name"`

	Fields []FieldDefinition `yaml:"fields" json:"fields" toml:"fields"`
}

// FieldDefinition declares one field of a record.
type FieldDefinition struct {
	// Name is the key of the field in the decoded [Record].
	Name string `yaml:"name" json:"name" toml:"name"`

	// Key is the CBOR map key: an integer or a string.
	Key any `yaml:"key" json:"key" toml:"key"`

	// Type is one of the names in [Types].
	Type string `yaml:"type" json:"type" toml:"type"`

	// Optional fields may be absent, null, or undefined.
	Optional bool `yaml:"optional" json:"optional" toml:"optional"`

	// Items is the element type of an "array" field. Defaults to
	// "value".
	Items string `yaml:"items" json:"items" toml:"items"`

	// Values is the value type of a "map" field. Defaults to "value".
	Values string `yaml:"values" json:"values" toml:"values"`

	// Fields declares the nested fields of a "record" field.
	Fields []FieldDefinition `yaml:"fields" json:"fields" toml:"fields"`
}

// Parse decodes schema file content in the given syntax.
func Parse(data []byte, format Format) (*Definition, error) {
	var definition Definition
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &definition); err != nil {
			return nil, fmt.Errorf("parsing YAML schema: %w", err)
		}
	case FormatJSONC:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.UseNumber()
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&definition); err != nil {
			return nil, fmt.Errorf("parsing JSON schema: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &definition); err != nil {
			return nil, fmt.Errorf("parsing TOML schema: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	return &definition, nil
}

// ReadFile reads and parses a schema file, choosing the syntax from its
// extension.
func ReadFile(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	definition, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if definition.Name == "" {
		definition.Name = NameFromPath(path)
	}
	return definition, nil
}

// NameFromPath strips the directory and extension from a schema path:
// "schemas/event.toml" returns "event".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseKey converts a key as produced by any of the three syntaxes.
// YAML yields int or uint64, TOML int64, and JSON json.Number.
func parseKey(raw any) (cbordecode.Key, error) {
	switch key := raw.(type) {
	case string:
		return cbordecode.StringKey(key), nil
	case int:
		return cbordecode.IntKey(int64(key)), nil
	case int64:
		return cbordecode.IntKey(key), nil
	case uint64:
		if key > math.MaxInt64 {
			return cbordecode.Key{}, fmt.Errorf("integer key %d is out of range", key)
		}
		return cbordecode.IntKey(int64(key)), nil
	case float64:
		if key != math.Trunc(key) || key < math.MinInt64 || key >= math.MaxInt64 {
			return cbordecode.Key{}, fmt.Errorf("key %v is not an integer", key)
		}
		return cbordecode.IntKey(int64(key)), nil
	case json.Number:
		integer, err := key.Int64()
		if err != nil {
			return cbordecode.Key{}, fmt.Errorf("key %s is not an integer", key)
		}
		return cbordecode.IntKey(integer), nil
	case nil:
		return cbordecode.Key{}, errors.New("key is required")
	default:
		return cbordecode.Key{}, fmt.Errorf("key has unsupported type %T", raw)
	}
}
