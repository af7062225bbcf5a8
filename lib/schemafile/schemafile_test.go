// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemafile

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/cbordate/lib/cbordecode"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
	"github.com/bureau-foundation/cbordate/lib/testutil"
)

const (
	// {0: 1(1747733111), 3: true}
	epochFixture = "A2 00 C1 1A 682C4A77 03 F5"

	// Tag 0 over an integer at keys 0, 1, and 2; key 3 is true.
	malformedFixture = "A4 00 C0 1A 682C4A77 01 C0 1A 682C4A77 02 C0 1A 682C4A77 03 F5"
)

var fixtureInstant = time.Date(2025, time.May, 20, 9, 25, 11, 0, time.UTC)

var eventSchemaFiles = map[string]string{
	"event.yaml": `
name: event
fields:
  - name: when
    key: 0
    type: date
  - name: active
    key: 3
    type: bool
`,
	"event.jsonc": `{
  // Trailing commas and comments are allowed.
  "name": "event",
  "fields": [
    {"name": "when", "key": 0, "type": "date"},
    {"name": "active", "key": 3, "type": "bool"},
  ],
}
`,
	"event.toml": `
name = "event"

[[fields]]
name = "when"
key = 0
type = "date"

[[fields]]
name = "active"
key = 3
type = "bool"
`,
}

func TestLoadEverySyntax(t *testing.T) {
	data := testutil.MustHex(t, epochFixture)
	for fileName, content := range eventSchemaFiles {
		t.Run(fileName, func(t *testing.T) {
			path := testutil.WriteFile(t, fileName, []byte(content))

			schema, err := Load(path, Options{})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if schema.Name() != "event" {
				t.Errorf("Name() = %q, want event", schema.Name())
			}
			if fields := schema.Fields(); len(fields) != 2 || fields[0].Key != cbordecode.IntKey(0) {
				t.Errorf("Fields() = %+v, want when at key 0 and active at key 3", fields)
			}

			record, err := schema.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			when, ok := record["when"].(time.Time)
			if !ok || !when.Equal(fixtureInstant) {
				t.Errorf("when = %v, want %s", record["when"], fixtureInstant)
			}
			if record["active"] != true {
				t.Errorf("active = %v, want true", record["active"])
			}
		})
	}
}

func TestReadFileDefaultsName(t *testing.T) {
	path := testutil.WriteFile(t, "ticket.yaml", []byte("fields:\n  - {name: id, key: id, type: string}\n"))
	definition, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if definition.Name != "ticket" {
		t.Errorf("Name = %q, want ticket", definition.Name)
	}
	key, err := parseKey(definition.Fields[0].Key)
	if err != nil || key != cbordecode.StringKey("id") {
		t.Errorf("key = (%v, %v), want text key id", key, err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.yaml", FormatYAML},
		{"a.YML", FormatYAML},
		{"a.json", FormatJSONC},
		{"a.jsonc", FormatJSONC},
		{"dir/a.toml", FormatTOML},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%q) = (%s, %v), want %s", tt.path, got, err, tt.want)
		}
	}
	if _, err := FormatFromPath("schema.xml"); err == nil {
		t.Error("FormatFromPath(schema.xml) should fail")
	}
}

func TestDateModes(t *testing.T) {
	data := testutil.MustHex(t, malformedFixture)
	definition := &Definition{Name: "dates", Fields: []FieldDefinition{
		{Name: "when", Key: 0, Type: TypeDate},
		{Name: "active", Key: 3, Type: TypeBool},
	}}

	strict, err := Compile(definition, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	_, err = strict.Decode(data)
	testutil.RequireDecodeError(t, err, cborvalue.DataCorrupted, "0")

	probing, err := Compile(definition, Options{DateDecoder: cbordecode.AsProbedDate})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	record, err := probing.Decode(data)
	if err != nil {
		t.Fatalf("probing Decode: %v", err)
	}
	if when := record["when"].(time.Time); !when.Equal(fixtureInstant) {
		t.Errorf("when = %s, want %s", when, fixtureInstant)
	}

	// A probed-date field probes regardless of the date decoder.
	explicit, err := Compile(&Definition{Name: "explicit", Fields: []FieldDefinition{
		{Name: "when", Key: 1, Type: TypeProbedDate},
	}}, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := explicit.Decode(data); err != nil {
		t.Errorf("probed-date field: %v", err)
	}
}

func TestPartialDecodeIgnoresMalformedFields(t *testing.T) {
	schema, err := Compile(&Definition{Name: "flag", Fields: []FieldDefinition{
		{Name: "active", Key: 3, Type: TypeBool},
	}}, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	record, err := schema.Decode(testutil.MustHex(t, malformedFixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(record, Record{"active": true}) {
		t.Errorf("record = %v, want {active: true}", record)
	}
}

func TestCompositeTypes(t *testing.T) {
	definition := &Definition{Name: "composite", Fields: []FieldDefinition{
		{Name: "counts", Key: 0, Type: TypeArray, Items: TypeInt},
		{Name: "flags", Key: 1, Type: TypeMap, Values: TypeBool},
		{Name: "meta", Key: 2, Type: TypeRecord, Fields: []FieldDefinition{
			{Name: "label", Key: 1, Type: TypeString},
			{Name: "note", Key: 2, Type: TypeString, Optional: true},
		}},
		{Name: "raw", Key: 3, Type: TypeValue},
		{Name: "missing", Key: 9, Type: TypeString, Optional: true},
	}}
	schema, err := Compile(definition, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	// {0: [1, 2, 3], 1: {"a": true, 1: false}, 2: {1: "x"}, 3: [null, -2]}
	data := testutil.MustHex(t, `A4
		00 83 01 02 03
		01 A2 6161 F5 01 F4
		02 A1 01 6178
		03 82 F6 21`)
	record, err := schema.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := Record{
		"counts": []any{int64(1), int64(2), int64(3)},
		"flags":  map[string]any{"a": true, "1": false},
		"meta":   Record{"label": "x"},
		"raw":    []any{nil, int64(-2)},
	}
	if !reflect.DeepEqual(record, want) {
		t.Errorf("record = %#v\nwant %#v", record, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	schema, err := Compile(&Definition{Name: "nested", Fields: []FieldDefinition{
		{Name: "meta", Key: 0, Type: TypeRecord, Fields: []FieldDefinition{
			{Name: "label", Key: 1, Type: TypeString},
		}},
		{Name: "counts", Key: 1, Type: TypeArray, Items: TypeUint, Optional: true},
	}}, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		name    string
		fixture string
		kind    cborvalue.ErrorKind
		path    string
	}{
		{"nested mismatch", "A1 00 A1 01 05", cborvalue.TypeMismatch, "0.1"},
		{"nested missing", "A1 00 A0", cborvalue.KeyNotFound, "0"},
		{"missing record", "A0", cborvalue.KeyNotFound, ""},
		{"array element", "A2 00 A1 01 6178 01 82 01 20", cborvalue.TypeMismatch, "1[1]"},
		{"not a map", "80", cborvalue.TypeMismatch, ""},
		{"truncated", "A1 00", cborvalue.DataCorrupted, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Decode(testutil.MustHex(t, tt.fixture))
			testutil.RequireDecodeError(t, err, tt.kind, tt.path)
		})
	}
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name    string
		fields  []FieldDefinition
		wantErr []string
	}{
		{"no fields", nil, []string{"declares no fields"}},
		{"unknown type", []FieldDefinition{{Name: "a", Key: 0, Type: "timestamp"}}, []string{`unknown type "timestamp"`}},
		{"missing type", []FieldDefinition{{Name: "a", Key: 0}}, []string{"type is required"}},
		{"missing key", []FieldDefinition{{Name: "a", Type: TypeBool}}, []string{"key is required"}},
		{"fractional key", []FieldDefinition{{Name: "a", Key: 1.5, Type: TypeBool}}, []string{"not an integer"}},
		{"items on scalar", []FieldDefinition{{Name: "a", Key: 0, Type: TypeBool, Items: TypeInt}}, []string{"items is only valid"}},
		{"nested composite", []FieldDefinition{{Name: "a", Key: 0, Type: TypeArray, Items: TypeArray}}, []string{"not allowed here"}},
		{"empty record", []FieldDefinition{{Name: "a", Key: 0, Type: TypeRecord}}, []string{"record declares no fields"}},
		{"duplicate key", []FieldDefinition{
			{Name: "a", Key: 0, Type: TypeBool},
			{Name: "b", Key: 0, Type: TypeBool},
		}, []string{`key 0 already used by field "a"`}},
		{"several problems", []FieldDefinition{
			{Name: "a", Key: 0, Type: "nope"},
			{Name: "b", Type: TypeBool},
		}, []string{`unknown type "nope"`, `field "b": key is required`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(&Definition{Name: "bad", Fields: tt.fields}, Options{})
			if err == nil {
				t.Fatal("Compile should fail")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestParseRejectsMalformedFiles(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"yaml", FormatYAML, "fields: [unclosed"},
		{"jsonc unknown field", FormatJSONC, `{"fields": [], "extra": 1}`},
		{"jsonc syntax", FormatJSONC, `{"fields": [`},
		{"toml", FormatTOML, "[[fields]\nname = "},
		{"unknown format", Format("xml"), "<schema/>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input), tt.format); err == nil {
				t.Error("Parse should fail")
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		raw  any
		want cbordecode.Key
	}{
		{"when", cbordecode.StringKey("when")},
		{int(3), cbordecode.IntKey(3)},
		{int64(-4), cbordecode.IntKey(-4)},
		{uint64(5), cbordecode.IntKey(5)},
		{float64(6), cbordecode.IntKey(6)},
	}
	for _, tt := range tests {
		got, err := parseKey(tt.raw)
		if err != nil || got != tt.want {
			t.Errorf("parseKey(%#v) = (%v, %v), want %v", tt.raw, got, err, tt.want)
		}
	}

	for _, raw := range []any{nil, uint64(math.MaxUint64), true, 2.5} {
		if _, err := parseKey(raw); err == nil {
			t.Errorf("parseKey(%#v) should fail", raw)
		}
	}
}

func TestPlain(t *testing.T) {
	tests := []struct {
		name  string
		value cborvalue.Value
		want  any
	}{
		{"unsigned", cborvalue.Unsigned(7), uint64(7)},
		{"negative", cborvalue.Int(-7), int64(-7)},
		{"huge negative", cborvalue.Negative(math.MaxUint64), "-1-18446744073709551615"},
		{"text", cborvalue.Text("x"), "x"},
		{"bytes", cborvalue.Bytes([]byte{1, 2}), []byte{1, 2}},
		{"nan", cborvalue.Float(math.NaN()), "NaN"},
		{"infinity", cborvalue.Float(math.Inf(-1)), "-Infinity"},
		{"float", cborvalue.Float(1.5), 1.5},
		{"null", cborvalue.Null(), nil},
		{"undefined", cborvalue.Undefined(), nil},
		{"simple", cborvalue.Simple(16), map[string]any{"simple": uint8(16)}},
		{"epoch tag", cborvalue.Tagged(1, cborvalue.Unsigned(0x682c4a77)), fixtureInstant},
		{"other tag", cborvalue.Tagged(32, cborvalue.Text("https://example.com")),
			map[string]any{"tag": uint64(32), "value": "https://example.com"}},
		{"uncoercible date tag", cborvalue.Tagged(0, cborvalue.Bool(true)),
			map[string]any{"tag": uint64(0), "value": true}},
		{"map keys", cborvalue.Map(
			cborvalue.Pair{Key: cborvalue.Text("a"), Value: cborvalue.Bool(true)},
			cborvalue.Pair{Key: cborvalue.Int(-1), Value: cborvalue.Bool(false)},
			cborvalue.Pair{Key: cborvalue.Bytes([]byte{0xff}), Value: cborvalue.Null()},
		), map[string]any{"a": true, "-1": false, "h'ff'": nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plain(tt.value)
			if wantTime, ok := tt.want.(time.Time); ok {
				gotTime, ok := got.(time.Time)
				if !ok || !gotTime.Equal(wantTime) {
					t.Errorf("Plain = %#v, want %s", got, wantTime)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plain = %#v, want %#v", got, tt.want)
			}
		})
	}
}
