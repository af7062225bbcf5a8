// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/binhash"
	"github.com/bureau-foundation/cbordate/lib/compress"
	"github.com/bureau-foundation/cbordate/lib/config"
	"github.com/bureau-foundation/cbordate/lib/testutil"
)

// eventHex is {0: 1(1747733111), 3: true}.
const eventHex = "a200c11a682c4a7703f5"

// testInput wraps data as already-read input with the default
// configuration and a discarded log.
func testInput(t *testing.T, data []byte) *input {
	t.Helper()
	return &input{
		data:   data,
		source: "test",
		format: compress.FormatNone,
		digest: binhash.Sum(data),
		config: config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestDecodeHexInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{
			name:  "lowercase hex",
			input: "c11a682c4a77",
			want:  []byte{0xc1, 0x1a, 0x68, 0x2c, 0x4a, 0x77},
		},
		{
			name:  "uppercase hex",
			input: "C11A682C4A77",
			want:  []byte{0xc1, 0x1a, 0x68, 0x2c, 0x4a, 0x77},
		},
		{
			name:  "hex with spaces",
			input: "c1 1a 682c4a77",
			want:  []byte{0xc1, 0x1a, 0x68, 0x2c, 0x4a, 0x77},
		},
		{
			name:  "hex with newlines and tabs",
			input: "c1\n1a\t68 2c\n4a77\n",
			want:  []byte{0xc1, 0x1a, 0x68, 0x2c, 0x4a, 0x77},
		},
		{
			name:    "invalid hex",
			input:   "not hex data",
			wantErr: true,
		},
		{
			name:    "odd digit count",
			input:   "c11",
			wantErr: true,
		},
		{
			name:    "empty after whitespace",
			input:   "   \n\t  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeHexInput([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %x, want %x", got, tt.want)
			}
		})
	}
}

func TestReadInput_FileArg(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	content := testutil.MustHex(t, eventHex)
	tempFile := filepath.Join(t.TempDir(), "event.cbor")
	if err := os.WriteFile(tempFile, content, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	in, err := readInput("decode", inputParams{}, []string{tempFile}, strings.NewReader("ignored"))
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if !bytes.Equal(in.data, content) {
		t.Errorf("data = %x, want %x", in.data, content)
	}
	if in.source != tempFile {
		t.Errorf("source = %q, want %q", in.source, tempFile)
	}
	if in.digest != binhash.Sum(content) {
		t.Errorf("digest = %s, want the digest of the file contents", in.digest)
	}
	if in.format != compress.FormatNone {
		t.Errorf("format = %s, want none", in.format)
	}
}

func TestReadInput_StdinHex(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	for _, args := range [][]string{nil, {"-"}} {
		in, err := readInput("decode", inputParams{Hex: true}, args, strings.NewReader("a2 00 c1 1a 682c4a77\n03 f5\n"))
		if err != nil {
			t.Fatalf("readInput(%v): %v", args, err)
		}
		if in.source != "stdin" {
			t.Errorf("source = %q, want stdin", in.source)
		}
		if want := testutil.MustHex(t, eventHex); !bytes.Equal(in.data, want) {
			t.Errorf("data = %x, want %x", in.data, want)
		}
	}
}

func TestReadInput_HexFromConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cbordate.yaml")
	if err := os.WriteFile(configPath, []byte("input:\n  hex: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	in, err := readInput("date", inputParams{Config: configPath}, nil, strings.NewReader("c11a682c4a77"))
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if want := testutil.MustHex(t, "c11a682c4a77"); !bytes.Equal(in.data, want) {
		t.Errorf("data = %x, want %x", in.data, want)
	}
}

func TestReadInput_Decompress(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	content := testutil.MustHex(t, eventHex)
	for _, format := range []compress.Format{compress.FormatZstd, compress.FormatLZ4} {
		t.Run(format.String(), func(t *testing.T) {
			framed, err := compress.Compress(content, format)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}

			in, err := readInput("decode", inputParams{}, nil, bytes.NewReader(framed))
			if err != nil {
				t.Fatalf("readInput: %v", err)
			}
			if !bytes.Equal(in.data, content) {
				t.Errorf("data = %x, want %x", in.data, content)
			}
			if in.format != format {
				t.Errorf("format = %s, want %s", in.format, format)
			}
			if in.digest != binhash.Sum(content) {
				t.Error("digest should cover the decompressed document")
			}

			raw, err := readInput("decode", inputParams{Decompress: "none"}, nil, bytes.NewReader(framed))
			if err != nil {
				t.Fatalf("readInput with --decompress none: %v", err)
			}
			if !bytes.Equal(raw.data, framed) {
				t.Error("--decompress none should leave the frame in place")
			}
		})
	}

	// Hex decoding runs first, so a hex dump of a frame is accepted.
	framed, err := compress.Compress(content, compress.FormatZstd)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	in, err := readInput("decode", inputParams{Hex: true}, nil, strings.NewReader(hex.EncodeToString(framed)))
	if err != nil {
		t.Fatalf("readInput of hex zstd: %v", err)
	}
	if !bytes.Equal(in.data, content) {
		t.Errorf("data = %x, want %x", in.data, content)
	}
}

func TestReadInput_MaxInputBytes(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cbordate.yaml")
	if err := os.WriteFile(configPath, []byte("input:\n  max_input_bytes: 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := readInput("decode", inputParams{Config: configPath}, nil, bytes.NewReader(testutil.MustHex(t, eventHex)))
	if err == nil {
		t.Fatal("expected an error for input over the limit")
	}
	if got := cli.CategoryOf(err); got != cli.CategoryValidation {
		t.Errorf("category = %s, want validation", got)
	}
	if !strings.Contains(err.Error(), "input limit") {
		t.Errorf("error %q does not mention the input limit", err)
	}
}

func TestReadInput_Errors(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	tests := []struct {
		name     string
		params   inputParams
		args     []string
		stdin    string
		category cli.ErrorCategory
	}{
		{
			name:     "too many arguments",
			args:     []string{"a.cbor", "b.cbor"},
			category: cli.CategoryValidation,
		},
		{
			name:     "missing file",
			args:     []string{filepath.Join(t.TempDir(), "missing.cbor")},
			category: cli.CategoryNotFound,
		},
		{
			name:     "empty stdin",
			stdin:    "",
			category: cli.CategoryValidation,
		},
		{
			name:     "bad hex",
			params:   inputParams{Hex: true},
			stdin:    "zz",
			category: cli.CategoryValidation,
		},
		{
			name:     "unknown decompress mode",
			params:   inputParams{Decompress: "gzip"},
			stdin:    "\xf5",
			category: cli.CategoryValidation,
		},
		{
			name:     "forced zstd on raw CBOR",
			params:   inputParams{Decompress: "zstd"},
			stdin:    "\xf5",
			category: cli.CategoryValidation,
		},
		{
			name:     "missing config file",
			params:   inputParams{Config: filepath.Join(t.TempDir(), "missing.yaml")},
			stdin:    "\xf5",
			category: cli.CategoryValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readInput("decode", tt.params, tt.args, strings.NewReader(tt.stdin))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := cli.CategoryOf(err); got != tt.category {
				t.Errorf("category = %s, want %s (error: %v)", got, tt.category, err)
			}
		})
	}
}
