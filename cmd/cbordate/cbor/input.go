// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"unicode"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/binhash"
	"github.com/bureau-foundation/cbordate/lib/compress"
	"github.com/bureau-foundation/cbordate/lib/config"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// inputParams is the flag group shared by every command that reads a
// CBOR document.
type inputParams struct {
	Config     string `json:"config"     flag:"config"     desc:"configuration file (default: $CBORDATE_CONFIG)"`
	Hex        bool   `json:"hex"        flag:"hex,x"      desc:"treat input as hex-encoded CBOR"`
	Decompress string `json:"decompress" flag:"decompress" desc:"input framing: auto, none, zstd, or lz4 (default from configuration)"`
	Verbose    bool   `json:"verbose"    flag:"verbose,v"  desc:"log at debug level regardless of log.level"`
}

// input is a fully resolved CBOR document ready for decoding.
type input struct {
	// data is the decoded, decompressed document.
	data []byte

	// source is the file path, or "stdin".
	source string

	// format is the compression framing that was removed.
	format compress.Format

	// digest is the BLAKE3 document digest of data.
	digest binhash.Digest

	config *config.Config
	logger *slog.Logger
}

// readInput resolves configuration and reads the document named by the
// single optional positional argument, or stdin when there is none or
// it is "-". Hex decoding happens before decompression, so a hex dump
// of a zstd frame is accepted.
func readInput(command string, params inputParams, args []string, stdin io.Reader) (*input, error) {
	if len(args) > 1 {
		return nil, cli.Validation("%s takes at most one file argument, got %d", command, len(args))
	}

	cfg, err := config.Resolve(params.Config)
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	if params.Verbose {
		level = slog.LevelDebug
	}

	source := "stdin"
	reader := stdin
	if len(args) == 1 && args[0] != "-" {
		source = args[0]
		file, err := os.Open(source)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("input file %s does not exist", source)
		}
		if err != nil {
			return nil, cli.Internal("opening %s: %w", source, err)
		}
		defer file.Close()
		reader = file
	}

	maxBytes := cfg.Input.MaxInputBytes
	data, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, cli.Internal("reading %s: %w", source, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, cli.Validation("%s exceeds the %d byte input limit", source, maxBytes)
	}

	if params.Hex || cfg.Input.Hex {
		data, err = decodeHexInput(data)
		if err != nil {
			return nil, cli.Validation("%s: %w", source, err)
		}
	}

	modeName := cfg.Input.Decompress
	if params.Decompress != "" {
		modeName = params.Decompress
	}
	mode, err := compress.ParseMode(modeName)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	data, format, err := compress.Decompress(data, mode, maxBytes)
	if err != nil {
		return nil, cli.Validation("%s: %w", source, err)
	}

	if len(data) == 0 {
		return nil, cli.Validation("empty input: expected CBOR data on %s", source)
	}

	digest := binhash.Sum(data)
	logger := cli.NewCommandLogger(level).With(
		"command", command,
		"source", source,
		"digest", digest.String(),
	)
	if format != compress.FormatNone {
		logger.Debug("decompressed input", "format", format.String(), "bytes", len(data))
	}

	return &input{
		data:   data,
		source: source,
		format: format,
		digest: digest,
		config: cfg,
		logger: logger,
	}, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "a2 00 c1" or "a200c1").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// decodeFailure logs a decode error with its coding path and offset and
// returns it as a validation error.
func (in *input) decodeFailure(err error) error {
	attributes := []any{"error", err.Error()}
	var decodeError *cborvalue.DecodeError
	if errors.As(err, &decodeError) {
		attributes = append(attributes,
			"kind", decodeError.Kind.String(),
			"path", decodeError.Path.String(),
		)
		if decodeError.Offset >= 0 {
			attributes = append(attributes, "offset", decodeError.Offset)
		}
	}
	in.logger.Error("decode failed", attributes...)
	return cli.Validation("decoding %s: %w", in.source, err)
}
