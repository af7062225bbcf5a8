// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/cbordecode"
	"github.com/bureau-foundation/cbordate/lib/schemafile"
)

// decodeParams holds the parameters for "cbordate decode".
type decodeParams struct {
	inputParams
	Schema     string `json:"schema"      flag:"schema"      desc:"schema file, or a schema name in schemas.directory"`
	ProbeDates bool   `json:"probe_dates" flag:"probe-dates" desc:"accept either payload under either date tag for date fields"`
	Compact    bool   `json:"compact"     flag:"compact,c"   desc:"compact output (no indentation)"`
	Sequence   bool   `json:"sequence"    flag:"sequence,s"  desc:"read a CBOR sequence and output a JSON array"`
}

func decodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert CBOR to JSON, optionally through a schema",
		Description: `Read a CBOR document and write the equivalent JSON to stdout.

Without --schema, every value is converted: integer map keys become
decimal string keys, byte strings become base64, and tags 0 and 1 become
RFC 3339 timestamps when they hold a recognizable date. Other tags are
shown as {"tag": n, "value": ...}.

With --schema, the document must be a map and only the fields the
schema declares are decoded, by key and type. Undeclared entries are
ignored, even when they are malformed. Errors name the coding path of
the failing field (for example "events[1].when").

--probe-dates makes "date" fields accept an epoch number under tag 0 or
text under tag 1, in addition to the standard payloads. The dates.mode
configuration setting does the same for every run.`,
		Usage: "cbordate decode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode a CBOR file to pretty JSON",
				Command:     "cbordate decode message.cbor",
			},
			{
				Description: "Decode a hex dump through a schema",
				Command:     "echo 'a2 00 c1 1a 682c4a77 03 f5' | cbordate decode --hex --schema event.yaml",
			},
			{
				Description: "Decode a zstd-compressed CBOR sequence",
				Command:     "cbordate decode -s capture.cbor.zst",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			in, err := readInput("decode", params.inputParams, args, os.Stdin)
			if err != nil {
				return err
			}
			return runDecode(in, params, os.Stdout)
		},
	}
}

// runDecode decodes in and writes JSON to w.
func runDecode(in *input, params decodeParams, w io.Writer) error {
	options := in.config.DecodeOptions()

	var schema *schemafile.Schema
	if params.Schema != "" {
		loaded, err := loadSchema(in, params)
		if err != nil {
			return err
		}
		schema = loaded
		in.logger = in.logger.With("schema", schema.Name())
	}

	items, err := decodeItems(options, in.data, params.Sequence)
	if err != nil {
		return in.decodeFailure(err)
	}

	results := make([]any, 0, len(items))
	for _, decoded := range items {
		if schema == nil {
			results = append(results, schemafile.Plain(decoded.value))
			continue
		}
		record, err := schema.DecodeValue(decoded.value, nil)
		if err != nil {
			return in.decodeFailure(shiftOffset(err, decoded.offset))
		}
		results = append(results, record)
	}
	in.logger.Debug("decoded", "items", len(results), "format", in.format.String())

	if params.Sequence {
		return writeOutput(w, results, params.Compact)
	}
	return writeOutput(w, results[0], params.Compact)
}

func loadSchema(in *input, params decodeParams) (*schemafile.Schema, error) {
	path, err := in.config.SchemaPath(params.Schema)
	if err != nil {
		return nil, cli.NotFound("%w", err)
	}

	dateDecoder := in.config.DateDecoder()
	if params.ProbeDates {
		dateDecoder = cbordecode.AsProbedDate
	}

	schema, err := schemafile.Load(path, schemafile.Options{
		DateDecoder: dateDecoder,
		Decode:      in.config.DecodeOptions(),
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cli.NotFound("schema %s: %w", path, err)
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return schema, nil
}

func writeOutput(w io.Writer, value any, compact bool) error {
	if err := cli.WriteJSON(w, value, compact); err != nil {
		return cli.Internal("%w", err)
	}
	return nil
}
