// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/cbortag"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
	"github.com/bureau-foundation/cbordate/lib/codec"
	"github.com/bureau-foundation/cbordate/lib/compress"
)

// grammarEpoch selects tag 1 output in "cbordate encode".
const grammarEpoch = "epoch"

// encodeParams holds the parameters for "cbordate encode".
type encodeParams struct {
	Grammar   string `json:"grammar"    flag:"grammar"       desc:"date-time-fraction, date-time, date, or epoch" default:"date-time"`
	Compress  string `json:"compress"   flag:"compress"      desc:"output framing: none, zstd, or lz4" default:"none"`
	HexOutput bool   `json:"hex_output" flag:"hex-output,X" desc:"write hex instead of binary CBOR"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Encode a date-time as a tagged CBOR date",
		Description: `Parse a date-time argument and write it as a CBOR date item.

The argument is read with the same grammars tag 0 text is decoded with:
"2017-01-23T10:12:31.484Z", "2021-06-30T19:22:31Z", or "2016-06-13".

--grammar chooses the output. The three text grammars produce tag 0
over text in that grammar. "epoch" produces tag 1 over integer seconds,
or float seconds when the instant has a fractional part.`,
		Usage: "cbordate encode [flags] <date-time>",
		Examples: []cli.Example{
			{
				Description: "Encode an epoch date as hex",
				Command:     "cbordate encode --grammar epoch -X 2025-05-20T09:25:11Z",
			},
			{
				Description: "Round-trip through the decoder",
				Command:     "cbordate encode 2016-06-13 --grammar date | cbordate date",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runEncode(args, params, os.Stdout)
		},
	}
}

// runEncode writes the tagged date for args[0] to w.
func runEncode(args []string, params encodeParams, w io.Writer) error {
	if len(args) != 1 {
		return cli.Validation("encode takes exactly one date-time argument, got %d", len(args))
	}

	instant, err := cbortag.ParseDateText(args[0])
	if err != nil {
		return cli.Validation("parsing %q: %w", args[0], err)
	}

	value, err := encodeDate(instant, params.Grammar)
	if err != nil {
		return err
	}

	format, err := compress.ParseFormat(params.Compress)
	if err != nil {
		return cli.Validation("%w", err)
	}

	data, err := codec.EncodeValue(value)
	if err != nil {
		return cli.Internal("encoding date: %w", err)
	}
	data, err = compress.Compress(data, format)
	if err != nil {
		return cli.Internal("%w", err)
	}

	if params.HexOutput {
		_, err = fmt.Fprintln(w, hex.EncodeToString(data))
	} else {
		_, err = w.Write(data)
	}
	if err != nil {
		return cli.Internal("%w", err)
	}
	return nil
}

func encodeDate(instant time.Time, grammarName string) (cborvalue.Value, error) {
	if grammarName == grammarEpoch {
		return cbortag.EncodeEpoch(instant), nil
	}
	grammar, ok := cbortag.GrammarByName(grammarName)
	if !ok {
		return cborvalue.Value{}, cli.Validation("unknown grammar %q", grammarName)
	}
	return cbortag.EncodeDate(instant, grammar), nil
}
