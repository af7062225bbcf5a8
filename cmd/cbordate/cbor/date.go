// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/cbortag"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// dateParams holds the parameters for "cbordate date".
type dateParams struct {
	inputParams
	cli.JSONOutput
	Format string `json:"format" flag:"format" desc:"output grammar: date-time-fraction, date-time, date, or rfc3339nano" default:"rfc3339nano"`
}

// dateReport is the --json output of "cbordate date".
type dateReport struct {
	Time    time.Time `json:"time"`
	Unix    int64     `json:"unix"`
	Tag     uint64    `json:"tag"`
	TagName string    `json:"tag_name"`
	Payload string    `json:"payload"`
	Grammar string    `json:"grammar,omitempty"`
}

func dateCommand() *cli.Command {
	var params dateParams

	return &cli.Command{
		Name:    "date",
		Summary: "Decode a single tagged CBOR date",
		Description: `Read one CBOR date item (tag 0 or tag 1) and print the instant it
denotes.

The first byte must be 0xc0 (tag 0, date-time text) or 0xc1 (tag 1,
epoch seconds). The payload is probed: a number is read as epoch
seconds and text is matched against the date-time grammars in order
(with fractional seconds, without, date only), regardless of which tag
carries it.

Output is RFC 3339 with nanoseconds by default. --format selects one of
the date-time grammars instead.`,
		Usage: "cbordate date [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode an epoch date from hex",
				Command:     "echo 'c1 1a 682c4a77' | cbordate date --hex",
			},
			{
				Description: "Show which grammar a text date uses",
				Command:     "cbordate date --json stamp.cbor",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			in, err := readInput("date", params.inputParams, args, os.Stdin)
			if err != nil {
				return err
			}
			return runDate(in, params, os.Stdout)
		},
	}
}

// runDate decodes in as a tagged date and writes it to w.
func runDate(in *input, params dateParams, w io.Writer) error {
	var format func(time.Time) string
	switch params.Format {
	case "", "rfc3339nano":
		format = func(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }
	default:
		grammar, ok := cbortag.GrammarByName(params.Format)
		if !ok {
			return cli.Validation("unknown date format %q", params.Format)
		}
		format = grammar.Format
	}

	instant, err := cbortag.DateFromBytes(in.data)
	if err != nil {
		return in.decodeFailure(err)
	}

	report := describeDate(in.data, instant)
	if done, err := params.EmitJSON(w, report); done {
		return err
	}

	if _, err := fmt.Fprintln(w, format(instant)); err != nil {
		return cli.Internal("%w", err)
	}
	return nil
}

// describeDate reports the tag and payload of an item DateFromBytes
// already accepted.
func describeDate(data []byte, instant time.Time) dateReport {
	tag := uint64(data[0] & 0x1f)
	report := dateReport{Time: instant.UTC(), Unix: instant.Unix(), Tag: tag}
	if meaning, ok := cbortag.Lookup(tag); ok {
		report.TagName = meaning.Name
	}

	payload, err := cborvalue.Decode(data[1:])
	if err != nil {
		return report
	}
	report.Payload = payload.Kind().String()
	if text, ok := payload.TextString(); ok {
		if _, grammar, err := cbortag.ParseDateTextGrammar(text); err == nil {
			report.Grammar = grammar.Name()
		}
	}
	return report
}
