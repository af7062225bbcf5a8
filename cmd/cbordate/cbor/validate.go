// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/codec"
)

// validateParams holds the parameters for "cbordate validate".
type validateParams struct {
	inputParams
	Sequence bool `json:"sequence" flag:"sequence,s" desc:"accept a CBOR sequence of any number of items"`
}

func validateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that input is well-formed CBOR",
		Description: `Read CBOR and check that it is exactly one well-formed data item (or,
with -s, a sequence of them) within the configured decoder limits.

Exits 0 and prints "valid" when it is. Otherwise prints "invalid" with
the byte offset and reason, and exits 1. Malformed input is a verdict,
not a tool failure: exit codes 2 and 3 are reserved for bad flags and
missing files.

Checks include truncation, reserved additional-information values,
invalid UTF-8 in text strings, mismatched indefinite-length chunks,
nesting deeper than decoder.max_nested_levels, and trailing bytes.`,
		Usage: "cbordate validate [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Validate a CBOR file",
				Command:     "cbordate validate message.cbor",
			},
			{
				Description: "Validate a hex dump",
				Command:     "echo 'a2 00 c1 1a 682c4a77 03 f5' | cbordate validate --hex",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			in, err := readInput("validate", params.inputParams, args, os.Stdin)
			if err != nil {
				return err
			}
			return runValidate(in, params, os.Stdout)
		},
	}
}

// runValidate writes the verdict for in to w. Invalid input returns an
// ExitError with code 1.
func runValidate(in *input, params validateParams, w io.Writer) error {
	items, err := decodeItems(in.config.DecodeOptions(), in.data, params.Sequence)
	if err != nil {
		in.decodeFailure(err)
		fmt.Fprintf(w, "invalid: %v\n", err)
		return &cli.ExitError{Code: 1}
	}

	if !params.Sequence {
		// The independent checker has no UTF-8 check and counts
		// nesting differently, so disagreement is logged, not fatal.
		if err := codec.Wellformed(in.data); err != nil {
			in.logger.Warn("independent well-formedness check disagrees", "error", err.Error())
		}
	}

	if params.Sequence {
		_, err = fmt.Fprintf(w, "valid: %d items\n", len(items))
	} else {
		_, err = fmt.Fprintln(w, "valid")
	}
	if err != nil {
		return cli.Internal("%w", err)
	}
	return nil
}
