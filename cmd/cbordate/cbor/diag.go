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

func diagCommand() *cli.Command {
	var params inputParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Convert CBOR to diagnostic notation",
		Description: `Read CBOR and write RFC 8949 diagnostic notation to stdout, one line
per top-level item of a CBOR sequence.

Unlike JSON output, diagnostic notation preserves CBOR type information:
integer vs float, byte strings vs text strings, integer map keys, and
tagged values:

  {0: 1(1747733111), 3: true}         epoch date under key 0
  0("2017-01-23T10:12:31.484Z")       text date
  h'a1636b6579'                       byte string in hex

The input is checked by the same decoder and limits as "cbordate
decode" first, so a document that fails here fails there too.`,
		Usage: "cbordate diag [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Show diagnostic notation for a CBOR file",
				Command:     "cbordate diag message.cbor",
			},
			{
				Description: "Inspect a hex dump",
				Command:     "echo 'c1 1a 682c4a77' | cbordate diag --hex",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			in, err := readInput("diag", params, args, os.Stdin)
			if err != nil {
				return err
			}
			return runDiag(in, os.Stdout)
		},
	}
}

// runDiag writes the diagnostic notation of each item in in to w.
func runDiag(in *input, w io.Writer) error {
	items, err := decodeItems(in.config.DecodeOptions(), in.data, true)
	if err != nil {
		return in.decodeFailure(err)
	}

	for _, decoded := range items {
		notation, err := codec.Diagnose(decoded.raw)
		if err != nil {
			return cli.Internal("diagnose CBOR at byte %d: %w", decoded.offset, err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return cli.Internal("%w", err)
		}
	}
	return nil
}
