// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete cbordate command tree.
package commands

import (
	"fmt"
	"io"
	"os"

	cborcmd "github.com/bureau-foundation/cbordate/cmd/cbordate/cbor"
	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/version"
)

// versionParams holds the parameters for "cbordate version".
type versionParams struct {
	Digest bool `json:"digest" flag:"digest" desc:"also print the BLAKE3 digest of this binary"`
}

// Root builds and returns the cbordate command tree.
func Root() *cli.Command {
	var params versionParams

	subcommands := cborcmd.Commands()
	subcommands = append(subcommands, &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(args []string) error {
			return printVersion(os.Stdout, params.Digest)
		},
	})

	return &cli.Command{
		Name: "cbordate",
		Description: `cbordate: decode CBOR documents that carry tagged dates.

Reads CBOR (RFC 8949) from a file or stdin, optionally hex-encoded or
framed as zstd or LZ4, and converts it to JSON, diagnostic notation, or
a structural summary. Tag 0 and tag 1 dates are decoded strictly by
default, or probed across both payload forms.

Configuration is read from --config or $CBORDATE_CONFIG.`,
		Subcommands: subcommands,
		Examples: []cli.Example{
			{
				Description: "Decode a capture to JSON",
				Command:     "cbordate decode capture.cbor",
			},
			{
				Description: "Decode a single date from a hex dump",
				Command:     "echo 'c1 1a 682c4a77' | cbordate date --hex",
			},
			{
				Description: "Check a compressed sequence for malformed items",
				Command:     "cbordate validate -s capture.cbor.zst",
			},
		},
	}
}

func printVersion(w io.Writer, withDigest bool) error {
	if _, err := fmt.Fprintf(w, "cbordate %s\n", version.Full()); err != nil {
		return cli.Internal("%w", err)
	}
	if !withDigest {
		return nil
	}
	digest, path, err := version.SelfDigest()
	if err != nil {
		return cli.Internal("%w", err)
	}
	if _, err := fmt.Fprintf(w, "  Binary: %s\n  Digest: %s\n", path, digest); err != nil {
		return cli.Internal("%w", err)
	}
	return nil
}
