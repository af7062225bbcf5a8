// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
)

// Commands returns the cbordate subcommands in help order.
func Commands() []*cli.Command {
	return []*cli.Command{
		decodeCommand(),
		dateCommand(),
		encodeCommand(),
		diagCommand(),
		inspectCommand(),
		validateCommand(),
	}
}
