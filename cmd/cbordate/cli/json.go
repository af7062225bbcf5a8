// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONOutput is an embeddable struct that adds --json output support to
// a command's parameter struct.
//
//	type inspectParams struct {
//	    cli.JSONOutput
//	    Hex bool `flag:"hex,x" desc:"treat input as hex-encoded CBOR"`
//	}
//
//	// In Run:
//	if done, err := params.EmitJSON(os.Stdout, report); done {
//	    return err
//	}
//	// ... text formatting ...
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result as indented JSON to w if --json is set.
// Returns (true, nil) on success, (true, err) on write failure, or
// (false, nil) when --json is not set and the caller should proceed
// with text formatting.
func (j *JSONOutput) EmitJSON(w io.Writer, result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(w, result, false)
}

// WriteJSON encodes value as JSON followed by a newline. When compact
// is false, output is indented by two spaces.
func WriteJSON(w io.Writer, value any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
