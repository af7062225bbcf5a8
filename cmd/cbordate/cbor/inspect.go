// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/cbortag"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// inspectParams holds the parameters for "cbordate inspect".
type inspectParams struct {
	inputParams
	cli.JSONOutput
	MaxDepth int `json:"max_depth" flag:"max-depth" desc:"stop listing below this nesting depth (0 for no limit)"`
}

// inspectReport is the result of "cbordate inspect".
type inspectReport struct {
	Source      string        `json:"source"`
	Bytes       int           `json:"bytes"`
	Compression string        `json:"compression"`
	Digest      string        `json:"digest"`
	Items       int           `json:"items"`
	Nodes       []inspectNode `json:"nodes"`
}

// inspectNode is one value in the document tree.
type inspectNode struct {
	Path    string     `json:"path"`
	Depth   int        `json:"depth"`
	Kind    string     `json:"kind"`
	Summary string     `json:"summary"`
	Date    *time.Time `json:"date,omitempty"`
}

func inspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Summarize the structure of a CBOR document",
		Description: `List every value in a CBOR document (or sequence) with its coding
path, kind, and a short summary. Tag 0 and tag 1 values that hold a
recognizable date also show the instant.

The header reports the input size after decompression, the compression
framing that was removed, and the BLAKE3 document digest. The digest is
the same one decode failures are logged with, so a log line can be
matched to the capture that caused it.`,
		Usage: "cbordate inspect [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Summarize a capture",
				Command:     "cbordate inspect capture.cbor",
			},
			{
				Description: "Top-level structure only, as JSON",
				Command:     "cbordate inspect --max-depth 1 --json capture.cbor",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			in, err := readInput("inspect", params.inputParams, args, os.Stdin)
			if err != nil {
				return err
			}
			return runInspect(in, params, os.Stdout)
		},
	}
}

// runInspect writes the structure of in to w.
func runInspect(in *input, params inspectParams, w io.Writer) error {
	items, err := decodeItems(in.config.DecodeOptions(), in.data, true)
	if err != nil {
		return in.decodeFailure(err)
	}

	report := inspectReport{
		Source:      in.source,
		Bytes:       len(in.data),
		Compression: in.format.String(),
		Digest:      in.digest.String(),
		Items:       len(items),
		Nodes:       []inspectNode{},
	}
	for i, decoded := range items {
		var root cborvalue.Path
		if len(items) > 1 {
			root = cborvalue.Path{cborvalue.IndexSegment(i)}
		}
		report.Nodes = walk(report.Nodes, decoded.value, root, 0, params.MaxDepth)
	}

	if done, err := params.EmitJSON(w, report); done {
		return err
	}

	var output strings.Builder
	fmt.Fprintf(&output, "source:      %s\n", report.Source)
	fmt.Fprintf(&output, "bytes:       %d\n", report.Bytes)
	fmt.Fprintf(&output, "compression: %s\n", report.Compression)
	fmt.Fprintf(&output, "digest:      %s\n", report.Digest)
	fmt.Fprintf(&output, "items:       %d\n\n", report.Items)
	for _, node := range report.Nodes {
		path := node.Path
		if path == "" {
			path = "."
		}
		fmt.Fprintf(&output, "%s%s  %s  %s", strings.Repeat("  ", node.Depth), path, node.Kind, node.Summary)
		if node.Date != nil {
			fmt.Fprintf(&output, "  = %s", node.Date.Format(time.RFC3339Nano))
		}
		output.WriteByte('\n')
	}
	if _, err := io.WriteString(w, output.String()); err != nil {
		return cli.Internal("%w", err)
	}
	return nil
}

// walk appends v and its descendants to nodes in document order.
func walk(nodes []inspectNode, v cborvalue.Value, path cborvalue.Path, depth, maxDepth int) []inspectNode {
	node := inspectNode{
		Path:    path.String(),
		Depth:   depth,
		Kind:    v.Kind().String(),
		Summary: v.String(),
	}
	if number, _, ok := v.Tag(); ok && cbortag.IsDateTag(number) {
		if instant, err := cbortag.ProbeDate(v); err == nil {
			node.Date = &instant
		}
	}
	nodes = append(nodes, node)

	if maxDepth > 0 && depth+1 >= maxDepth {
		return nodes
	}

	switch v.Kind() {
	case cborvalue.KindArray:
		elements, _ := v.Elements()
		for i, element := range elements {
			nodes = walk(nodes, element, path.Append(cborvalue.IndexSegment(i)), depth+1, maxDepth)
		}
	case cborvalue.KindMap:
		pairs, _ := v.Pairs()
		for _, pair := range pairs {
			nodes = walk(nodes, pair.Value, path.Append(keySegment(pair.Key)), depth+1, maxDepth)
		}
	case cborvalue.KindTag:
		_, child, _ := v.Tag()
		nodes = walk(nodes, child, path, depth+1, maxDepth)
	}
	return nodes
}

// keySegment renders a map key as a path segment: text as itself and
// everything else in its short diagnostic form.
func keySegment(key cborvalue.Value) cborvalue.PathSegment {
	if text, ok := key.TextString(); ok {
		return cborvalue.KeySegment(text)
	}
	return cborvalue.KeySegment(key.String())
}
