// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bureau-foundation/cbordate/cmd/cbordate/cli"
	"github.com/bureau-foundation/cbordate/lib/binhash"
	"github.com/bureau-foundation/cbordate/lib/testutil"
)

func inspectJSON(t *testing.T, hexData string, params inspectParams) inspectReport {
	t.Helper()
	params.OutputJSON = true
	var output bytes.Buffer
	if err := runInspect(testInput(t, testutil.MustHex(t, hexData)), params, &output); err != nil {
		t.Fatalf("runInspect: %v", err)
	}
	var report inspectReport
	if err := json.Unmarshal(output.Bytes(), &report); err != nil {
		t.Fatalf("output is not an inspect report: %v\n%s", err, output.String())
	}
	return report
}

func TestRunInspect_Tree(t *testing.T) {
	report := inspectJSON(t, eventHex, inspectParams{})

	if report.Bytes != 10 || report.Items != 1 || report.Compression != "none" {
		t.Errorf("header = %d bytes, %d items, %s; want 10, 1, none", report.Bytes, report.Items, report.Compression)
	}
	if want := binhash.Sum(testutil.MustHex(t, eventHex)).String(); report.Digest != want {
		t.Errorf("digest = %s, want %s", report.Digest, want)
	}

	want := []struct {
		path  string
		depth int
		kind  string
	}{
		{"", 0, "map"},
		{"0", 1, "tagged value"},
		{"0", 2, "unsigned integer"},
		{"3", 1, "boolean"},
	}
	if len(report.Nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d: %+v", len(report.Nodes), len(want), report.Nodes)
	}
	for i, node := range report.Nodes {
		if node.Path != want[i].path || node.Depth != want[i].depth || node.Kind != want[i].kind {
			t.Errorf("node %d = %q depth %d %s, want %q depth %d %s",
				i, node.Path, node.Depth, node.Kind, want[i].path, want[i].depth, want[i].kind)
		}
	}

	dated := report.Nodes[1]
	if dated.Date == nil {
		t.Fatal("tag 1 node has no date")
	}
	if got := dated.Date.UTC().Format("2006-01-02T15:04:05Z07:00"); got != "2025-05-20T09:25:11Z" {
		t.Errorf("date = %s, want 2025-05-20T09:25:11Z", got)
	}
	for _, i := range []int{0, 2, 3} {
		if report.Nodes[i].Date != nil {
			t.Errorf("node %d (%s) should have no date", i, report.Nodes[i].Kind)
		}
	}
}

func TestRunInspect_MaxDepth(t *testing.T) {
	tests := []struct {
		maxDepth int
		want     int
	}{
		{0, 4},
		{1, 1},
		{2, 3},
		{3, 4},
	}
	for _, tt := range tests {
		report := inspectJSON(t, eventHex, inspectParams{MaxDepth: tt.maxDepth})
		if len(report.Nodes) != tt.want {
			t.Errorf("max depth %d: got %d nodes, want %d", tt.maxDepth, len(report.Nodes), tt.want)
		}
	}
}

func TestRunInspect_Sequence(t *testing.T) {
	report := inspectJSON(t, "f5 c100 6161", inspectParams{})
	if report.Items != 3 {
		t.Fatalf("items = %d, want 3", report.Items)
	}

	var paths []string
	for _, node := range report.Nodes {
		paths = append(paths, node.Path)
	}
	if got, want := strings.Join(paths, " "), "[0] [1] [1] [2]"; got != want {
		t.Errorf("paths = %s, want %s", got, want)
	}
	if report.Nodes[1].Date == nil {
		t.Error("1(0) should show the epoch")
	}
}

func TestRunInspect_Text(t *testing.T) {
	var output bytes.Buffer
	if err := runInspect(testInput(t, testutil.MustHex(t, eventHex)), inspectParams{}, &output); err != nil {
		t.Fatalf("runInspect: %v", err)
	}
	text := output.String()

	for _, want := range []string{
		"source:      test\n",
		"compression: none\n",
		"items:       1\n",
		".  map  map(2)\n",
		"  0  tagged value  1(1747733111)  = 2025-05-20T09:25:11Z\n",
		"    0  unsigned integer  1747733111\n",
		"  3  boolean  true\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunInspect_Malformed(t *testing.T) {
	err := runInspect(testInput(t, testutil.MustHex(t, "a2 00")), inspectParams{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for a truncated map")
	}
	if got := cli.CategoryOf(err); got != cli.CategoryValidation {
		t.Errorf("category = %s, want validation", got)
	}
}
