// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// Grammar is one textual date representation accepted under tag 0.
// Each grammar parses its own format and can produce it, so text made
// by Format always parses back with Parse.
type Grammar struct {
	name        string
	layout      string
	parseLayout string
	accept      func(text string) bool
}

// The three grammars, in the order ParseDateText tries them.
var (
	// GrammarFractional is an RFC 3339 date-time with a required
	// fractional second: 2017-01-23T10:12:31.484Z.
	GrammarFractional = Grammar{
		name:        "date-time-fraction",
		layout:      "2006-01-02T15:04:05.000Z07:00",
		parseLayout: time.RFC3339Nano,
		accept:      hasFraction,
	}

	// GrammarDateTime is an RFC 3339 date-time with whole seconds:
	// 2021-06-30T19:22:31Z.
	GrammarDateTime = Grammar{
		name:        "date-time",
		layout:      time.RFC3339,
		parseLayout: time.RFC3339,
		accept:      func(text string) bool { return !hasFraction(text) },
	}

	// GrammarDateOnly is a calendar date, read as midnight UTC:
	// 2016-06-13.
	GrammarDateOnly = Grammar{
		name:        "date",
		layout:      time.DateOnly,
		parseLayout: time.DateOnly,
		accept:      func(string) bool { return true },
	}
)

var grammars = [...]Grammar{GrammarFractional, GrammarDateTime, GrammarDateOnly}

// Grammars returns the grammars in priority order.
func Grammars() []Grammar {
	return append([]Grammar(nil), grammars[:]...)
}

// GrammarByName returns the grammar whose Name is name.
func GrammarByName(name string) (Grammar, bool) {
	for _, g := range grammars {
		if g.name == name {
			return g, true
		}
	}
	return Grammar{}, false
}

// hasFraction reports whether a date-time has a fractional second,
// i.e. a '.' directly after "YYYY-MM-DDTHH:MM:SS".
func hasFraction(text string) bool {
	return len(text) > 19 && text[19] == '.'
}

// Name identifies the grammar in logs and CLI output.
func (g Grammar) Name() string { return g.name }

func (g Grammar) String() string { return g.name }

// Format renders t in this grammar, in UTC. The fractional grammar
// writes milliseconds; its parser accepts up to nanoseconds.
func (g Grammar) Format(t time.Time) string {
	return t.UTC().Format(g.layout)
}

// Parse reads text in this grammar and returns the instant in UTC.
func (g Grammar) Parse(text string) (time.Time, error) {
	if g.layout == "" {
		return time.Time{}, fmt.Errorf("zero Grammar")
	}
	if !g.accept(text) {
		return time.Time{}, fmt.Errorf("%q does not match the %s grammar", text, g.name)
	}
	t, err := time.Parse(g.parseLayout, text)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatDate renders t in grammar g.
func FormatDate(t time.Time, g Grammar) string {
	return g.Format(t)
}

// EncodeDate returns t as a tag 0 value holding text in grammar g.
func EncodeDate(t time.Time, g Grammar) cborvalue.Value {
	return cborvalue.Tagged(TagDateTimeString, cborvalue.Text(g.Format(t)))
}

// ParseDateText parses tag 0 text against each grammar in order and
// returns the first match.
func ParseDateText(text string) (time.Time, error) {
	t, _, err := ParseDateTextGrammar(text)
	return t, err
}

// ParseDateTextGrammar is ParseDateText that also reports which grammar
// matched.
func ParseDateTextGrammar(text string) (time.Time, Grammar, error) {
	for _, g := range grammars {
		if t, err := g.Parse(text); err == nil {
			return t, g, nil
		}
	}
	return time.Time{}, Grammar{}, cborvalue.Corrupted(nil, "unrecognized date-time text %q", text)
}
