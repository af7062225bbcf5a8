// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/cbordate/lib/cborvalue"
	"github.com/bureau-foundation/cbordate/lib/codec"
)

func TestGrammarOrder(t *testing.T) {
	names := []string{}
	for _, g := range Grammars() {
		names = append(names, g.Name())
	}
	want := []string{"date-time-fraction", "date-time", "date"}
	if len(names) != len(want) {
		t.Fatalf("Grammars() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Grammars()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestGrammarByName(t *testing.T) {
	for _, g := range Grammars() {
		found, ok := GrammarByName(g.Name())
		if !ok || found.Name() != g.Name() {
			t.Errorf("GrammarByName(%q) = (%s, %v)", g.Name(), found, ok)
		}
	}
	if _, ok := GrammarByName("iso-week"); ok {
		t.Error("GrammarByName(iso-week) should not match")
	}
}

func TestGrammarFormat(t *testing.T) {
	instant := time.Date(2017, time.January, 23, 10, 12, 31, 484_987_000, time.FixedZone("CET", 3600))

	tests := []struct {
		grammar Grammar
		want    string
	}{
		{GrammarFractional, "2017-01-23T09:12:31.484Z"},
		{GrammarDateTime, "2017-01-23T09:12:31Z"},
		{GrammarDateOnly, "2017-01-23"},
	}

	for _, tt := range tests {
		if got := FormatDate(instant, tt.grammar); got != tt.want {
			t.Errorf("FormatDate(%s) = %q, want %q", tt.grammar, got, tt.want)
		}
	}
}

// Text produced by each grammar's formatter parses back to the same
// instant at that grammar's precision, through the full wire path.
func TestGrammarRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2017, time.January, 23, 10, 12, 31, 484_000_000, time.UTC),
		time.Date(2021, time.June, 30, 19, 22, 31, 999_999_999, time.UTC),
		time.Date(1999, time.December, 31, 23, 59, 59, 0, time.UTC),
		time.Now(),
	}

	tests := []struct {
		grammar   Grammar
		precision func(time.Time) time.Time
	}{
		{GrammarFractional, func(t time.Time) time.Time { return t.Truncate(time.Millisecond) }},
		{GrammarDateTime, func(t time.Time) time.Time { return t.Truncate(time.Second) }},
		{GrammarDateOnly, func(t time.Time) time.Time {
			return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.grammar.Name(), func(t *testing.T) {
			for _, instant := range instants {
				data, err := codec.EncodeValue(EncodeDate(instant, tt.grammar))
				if err != nil {
					t.Fatalf("EncodeValue: %v", err)
				}
				if data[0] != 0xc0 {
					t.Fatalf("encoded date starts with %#x, want 0xc0", data[0])
				}

				value, err := cborvalue.Decode(data)
				if err != nil {
					t.Fatalf("Decode: %v", err)
				}
				got, err := DateFrom(value)
				if err != nil {
					t.Fatalf("DateFrom(%s): %v", value, err)
				}
				if want := tt.precision(instant); !got.Equal(want) {
					t.Errorf("round trip of %s = %s, want %s", instant, got, want)
				}

				probed, err := DateFromBytes(data)
				if err != nil {
					t.Fatalf("DateFromBytes(%x): %v", data, err)
				}
				if !probed.Equal(got) {
					t.Errorf("DateFromBytes = %s, DateFrom = %s", probed, got)
				}
			}
		})
	}
}

func TestParseDateTextGrammarSelection(t *testing.T) {
	tests := []struct {
		text    string
		grammar Grammar
	}{
		{"2017-01-23T10:12:31.484Z", GrammarFractional},
		{"2017-01-23T10:12:31.4Z", GrammarFractional},
		{"2017-01-23T10:12:31.123456789-05:00", GrammarFractional},
		{"2021-06-30T19:22:31Z", GrammarDateTime},
		{"2021-06-30T19:22:31+00:00", GrammarDateTime},
		{"2016-06-13", GrammarDateOnly},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, matched, err := ParseDateTextGrammar(tt.text)
			if err != nil {
				t.Fatalf("ParseDateTextGrammar: %v", err)
			}
			if matched.Name() != tt.grammar.Name() {
				t.Errorf("matched %s, want %s", matched, tt.grammar)
			}
		})
	}
}

func TestGrammarsAreExclusive(t *testing.T) {
	if _, err := GrammarDateTime.Parse("2017-01-23T10:12:31.484Z"); err == nil {
		t.Error("whole-second grammar accepted a fractional date-time")
	}
	if _, err := GrammarFractional.Parse("2021-06-30T19:22:31Z"); err == nil {
		t.Error("fractional grammar accepted a whole-second date-time")
	}
	if _, err := GrammarDateOnly.Parse("2021-06-30T19:22:31Z"); err == nil {
		t.Error("date-only grammar accepted a date-time")
	}
	if _, err := (Grammar{}).Parse("2016-06-13"); err == nil {
		t.Error("zero Grammar parsed text")
	}
}

func TestParseDateTextRejects(t *testing.T) {
	for _, text := range []string{"", "2016", "2016-06", "13/06/2016", "2016-06-13T", "2016-06-13T10:00Z", "2016-02-30"} {
		_, err := ParseDateText(text)
		if !errors.Is(err, cborvalue.ErrDataCorrupted) {
			t.Errorf("ParseDateText(%q) = %v, want ErrDataCorrupted", text, err)
		}
	}
}

func TestParseDateTextConcurrent(t *testing.T) {
	var group sync.WaitGroup
	for range 8 {
		group.Go(func() {
			for range 100 {
				if _, err := ParseDateText("2017-01-23T10:12:31.484Z"); err != nil {
					t.Errorf("ParseDateText: %v", err)
					return
				}
			}
		})
	}
	group.Wait()
}

func BenchmarkParseDateText(b *testing.B) {
	for b.Loop() {
		ParseDateText("2016-06-13")
	}
}
