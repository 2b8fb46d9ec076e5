package srt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:04,000
Hello world

2
00:00:05,500 --> 00:00:07,250
<i>Goodbye</i> cruel world
Second line

3
00:01:00,000 --> 00:01:02,000
- What now?
- Nothing.
`

func TestParseRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(doc.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(doc.Cues))
	}
	out := Serialize(doc)
	if !bytes.Equal(out, []byte(sampleSRT)) {
		t.Fatalf("round trip mismatch:\n--- input ---\n%s\n--- output ---\n%s", sampleSRT, out)
	}
}

func TestParsePreservesIndicesAndTimestamps(t *testing.T) {
	doc, err := Parse([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	cue := doc.Cues[1]
	if cue.Index != 2 {
		t.Fatalf("expected index 2, got %d", cue.Index)
	}
	if cue.Start.String() != "00:00:05,500" || cue.End.String() != "00:00:07,250" {
		t.Fatalf("unexpected timestamps %s --> %s", cue.Start, cue.End)
	}
	if got := cue.Start.Seconds(); got != 5.5 {
		t.Fatalf("expected 5.5 seconds, got %v", got)
	}
}

func TestParseTagSegmentation(t *testing.T) {
	doc, err := Parse([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	line := doc.Cues[1].Lines[0]
	want := Line{
		{Kind: SegmentTag, Value: "<i>"},
		{Kind: SegmentText, Value: "Goodbye"},
		{Kind: SegmentTag, Value: "</i>"},
		{Kind: SegmentText, Value: " cruel world"},
	}
	if len(line) != len(want) {
		t.Fatalf("expected %d segments, got %d: %#v", len(want), len(line), line)
	}
	for i := range want {
		if line[i] != want[i] {
			t.Fatalf("segment %d: expected %#v, got %#v", i, want[i], line[i])
		}
	}
	if line.String() != "<i>Goodbye</i> cruel world" {
		t.Fatalf("line did not reassemble: %q", line.String())
	}
}

func TestParseStripsBOMAndCRLF(t *testing.T) {
	input := "\uFEFF1\r\n00:00:01,000 --> 00:00:02,000\r\nHei\r\n"
	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(doc.Cues) != 1 || doc.Cues[0].Text() != "Hei" {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestParseMalformedBlockReportsPosition(t *testing.T) {
	blocks := []string{
		"1\n00:00:01,000 --> 00:00:02,000\nA",
		"2\n00:00:03,000 --> 00:00:04,000\nB",
		"3\nmissing timestamp line",
		"4\n00:00:07,000 --> 00:00:08,000\nD",
		"5\n00:00:09,000 --> 00:00:10,000\nE",
	}
	_, err := Parse([]byte(strings.Join(blocks, "\n\n") + "\n"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Block != 3 {
		t.Fatalf("expected block 3, got %d", parseErr.Block)
	}
}

func TestParseRejectsNonNumericIndex(t *testing.T) {
	_, err := Parse([]byte("one\n00:00:01,000 --> 00:00:02,000\nA\n"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Block != 1 {
		t.Fatalf("expected block 1, got %d", parseErr.Block)
	}
}

func TestParseEmptyInput(t *testing.T) {
	doc, err := Parse([]byte("  \n\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(doc.Cues) != 0 {
		t.Fatalf("expected empty document, got %d cues", len(doc.Cues))
	}
}

func TestSplitLineOnlyTag(t *testing.T) {
	line := SplitLine("<i></i>")
	for _, seg := range line {
		if seg.Kind == SegmentText && strings.TrimSpace(seg.Value) != "" {
			t.Fatalf("expected no translatable text, got %#v", line)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc, err := Parse([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	cp := doc.Clone()
	cp.Cues[0].Lines[0][0].Value = "mutated"
	if doc.Cues[0].Lines[0][0].Value == "mutated" {
		t.Fatal("clone shares line storage with original")
	}
}

func TestDecodeBytesPassesUTF8Through(t *testing.T) {
	raw := []byte("café noir")
	out, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("DecodeBytes returned error: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("valid UTF-8 changed: %q", out)
	}
}

func TestDecodeBytesReinterpretsLatin1(t *testing.T) {
	out, err := DecodeBytes([]byte("caf\xe9 noir"))
	if err != nil {
		t.Fatalf("DecodeBytes returned error: %v", err)
	}
	if string(out) != "café noir" {
		t.Fatalf("expected latin-1 reinterpretation, got %q", out)
	}
}
