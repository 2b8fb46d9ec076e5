package srt

import (
	"strconv"
	"strings"
)

// SegmentKind discriminates between translatable text and opaque markup.
type SegmentKind int

const (
	// SegmentText is plain dialogue text eligible for translation.
	SegmentText SegmentKind = iota
	// SegmentTag is an inline formatting marker carried through verbatim.
	SegmentTag
)

// Segment is a contiguous span within one cue line.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Line is an ordered sequence of segments making up one text line of a cue.
type Line []Segment

// String reassembles the line into its wire form.
func (l Line) String() string {
	var b strings.Builder
	for _, seg := range l {
		b.WriteString(seg.Value)
	}
	return b.String()
}

// Clone returns a deep copy of the line.
func (l Line) Clone() Line {
	if l == nil {
		return nil
	}
	cp := make(Line, len(l))
	copy(cp, l)
	return cp
}

// Timestamp holds one SRT timestamp in its original byte form.
type Timestamp struct {
	raw     string
	seconds float64
}

// NewTimestamp builds a timestamp from its canonical HH:MM:SS,mmm form.
// It is intended for tests and synthetic documents; Parse populates
// timestamps directly from input bytes.
func NewTimestamp(raw string) (Timestamp, error) {
	seconds, err := parseTimestampSeconds(raw)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{raw: raw, seconds: seconds}, nil
}

// String returns the timestamp exactly as it appeared in the input.
func (t Timestamp) String() string { return t.raw }

// Seconds returns the timestamp as seconds from the start of playback.
func (t Timestamp) Seconds() float64 { return t.seconds }

// Cue is one timed subtitle entry.
type Cue struct {
	Index int
	Start Timestamp
	End   Timestamp
	Lines []Line

	// rawIndex preserves the index line bytes (e.g. zero padding) so
	// serialization is an exact inverse of parsing.
	rawIndex string
}

// IndexText returns the index line as it will be serialized.
func (c Cue) IndexText() string {
	if c.rawIndex != "" {
		return c.rawIndex
	}
	return strconv.Itoa(c.Index)
}

// Text returns the cue's text lines joined with newlines, tags included.
func (c Cue) Text() string {
	parts := make([]string, len(c.Lines))
	for i, line := range c.Lines {
		parts[i] = line.String()
	}
	return strings.Join(parts, "\n")
}

// Clone returns a deep copy of the cue.
func (c Cue) Clone() Cue {
	cp := c
	cp.Lines = make([]Line, len(c.Lines))
	for i, line := range c.Lines {
		cp.Lines[i] = line.Clone()
	}
	return cp
}

// Document is an ordered sequence of cues.
type Document struct {
	Cues []Cue
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := &Document{Cues: make([]Cue, len(d.Cues))}
	for i, cue := range d.Cues {
		cp.Cues[i] = cue.Clone()
	}
	return cp
}
