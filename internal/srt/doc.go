// Package srt parses and serializes SubRip subtitle documents.
//
// A Document is an ordered list of cues; each cue keeps its original index
// and timestamp bytes so serialization reproduces the input exactly. Cue
// text is decomposed into segments: plain text that may be translated, and
// inline formatting tags (<i>, <b>, <font ...>) that are carried through as
// opaque markers. Parsing is strict; a malformed block fails the whole
// document with its block position rather than yielding a partial result.
package srt
