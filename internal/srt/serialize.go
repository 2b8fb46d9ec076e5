package srt

import "strings"

// Serialize renders the document back to SRT bytes. Blocks are joined by a
// blank line and the output ends with a single trailing newline, matching
// the form Parse accepts, so Serialize(Parse(x)) reproduces well-formed
// input exactly.
func Serialize(doc *Document) []byte {
	if doc == nil || len(doc.Cues) == 0 {
		return []byte{}
	}
	var b strings.Builder
	for i, cue := range doc.Cues {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(cue.IndexText())
		b.WriteString("\n")
		b.WriteString(cue.Start.String())
		b.WriteString(" --> ")
		b.WriteString(cue.End.String())
		b.WriteString("\n")
		for _, line := range cue.Lines {
			b.WriteString(line.String())
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}
