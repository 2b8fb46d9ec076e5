package srt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports a malformed block with its position in the input.
type ParseError struct {
	Block  int // 1-based block ordinal
	Line   int // 1-based line number within the normalized input
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("srt: block %d (line %d): %s", e.Block, e.Line, e.Reason)
}

var (
	timestampLinePattern = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}[,.]\d{3}) --> (\d{2}:\d{2}:\d{2}[,.]\d{3})$`)
	tagPattern           = regexp.MustCompile(`<[^<>]+>`)
)

// Parse converts raw SRT bytes into a Document. Line endings are normalized
// to LF and a UTF-8 BOM is stripped before block splitting. Any malformed
// block aborts the whole parse with a ParseError; no partial document is
// returned.
func Parse(raw []byte) (*Document, error) {
	content := normalize(string(raw))
	trimmed := strings.Trim(content, "\n")
	if strings.TrimSpace(trimmed) == "" {
		return &Document{}, nil
	}

	doc := &Document{}
	lineNo := 1 + leadingNewlines(content)
	for blockNo, block := range strings.Split(trimmed, "\n\n") {
		cue, err := parseBlock(block, blockNo+1, lineNo)
		if err != nil {
			return nil, err
		}
		doc.Cues = append(doc.Cues, cue)
		lineNo += strings.Count(block, "\n") + 2
	}
	return doc, nil
}

func parseBlock(block string, blockNo, lineNo int) (Cue, error) {
	lines := strings.Split(block, "\n")
	if strings.TrimSpace(block) == "" {
		return Cue{}, &ParseError{Block: blockNo, Line: lineNo, Reason: "empty block"}
	}
	if len(lines) < 3 {
		return Cue{}, &ParseError{Block: blockNo, Line: lineNo, Reason: "block must contain index, timestamps, and text"}
	}

	indexLine := lines[0]
	index, err := strconv.Atoi(strings.TrimSpace(indexLine))
	if err != nil || index <= 0 {
		return Cue{}, &ParseError{Block: blockNo, Line: lineNo, Reason: fmt.Sprintf("invalid index %q", indexLine)}
	}

	match := timestampLinePattern.FindStringSubmatch(lines[1])
	if match == nil {
		return Cue{}, &ParseError{Block: blockNo, Line: lineNo + 1, Reason: fmt.Sprintf("invalid timestamp line %q", lines[1])}
	}
	start, err := NewTimestamp(match[1])
	if err != nil {
		return Cue{}, &ParseError{Block: blockNo, Line: lineNo + 1, Reason: err.Error()}
	}
	end, err := NewTimestamp(match[2])
	if err != nil {
		return Cue{}, &ParseError{Block: blockNo, Line: lineNo + 1, Reason: err.Error()}
	}

	cue := Cue{
		Index:    index,
		Start:    start,
		End:      end,
		rawIndex: indexLine,
		Lines:    make([]Line, 0, len(lines)-2),
	}
	for _, text := range lines[2:] {
		cue.Lines = append(cue.Lines, SplitLine(text))
	}
	return cue, nil
}

// SplitLine decomposes one text line into tag and text segments. Tags are
// matched bracket pairs; everything between them is translatable text.
// Adjacent text is kept as a single segment so whitespace survives intact.
func SplitLine(text string) Line {
	if text == "" {
		return Line{{Kind: SegmentText, Value: ""}}
	}
	var line Line
	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			line = append(line, Segment{Kind: SegmentText, Value: text[last:loc[0]]})
		}
		line = append(line, Segment{Kind: SegmentTag, Value: text[loc[0]:loc[1]]})
		last = loc[1]
	}
	if last < len(text) {
		line = append(line, Segment{Kind: SegmentText, Value: text[last:]})
	}
	return line
}

func normalize(content string) string {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

func leadingNewlines(content string) int {
	count := 0
	for _, r := range content {
		if r != '\n' {
			break
		}
		count++
	}
	return count
}

func parseTimestampSeconds(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// SRT standard uses a comma before milliseconds; tolerate a period.
	normalized := strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(normalized, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
