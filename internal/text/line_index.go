package text

import "fmt"

// lineIndex maps (line, character) positions to offsets in the text
// obtained by joining the buffer lines with a single "\n". Offsets are
// always computed against the original, unmutated buffer; one separator
// is charged per preceding line.
type lineIndex struct {
	lines      []string
	lineStarts []int
}

func newLineIndex(lines []string) *lineIndex {
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l) + 1 // separator
	}
	return &lineIndex{lines: lines, lineStarts: starts}
}

// offsetOf resolves a position to an offset into the joined text.
func (li *lineIndex) offsetOf(p Position) (int, error) {
	if !p.IsValid() {
		return 0, &OffsetError{Pos: p, Reason: "negative component"}
	}
	if p.Line >= len(li.lines) {
		return 0, &OffsetError{Pos: p, Reason: "line past end of buffer"}
	}
	if p.Character > len(li.lines[p.Line]) {
		return 0, &OffsetError{Pos: p, Reason: "character past end of line"}
	}
	return li.lineStarts[p.Line] + p.Character, nil
}

// spanOf resolves both ends of a range against the same snapshot.
// Negative position components surface as *OffsetError, same as
// positions past the end of the buffer.
func (li *lineIndex) spanOf(r Range) (span, error) {
	start, err := li.offsetOf(r.Start)
	if err != nil {
		return span{}, err
	}
	end, err := li.offsetOf(r.End)
	if err != nil {
		return span{}, err
	}
	if end < start {
		return span{}, fmt.Errorf("range bounds inverted: end (%s) before start (%s)", r.End, r.Start)
	}
	return span{Start: start, End: end}, nil
}
