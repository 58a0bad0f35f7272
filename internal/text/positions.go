// Package text applies position-addressed edits to line-based buffers.
package text

import "fmt"

// Position is a zero-based (line, character) address within a buffer.
// Character is an offset within the line, counted in the same unit the
// edit source uses for line lengths; the applier does not re-derive the
// encoding, it only requires consistency with len(line).
type Position struct {
	Line      int
	Character int
}

// IsValid reports whether both components are non-negative.
func (p Position) IsValid() bool {
	return p.Line >= 0 && p.Character >= 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open span between two positions, start ≤ end in
// document order.
type Range struct {
	Start Position
	End   Position
}

// Validate reports an error if either position is malformed or end
// precedes start.
func (r Range) Validate() error {
	if !r.Start.IsValid() {
		return fmt.Errorf("invalid range start: %s", r.Start)
	}
	if !r.End.IsValid() {
		return fmt.Errorf("invalid range end: %s", r.End)
	}
	if r.End.Line < r.Start.Line ||
		(r.End.Line == r.Start.Line && r.End.Character < r.Start.Character) {
		return fmt.Errorf("invalid range bounds: end (%s) before start (%s)", r.End, r.Start)
	}
	return nil
}

// IsEmpty reports whether the range addresses zero content.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// TextEdit replaces the content addressed by Range with NewText.
// An empty range is a pure insertion.
type TextEdit struct {
	Range   Range
	NewText string
}

// span is a half-open offset range [Start, End) into the joined buffer
// text.
type span struct {
	Start int // inclusive
	End   int // exclusive
}

func (s span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
