// Package sign models per-line diagnostic markers and computes the
// add/remove delta between two marker sets.
package sign

import "fmt"

// Severity classifies a sign, using the protocol's numeric values.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	case SeverityHint:
		return "Hint"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// IsValid reports whether s is one of the four defined severities.
func (s Severity) IsValid() bool {
	return s >= SeverityError && s <= SeverityHint
}

// idBase keeps sign IDs out of the range other plugins typically use.
const idBase = 75000

// severitySlots is the number of ID slots reserved per line, one per
// severity.
const severitySlots = 4

// Sign is a placed marker on a 1-based buffer line. ID is a display
// handle for the host editor; identity for diffing is (Line, Severity)
// only.
type Sign struct {
	ID       int
	Line     int
	Severity Severity
}

// New derives a sign whose ID encodes its line/severity slot, so the
// same (line, severity) pair always maps to the same editor sign ID.
func New(line int, severity Severity) Sign {
	return Sign{
		ID:       idBase + (line-1)*severitySlots + int(severity-1),
		Line:     line,
		Severity: severity,
	}
}

// key is the diff identity of a sign. Two signs that differ only by ID
// compare equal.
func (s Sign) key() string {
	return fmt.Sprintf("%d/%d", s.Line, s.Severity)
}
