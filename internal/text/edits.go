package text

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrOverlappingEdits is returned when two edits address intersecting
// spans. Touching spans are allowed.
var ErrOverlappingEdits = errors.New("overlapping edits")

// OffsetError reports a position that cannot be resolved against the
// buffer the edits were addressed to.
type OffsetError struct {
	Pos    Position
	Reason string
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("position %s out of range: %s", e.Pos, e.Reason)
}

// resolvedEdit is an edit whose range has been fixed to offsets in the
// joined snapshot text.
type resolvedEdit struct {
	span    span
	newText string
}

// ApplyEdits applies position-addressed edits to a buffer of lines and
// returns the new line sequence. Edits may be supplied in any order;
// they are resolved against a single snapshot of the original buffer,
// then spliced in ascending offset order so that no replacement can
// invalidate an offset computed for another edit.
//
// Lines are joined with a single "\n" for offset arithmetic, so any
// original line-ending style is normalized. On error the input buffer
// is untouched and no partial result is returned.
func ApplyEdits(lines []string, edits []TextEdit) ([]string, error) {
	if len(edits) == 0 {
		return slices.Clone(lines), nil
	}

	resolved, err := resolveSortedEdits(lines, edits)
	if err != nil {
		return nil, err
	}

	text := strings.Join(lines, "\n")
	var out strings.Builder
	out.Grow(len(text))
	cursor := 0
	for _, e := range resolved {
		out.WriteString(text[cursor:e.span.Start])
		out.WriteString(e.newText)
		cursor = e.span.End
	}
	out.WriteString(text[cursor:])

	return strings.Split(out.String(), "\n"), nil
}

// ValidateEdits resolves edit ranges against the buffer and checks for
// overlap without applying anything.
func ValidateEdits(lines []string, edits []TextEdit) error {
	_, err := resolveSortedEdits(lines, edits)
	return err
}

func resolveSortedEdits(lines []string, edits []TextEdit) ([]resolvedEdit, error) {
	idx := newLineIndex(lines)
	resolved := make([]resolvedEdit, 0, len(edits))
	for _, e := range edits {
		sp, err := idx.spanOf(e.Range)
		if err != nil {
			return nil, fmt.Errorf("edit %s: %w", e.Range, err)
		}
		resolved = append(resolved, resolvedEdit{span: sp, newText: e.NewText})
	}

	slices.SortStableFunc(resolved, func(a, b resolvedEdit) int {
		if c := cmp.Compare(a.span.Start, b.span.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.span.End, b.span.End)
	})

	for i := 1; i < len(resolved); i++ {
		prev := resolved[i-1]
		cur := resolved[i]
		if cur.span.Start < prev.span.End {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, prev.span, cur.span)
		}
	}
	return resolved, nil
}
