package sign

import "github.com/pmezard/go-difflib/difflib"

// Op distinguishes reconciliation command kinds.
type Op int

const (
	// OpAdd places a sign that is present only in the new set.
	OpAdd Op = iota
	// OpRemove unplaces a sign that is present only in the old set.
	OpRemove
)

func (o Op) String() string {
	if o == OpAdd {
		return "add"
	}
	return "remove"
}

// Command is one step of transforming an old sign overlay into a new
// one for a single file.
type Command struct {
	Op   Op
	Sign Sign
	File string
}

// Reconcile computes the ordered command batch that transforms prev
// into cur. Signs are compared by (line, severity); commands follow the
// merged diff walk, so removals and additions stay interleaved in
// document order rather than grouped by kind. Removals carry the sign
// instance from prev, additions the instance from cur. Signs common to
// both sets emit nothing.
func Reconcile(prev, cur []Sign, file string) []Command {
	matcher := difflib.NewMatcher(keys(prev), keys(cur))

	var cmds []Command
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue // unchanged run
		}
		if op.Tag == 'd' || op.Tag == 'r' {
			for _, s := range prev[op.I1:op.I2] {
				cmds = append(cmds, Command{Op: OpRemove, Sign: s, File: file})
			}
		}
		if op.Tag == 'i' || op.Tag == 'r' {
			for _, s := range cur[op.J1:op.J2] {
				cmds = append(cmds, Command{Op: OpAdd, Sign: s, File: file})
			}
		}
	}
	return cmds
}

func keys(signs []Sign) []string {
	out := make([]string, len(signs))
	for i, s := range signs {
		out[i] = s.key()
	}
	return out
}
