// Package vimcmd renders reconciliation commands as Vim ex-command
// strings. The host editor evaluates the resulting batch verbatim.
package vimcmd

import (
	"fmt"
	"strings"

	"github.com/nvimlc/languageclient/internal/sign"
)

// signNamePrefix matches the sign names defined by the editor plugin,
// one per severity (LanguageClientError, LanguageClientWarning, ...).
const signNamePrefix = "LanguageClient"

// EscapeSingleQuote doubles single quotes so s can be embedded in a
// single-quoted vimscript string.
func EscapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// PlaceSign renders the ex command fragment that places s in file.
func PlaceSign(s sign.Sign, file string) string {
	return fmt.Sprintf(
		" | execute 'sign place %d line=%d name=%s%s file=%s'",
		s.ID, s.Line, signNamePrefix, s.Severity, file,
	)
}

// UnplaceSign renders the ex command fragment that removes s from file.
func UnplaceSign(s sign.Sign, file string) string {
	return fmt.Sprintf(" | execute 'sign unplace %d file=%s'", s.ID, file)
}

// UpdateSigns renders the full batch that transforms the prev sign
// overlay into cur. The leading "echo" gives the first " | execute"
// fragment a command to chain onto; an unchanged overlay renders as a
// bare "echo".
func UpdateSigns(prev, cur []sign.Sign, file string) string {
	var b strings.Builder
	b.WriteString("echo")
	for _, cmd := range sign.Reconcile(prev, cur, file) {
		switch cmd.Op {
		case sign.OpAdd:
			b.WriteString(PlaceSign(cmd.Sign, cmd.File))
		case sign.OpRemove:
			b.WriteString(UnplaceSign(cmd.Sign, cmd.File))
		}
	}
	return b.String()
}
