package dsl

import (
	"strings"

	"github.com/github/topodsl/pkg/console"
)

// Diagnostic renders an Error the way a compiler would: a styled
// "error: message" line, with the dotted instance or cycle path appended
// as one-line context when the error carries one.
func (e *Error) Diagnostic() string {
	msg := e.Message
	if len(e.Path) > 0 {
		msg += " (at " + strings.Join(e.Path, ".") + ")"
	}
	compilerErr := console.CompilerError{
		Type:    "error",
		Message: msg,
	}
	if len(e.Chain) > 0 {
		compilerErr.Context = []string{strings.Join(e.Chain, " -> ")}
		compilerErr.Position.Line = 1
	}
	return console.FormatError(compilerErr)
}
