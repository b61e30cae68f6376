package dsl

import (
	"fmt"
	"strings"
)

// Code identifies one of the format or logic error kinds a parse can fail
// with. Format errors (negative and single-digit, below 3) mean the document
// is syntactically or structurally malformed; logic errors mean it is
// well-formed but semantically invalid.
type Code int

const (
	CodeYAMLParseFailure       Code = -1
	CodeEmptyDocument          Code = 0
	CodeSchemaViolation        Code = 1
	CodeImportsSchemaViolation Code = 2

	CodeNonMergeable            Code = 3
	CodeMergeConflict           Code = 4
	CodeMissingPluginsSection   Code = 5
	CodePluginInterfaceMismatch Code = 6
	CodeUnknownNodeType         Code = 7
	CodeCircularImports         Code = 8
	CodeUndefinedInterface      Code = 9
	CodeUndeclaredPlugin        Code = 10
	CodeNoMatchingPlugin        Code = 11
	CodeAmbiguousAutowiring     Code = 12
	CodeImportNotFound          Code = 13
	CodeUndefinedParentType     Code = 14
	CodeRefOpenFailed           Code = 15
	CodePolicyNotDefined        Code = 16
	CodeRuleNotDefined          Code = 17

	CodeCircularDerivation       Code = 100
	CodeDuplicateNode            Code = 101
	CodeDuplicateInterfaceOnNode Code = 102
)

// Error is the single error type every parse failure surfaces as. Which of
// the payload fields are populated depends on Code: a CodeCircularImports or
// CodeCircularDerivation error populates Chain, a CodeMergeConflict error
// populates Section and Path, a CodeImportNotFound error populates
// Searched, and so on. This keeps the error surface a flat sum type
// (discriminated by Code) rather than a hierarchy of exception subclasses.
type Error struct {
	Code    Code
	Message string

	Chain    []string // import or derivation cycle, in traversal order
	Section  string    // top-level section a merge conflict occurred under
	Path     []string  // dotted path to a conflicting key or schema violation
	Searched []string  // locations searched while resolving an import
	Names    []string  // other relevant names (matching plugins, type names, ...)
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func errImportNotFound(reference string, searched []string) *Error {
	return &Error{
		Code:     CodeImportNotFound,
		Message:  fmt.Sprintf("failed to locate import %q; searched: %s", reference, strings.Join(searched, ", ")),
		Searched: searched,
	}
}

func errCircularImports(chain []string) *Error {
	return &Error{
		Code:    CodeCircularImports,
		Message: fmt.Sprintf("circular imports detected: %s", strings.Join(chain, " -> ")),
		Chain:   chain,
	}
}

func errMergeConflict(section string, path []string) *Error {
	return &Error{
		Code:    CodeMergeConflict,
		Message: fmt.Sprintf("failed on import: could not merge %s due to conflict on path %s", section, strings.Join(path, " -> ")),
		Section: section,
		Path:    path,
	}
}

func errNonMergeable(key string) *Error {
	return &Error{
		Code:    CodeNonMergeable,
		Message: fmt.Sprintf("failed on import: non-mergeable field %q", key),
		Section: key,
	}
}

func errCircularDerivation(chain []string) *Error {
	return &Error{
		Code:    CodeCircularDerivation,
		Message: fmt.Sprintf("circular dependency detected deriving type %q: %s", chain[0], strings.Join(chain, " -> ")),
		Chain:   chain,
	}
}

func errDuplicateNode(name string, count int) *Error {
	return &Error{
		Code:    CodeDuplicateNode,
		Message: fmt.Sprintf("duplicate node definition detected: %d nodes named %q", count, name),
		Names:   []string{name},
	}
}

func errDuplicateInterfaceOnNode(nodeName, interfaceName string) *Error {
	return &Error{
		Code:    CodeDuplicateInterfaceOnNode,
		Message: fmt.Sprintf("duplicate interface definition detected on node %q: interface %q is declared more than once", nodeName, interfaceName),
		Names:   []string{nodeName, interfaceName},
	}
}
