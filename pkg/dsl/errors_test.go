package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_ErrorString(t *testing.T) {
	err := &Error{Code: CodeUnknownNodeType, Message: "undefined type: t"}
	assert.Equal(t, "[7] undefined type: t", err.Error())
}

func TestError_Diagnostic_IncludesPath(t *testing.T) {
	err := &Error{Code: CodeSchemaViolation, Message: "bad shape", Path: []string{"types", "t"}}
	diag := err.Diagnostic()
	assert.Contains(t, diag, "bad shape")
	assert.Contains(t, diag, "types.t")
}
