package dsl

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/github/topodsl/pkg/logger"
)

var schemaLog = logger.New("dsl:schema")

//go:embed schemas/document_schema.json
var documentSchemaJSON string

//go:embed schemas/imports_schema.json
var importsSchemaJSON string

var (
	documentSchemaOnce   sync.Once
	compiledDocumentSchema *jsonschema.Schema
	documentSchemaErr    error

	importsSchemaOnce   sync.Once
	compiledImportsSchema *jsonschema.Schema
	importsSchemaErr    error
)

func getCompiledDocumentSchema() (*jsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		compiledDocumentSchema, documentSchemaErr = compileSchema(documentSchemaJSON, "https://topodsl.invalid/schemas/document.json")
	})
	return compiledDocumentSchema, documentSchemaErr
}

func getCompiledImportsSchema() (*jsonschema.Schema, error) {
	importsSchemaOnce.Do(func() {
		compiledImportsSchema, importsSchemaErr = compileSchema(importsSchemaJSON, "https://topodsl.invalid/schemas/imports.json")
	})
	return compiledImportsSchema, importsSchemaErr
}

func compileSchema(schemaJSON, schemaURL string) (*jsonschema.Schema, error) {
	schemaLog.Printf("compiling schema %s", schemaURL)

	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// validateDocumentSchema validates the combined document tree against the
// top-level structural schema (§6), producing a CodeSchemaViolation Error
// that carries the offending instance path.
func validateDocumentSchema(tree map[string]any) error {
	return validateAgainst(tree, getCompiledDocumentSchema, CodeSchemaViolation)
}

// validateImportsSchema validates just the imports sub-section of a
// document (the root or an imported one), before its children are located
// and loaded.
func validateImportsSchema(tree map[string]any) error {
	return validateAgainst(tree, getCompiledImportsSchema, CodeImportsSchemaViolation)
}

func validateAgainst(tree map[string]any, getSchema func() (*jsonschema.Schema, error), code Code) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	// Normalize through JSON so the validator sees plain JSON types rather
	// than the YAML decoder's richer scalar set.
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to marshal document for validation: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("failed to unmarshal document for validation: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		var valErr *jsonschema.ValidationError
		if ok := asValidationError(err, &valErr); ok {
			return &Error{
				Code:    code,
				Message: "document does not conform to the structural schema: " + firstLine(valErr.Error()),
				Path:    instancePath(valErr),
			}
		}
		return &Error{Code: code, Message: "document does not conform to the structural schema: " + err.Error()}
	}
	return nil
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return false
	}
	*target = ve
	return true
}

// instancePath walks to the deepest cause of a validation error and returns
// its instance location as a dotted path.
func instancePath(err *jsonschema.ValidationError) []string {
	cause := err
	for len(cause.Causes) > 0 {
		cause = cause.Causes[0]
	}
	return cause.InstanceLocation
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
