// Package schemas declares the typed JSON Schema value objects agents
// attach to model calls, and validates model output against them.
//
// Schemas are declared once per agent and compiled at package init; a
// malformed declaration panics at startup instead of failing a request.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldType enumerates the JSON types a schema field may declare.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// Field declares one property of an output schema.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	// Required fields appear in the schema's required list; absent
	// required fields fail validation rather than surfacing as zero
	// values downstream.
	Required bool
	// Enum restricts a string field to a fixed value set.
	Enum []string
	// Items describes array elements. Arrays of objects set Items.Type
	// to TypeObject and fill Items.Properties.
	Items *Field
	// MinItems/MaxItems bound array length when both are non-zero or
	// MaxItems alone is set.
	MinItems int
	MaxItems int
	// Properties describes the fields of an object-typed field.
	Properties []Field
}

// OutputSchema is the typed declaration of the JSON shape an agent
// expects back from the model.
type OutputSchema struct {
	Name        string
	Description string
	Fields      []Field
}

// Document renders the schema as a JSON Schema document. Objects always
// set additionalProperties false so strict response formats reject
// extra keys.
func (s *OutputSchema) Document() map[string]any {
	return objectDocument(s.Fields)
}

func objectDocument(fields []Field) map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		properties[f.Name] = fieldDocument(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func fieldDocument(f Field) map[string]any {
	doc := map[string]any{"type": string(f.Type)}
	if f.Description != "" {
		doc["description"] = f.Description
	}
	switch f.Type {
	case TypeString:
		if len(f.Enum) > 0 {
			doc["enum"] = f.Enum
		}
	case TypeArray:
		if f.Items != nil {
			doc["items"] = fieldDocument(*f.Items)
		}
		if f.MinItems > 0 {
			doc["minItems"] = f.MinItems
		}
		if f.MaxItems > 0 {
			doc["maxItems"] = f.MaxItems
		}
	case TypeObject:
		inner := objectDocument(f.Properties)
		if f.Description != "" {
			inner["description"] = f.Description
		}
		return inner
	}
	return doc
}

// Compiled pairs a schema declaration with its compiled validator.
type Compiled struct {
	Schema   *OutputSchema
	document map[string]any
	compiled *gojsonschema.Schema
}

// Compile validates and compiles a schema declaration.
func Compile(schema *OutputSchema) (*Compiled, error) {
	if schema.Name == "" {
		return nil, &SchemaLoadError{Path: "(declared schema)", Message: "schema name is required"}
	}
	if len(schema.Fields) == 0 {
		return nil, &SchemaLoadError{Path: schema.Name, Message: "schema declares no fields"}
	}
	doc := schema.Document()
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &SchemaLoadError{Path: schema.Name, Message: "schema failed to compile", Cause: err}
	}
	return &Compiled{Schema: schema, document: doc, compiled: compiled}, nil
}

// MustCompile compiles a schema declaration, panicking on failure. Used
// for package-level agent schema declarations.
func MustCompile(schema *OutputSchema) *Compiled {
	c, err := Compile(schema)
	if err != nil {
		panic(fmt.Sprintf("invalid output schema: %v", err))
	}
	return c
}

// Document returns the rendered JSON Schema document for attaching to a
// model call's response format.
func (c *Compiled) Document() map[string]any {
	return c.document
}

// Validate checks a raw JSON document against the schema, returning a
// *ValidationError describing every violating field.
func (c *Compiled) Validate(raw []byte) error {
	result, err := c.compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaLoadError{Path: c.Schema.Name, Message: "document failed to load", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}
