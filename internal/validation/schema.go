package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// Schema is a compiled JSON schema (draft 2020-12).
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// CompileSchema compiles raw JSON schema source registered under name.
func CompileSchema(name string, raw []byte) (*Schema, error) {
	if strings.TrimSpace(name) == "" {
		name = "schema.json"
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompileSchema is CompileSchema for package-level schemas.
func MustCompileSchema(name string, raw []byte) *Schema {
	schema, err := CompileSchema(name, raw)
	if err != nil {
		panic(err)
	}
	return schema
}

// ValidateJSON decodes raw and validates it against the schema.
func (s *Schema) ValidateJSON(raw []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return &PayloadValidationError{
			Issues: []ValidationIssue{{Message: "invalid JSON: " + err.Error()}},
			Cause:  err,
		}
	}
	if decoder.More() {
		return &PayloadValidationError{
			Issues: []ValidationIssue{{Message: "invalid JSON: trailing data"}},
		}
	}
	return s.Validate(doc)
}

// Validate checks an already decoded JSON value.
func (s *Schema) Validate(doc any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &PayloadValidationError{Issues: collectValidationIssues(validationErr), Cause: err}
		}
		return &PayloadValidationError{Issues: []ValidationIssue{{Message: err.Error()}}, Cause: err}
	}
	return nil
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
