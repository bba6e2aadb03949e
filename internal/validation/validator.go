// Package validation checks host documents and container entries.
//
// Two layers are combined:
//   - go-playground/validator for struct-level constraints on entry
//     records (required fields, checksum shape, non-negative sizes)
//   - structural checks on the host SVG (well-formed XML, svg root,
//     recommended attributes) and on entry payload integrity
//
// # Usage Example
//
//	v := validation.New()
//	result := v.ValidateHostDocument(svgBytes)
//	if !result.Valid {
//	    for _, e := range result.Errors {
//	        fmt.Printf("%s: %s\n", e.Field, e.Message)
//	    }
//	}
package validation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/models"
)

// Validator validates host documents and container entries.
type Validator struct {
	structValidator *validator.Validate
}

// ValidationError is a single validation finding with field-level
// detail.
type ValidationError struct {
	// Field is the field or element that failed validation
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty"`
}

// ValidationResult is the complete result of one validation pass.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`

	// Warnings are findings that do not make the document unusable
	Warnings []ValidationError `json:"warnings,omitempty"`
}

// New creates a Validator.
func New() *Validator {
	return &Validator{
		structValidator: validator.New(),
	}
}

// ValidateHostDocument checks that a host document is well-formed
// XML with an svg root element. Missing width/height/viewBox are
// warnings: the container engine does not care, but renderers might.
func (v *Validator) ValidateHostDocument(doc []byte) *ValidationResult {
	result := &ValidationResult{Valid: true}

	dec := xml.NewDecoder(bytes.NewReader(doc))
	var root *xml.StartElement
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "document",
				Message: fmt.Sprintf("not well-formed XML: %v", err),
			})
			return result
		}
		if se, ok := tok.(xml.StartElement); ok && root == nil {
			rootCopy := se.Copy()
			root = &rootCopy
		}
	}

	if root == nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "document",
			Message: "no root element",
		})
		return result
	}

	if root.Name.Local != "svg" {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "root",
			Message: "root element is not <svg>",
			Value:   root.Name.Local,
		})
		return result
	}

	attrs := make(map[string]string, len(root.Attr))
	for _, a := range root.Attr {
		attrs[a.Name.Local] = a.Value
	}
	if attrs["width"] == "" && attrs["viewBox"] == "" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "svg",
			Message: "neither width nor viewBox declared",
		})
	}
	return result
}

// ValidateEntry checks one entry record's fields against its struct
// constraints.
func (v *Validator) ValidateEntry(entry *models.Entry) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := container.ValidatePath(entry.Path); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "path",
			Message: err.Error(),
			Value:   entry.Path,
		})
	}

	if err := v.structValidator.Struct(entry); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "entry",
				Message: err.Error(),
			})
			return result
		}
		for _, fe := range validationErrors {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
				Value:   fe.Value(),
			})
		}
	}
	return result
}

// ValidateContainer runs entry validation over a parsed container
// and verifies each payload against its checksum.
func (v *Validator) ValidateContainer(c *container.Container) *ValidationResult {
	result := &ValidationResult{Valid: true}

	for _, entry := range c.Entries() {
		entryResult := v.ValidateEntry(entry)
		if !entryResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, entryResult.Errors...)
			continue
		}
		if _, err := c.DecodeEntry(entry.Path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   entry.Path,
				Message: err.Error(),
			})
		}
	}

	if tree := c.Structure(); tree != nil {
		if err := structure.Validate(tree, c.Paths()); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "structure",
				Message: err.Error(),
			})
		}
	}

	if c.Metadata().FilesCount() != c.Len() {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "metadata.files_count",
			Message: fmt.Sprintf("records %d files, container holds %d", c.Metadata().FilesCount(), c.Len()),
		})
	}
	return result
}
