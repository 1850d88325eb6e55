package content

import (
	"errors"
	"fmt"
)

// ParseKind classifies content parsing failures.
type ParseKind string

const (
	// KindMalformed means no decodable JSON could be recovered from the text.
	KindMalformed ParseKind = "malformed"

	// KindSchemaViolation means the JSON decoded but did not match the
	// expected shape for its content type.
	KindSchemaViolation ParseKind = "schema_violation"
)

// ParseError reports a content parsing failure. It is non-fatal by design:
// callers are expected to fall back to canned content rather than halt.
type ParseError struct {
	Kind ParseKind

	// Field names the missing or invalid field for schema violations.
	Field string

	// Msg describes what went wrong.
	Msg string

	err error
}

func (e *ParseError) Error() string {
	if e.Kind == KindSchemaViolation && e.Field != "" {
		return fmt.Sprintf("schema violation: field %q: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// NewMalformed wraps a decode failure as a malformed-content error.
func NewMalformed(msg string, err error) *ParseError {
	return &ParseError{Kind: KindMalformed, Msg: msg, err: err}
}

// NewSchemaViolation reports a shape mismatch naming the offending field.
func NewSchemaViolation(field, msg string) *ParseError {
	return &ParseError{Kind: KindSchemaViolation, Field: field, Msg: msg}
}

// IsMalformed returns true if the error is a malformed-content parse error.
func IsMalformed(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == KindMalformed
}

// IsSchemaViolation returns true if the error is a schema violation.
func IsSchemaViolation(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == KindSchemaViolation
}
