package shapecheck

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Definition checks
	CodeInvalidDefinition = "invalid_definition"
	CodeSchemaRecursion   = "schema_recursion"
	// Value checks
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeInvalidEnum = "invalid_enum"
	CodePattern     = "pattern"
	CodeTooDeep     = "too_deep"
	CodeUnknownType = "unknown_type"
)

// Issue represents a single validation entry.
type Issue struct {
	Key     string `json:"key"` // Dotted path (for example: items.price).
	Message string `json:"message"`
	Code    string `json:"code,omitempty"` // One of the codes listed above.
	// Params carries structured parameters (e.g., {"max": 32}) for i18n and
	// observability.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. items.price: not valid float
		fmt.Fprintf(b, "%s: %s", it.Key, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Data, true
	}
	return nil, false
}

// ErrorType discriminates the two failure categories of Validate.
type ErrorType string

const (
	// DefinitionError means the schema itself is malformed. No value was
	// inspected.
	DefinitionError ErrorType = "definition-error"
	// SchemaError means the schema is valid but the value does not conform.
	SchemaError ErrorType = "schema-error"
)

// Failure is the error bundle of an unsuccessful Validate call.
type Failure struct {
	Type ErrorType `json:"type"`
	Data Issues    `json:"data"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Type, f.Data.Error())
}

// Unwrap exposes the issue list to errors.As.
func (f *Failure) Unwrap() error { return f.Data }

// IsDefinitionError reports whether err carries a definition-error Failure.
func IsDefinitionError(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Type == DefinitionError
}

// IsSchemaError reports whether err carries a schema-error Failure.
func IsSchemaError(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Type == SchemaError
}
