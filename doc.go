// Package shapecheck validates and coerces loosely typed data against a
// declarative schema definition.
//
// It provides:
//
// - Definition checks (IsValid): a schema definition tree is well formed, reported breadth-first
// - Value parsing (Parse): one value is checked and coerced against an already valid definition
// - Validation (Validate): both phases over a Schema, yielding a projected object or a Failure
// - A flat error model via Issues (dotted key, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put document decoding under load/ and internal/.
// - Definitions are read-only input. Nothing here writes to them.
// - A Validator holds only configuration, so one value can serve concurrent callers.
//
// Typical usage:
//
//	schema := shapecheck.Schema{
//	    shapecheck.F("id", shapecheck.Int()),
//	    shapecheck.F("name", shapecheck.String().Optional()),
//	}
//	out := shapecheck.Validate(input, schema)
//	if err := out.Err(); err != nil {
//	    // err is a *shapecheck.Failure of type definition-error or schema-error
//	}
//
// The eight field types are int, float, bool, string, array, enum, object and
// match. Digit strings are coerced for int and float, "true"/"false" for bool.
// Keys absent from the schema are dropped from the output.
package shapecheck
