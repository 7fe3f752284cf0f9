package shapecheck

import (
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a definition check.
type Result struct {
	Valid  bool   `json:"isValid"`
	Errors Issues `json:"errors,omitempty"`
}

func newResult(errs Issues) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ParseResult is the outcome of parsing one value. Errors and Value are
// mutually exclusive.
type ParseResult struct {
	Valid  bool   `json:"isValid"`
	Errors Issues `json:"errors,omitempty"`
	Value  any    `json:"value"`
}

// Outcome is the result of Validate: either Value or Error is set.
type Outcome struct {
	Valid bool           `json:"isValid"`
	Value map[string]any `json:"value,omitempty"`
	Error *Failure       `json:"error,omitempty"`
}

// Err returns the failure as an error, or nil when the outcome is valid.
func (o Outcome) Err() error {
	if o.Error == nil {
		return nil
	}
	return o.Error
}

// Validator runs definition checks, value parsing and full validation. It
// keeps no per-call state and is safe for concurrent use.
type Validator struct {
	opt Options
	log *slog.Logger
}

// New returns a Validator configured by opt.
func New(opt Options) *Validator {
	lg := opt.Logger
	if lg == nil {
		lg = slog.New(slog.DiscardHandler)
	}
	return &Validator{opt: opt, log: lg}
}

var defaultValidator = New(Options{})

// IsValid checks a definition tree with default options.
func IsValid(def Definition, prefix string) Result { return defaultValidator.IsValid(def, prefix) }

// Parse parses one value with default options.
func Parse(fieldName string, value any, def Definition) ParseResult {
	return defaultValidator.Parse(fieldName, value, def)
}

// CheckSchema checks every definition of schema with default options.
func CheckSchema(schema Schema) Result { return defaultValidator.CheckSchema(schema) }

// Validate validates obj against schema with default options.
func Validate(obj map[string]any, schema Schema) Outcome {
	return defaultValidator.Validate(obj, schema)
}

// Validate checks every definition of schema and, only when all are well
// formed, parses obj against it. Issues are reported in declaration order.
// The output holds only the keys declared in schema.
func (v *Validator) Validate(obj map[string]any, schema Schema) Outcome {
	if res := v.CheckSchema(schema); !res.Valid {
		v.log.Debug("definition check failed", "fields", len(schema), "issues", len(res.Errors))
		return Outcome{Valid: false, Error: &Failure{Type: DefinitionError, Data: res.Errors}}
	}

	out := make(map[string]any, len(schema))
	parsed := v.eachField(schema, func(f Field) (any, Issues) {
		return v.parse(f.Name, obj[f.Name], f.Definition, 0)
	})
	if errs := concat(parsed); len(errs) > 0 {
		v.log.Debug("value check failed", "fields", len(schema), "issues", len(errs))
		return Outcome{Valid: false, Error: &Failure{Type: SchemaError, Data: errs}}
	}
	for i, f := range schema {
		out[f.Name] = parsed[i].value
	}
	v.log.Debug("validated", "fields", len(schema))
	return Outcome{Valid: true, Value: out}
}

// CheckSchema runs the definition check on every field of schema, prefixing
// issue keys with the field name.
func (v *Validator) CheckSchema(schema Schema) Result {
	results := v.eachField(schema, func(f Field) (any, Issues) {
		return nil, v.IsValid(f.Definition, f.Name).Errors
	})
	return newResult(concat(results))
}

type fieldResult struct {
	value  any
	issues Issues
}

// eachField runs fn for every field and returns the results indexed by
// declaration position. With Options.Parallel the calls run concurrently.
func (v *Validator) eachField(schema Schema, fn func(f Field) (any, Issues)) []fieldResult {
	results := make([]fieldResult, len(schema))
	if !v.opt.Parallel || len(schema) < 2 {
		for i, f := range schema {
			val, iss := fn(f)
			results[i] = fieldResult{value: val, issues: iss}
		}
		return results
	}

	var g errgroup.Group
	if v.opt.Workers > 0 {
		g.SetLimit(v.opt.Workers)
	}
	for i, f := range schema {
		g.Go(func() error {
			val, iss := fn(f)
			results[i] = fieldResult{value: val, issues: iss}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func concat(results []fieldResult) Issues {
	var out Issues
	for _, r := range results {
		out = append(out, r.issues...)
	}
	return out
}
