// Package jsonschema exports shapecheck schemas as JSON Schema documents.
//
// The export describes the value Validate returns, not the raw input: an int
// field accepts "12" on input but is exported as an integer. Validate emits
// every declared key, so every field is listed in required. A field that can
// come back as null (optional without a default, or with a null default) also
// admits null.
package jsonschema

import (
	"fmt"

	"github.com/reoring/shapecheck"
)

// Draft is the JSON Schema dialect written by Export.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	Dialect string `json:"$schema,omitempty"`

	// Type is a string, or a []string when null is admitted.
	Type    any    `json:"type,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Enum    *[]any `json:"enum,omitempty"`
	Default any    `json:"default,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// Export converts schema into a JSON Schema object. The schema must pass
// the definition check; otherwise its *shapecheck.Failure is returned.
func Export(schema shapecheck.Schema) (*Schema, error) {
	if res := shapecheck.CheckSchema(schema); !res.Valid {
		return nil, &shapecheck.Failure{Type: shapecheck.DefinitionError, Data: res.Errors}
	}
	out, err := object(schema)
	if err != nil {
		return nil, err
	}
	out.Dialect = Draft
	return out, nil
}

func object(schema shapecheck.Schema) (*Schema, error) {
	closed := false
	out := &Schema{Type: "object", Properties: make(map[string]*Schema, len(schema)), AdditionalProperties: &closed}
	for _, f := range schema {
		prop, err := field(f.Definition)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		out.Properties[f.Name] = prop
		out.Required = append(out.Required, f.Name)
	}
	return out, nil
}

func field(def shapecheck.Definition) (*Schema, error) {
	typ, _ := def.TypeOf()
	var out *Schema
	switch typ {
	case shapecheck.TypeInt:
		out = &Schema{Type: "integer"}
	case shapecheck.TypeFloat:
		out = &Schema{Type: "number"}
	case shapecheck.TypeBool:
		out = &Schema{Type: "boolean"}
	case shapecheck.TypeString:
		out = &Schema{Type: "string"}
	case shapecheck.TypeArray:
		out = &Schema{Type: "array"}
	case shapecheck.TypeEnum:
		values, _ := def.EnumOf()
		enum := append([]any{}, values...)
		out = &Schema{Enum: &enum}
	case shapecheck.TypeMatch:
		out = &Schema{}
		if m, ok := def.MatcherOf(); ok {
			if p, isPattern := m.(shapecheck.Pattern); isPattern {
				out.Pattern = p.String()
			}
		}
	case shapecheck.TypeObject:
		nested, _ := def.SchemaOf()
		o, err := object(nested)
		if err != nil {
			return nil, err
		}
		out = o
	default:
		return nil, fmt.Errorf("unsupported type %q", typ)
	}
	d, hasDefault := def.DefaultOf()
	if hasDefault {
		out.Default = d
	}
	if (hasDefault && d == nil) || (!hasDefault && !def.Required()) {
		nullable(out)
	}
	return out, nil
}

// nullable widens s to also accept null. A bare pattern already accepts
// non-strings, null included.
func nullable(s *Schema) {
	switch {
	case s.Enum != nil:
		enum := append(*s.Enum, nil)
		s.Enum = &enum
	case s.Type != nil:
		s.Type = []string{s.Type.(string), "null"}
	}
}
