package shapecheck

import (
	"reflect"
	"sort"
)

// Attribute names of a Definition.
const (
	AttrType    = "type"
	AttrRequire = "require"
	AttrDefault = "default"
	AttrEnum    = "enum"
	AttrMatch   = "match"
	AttrSchema  = "schema"
)

// Definition describes one field's contract. Attributes are loosely typed so
// that definitions decoded from documents keep their malformed parts, which the
// Definition Validator then reports. Presence of an attribute is key presence.
//
// Use the builders (Int, String, Object, ...) for definitions written in Go.
type Definition map[string]any

// TypeOf returns the type attribute when it is a string-like value.
func (d Definition) TypeOf() (TypeTag, bool) {
	switch t := d[AttrType].(type) {
	case TypeTag:
		return t, true
	case string:
		return TypeTag(t), true
	}
	return "", false
}

// Required returns the effective require flag. An absent (or non-boolean)
// attribute means required.
func (d Definition) Required() bool {
	if b, ok := d[AttrRequire].(bool); ok {
		return b
	}
	return true
}

// DefaultOf returns the declared default and whether one is declared.
func (d Definition) DefaultOf() (any, bool) {
	v, ok := d[AttrDefault]
	return v, ok
}

// Has reports whether the attribute is present.
func (d Definition) Has(attr string) bool {
	_, ok := d[attr]
	return ok
}

// SchemaOf returns the nested schema of an object definition.
func (d Definition) SchemaOf() (Schema, bool) { return asSchema(d[AttrSchema]) }

// EnumOf returns the allowed values of an enum definition.
func (d Definition) EnumOf() ([]any, bool) {
	if !isSequence(d[AttrEnum]) {
		return nil, false
	}
	return sequenceItems(d[AttrEnum]), true
}

// MatcherOf returns the matcher of a match definition.
func (d Definition) MatcherOf() (Matcher, bool) { return asMatcher(d[AttrMatch]) }

// Optional returns a copy with require set to false.
func (d Definition) Optional() Definition { return d.with(AttrRequire, false) }

// WithDefault returns a copy declaring v as the default.
func (d Definition) WithDefault(v any) Definition { return d.with(AttrDefault, v) }

func (d Definition) with(attr string, v any) Definition {
	out := make(Definition, len(d)+1)
	for k, vv := range d {
		out[k] = vv
	}
	out[attr] = v
	return out
}

// Field is one named entry of a Schema.
type Field struct {
	Name       string
	Definition Definition
}

// F is shorthand for Field{Name: name, Definition: def}.
func F(name string, def Definition) Field { return Field{Name: name, Definition: def} }

// Schema maps field names to definitions, in declaration order.
type Schema []Field

// Get returns the definition declared for name.
func (s Schema) Get(name string) (Definition, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Definition, true
		}
	}
	return nil, false
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// asSchema interprets a schema attribute value as a keyed mapping. Go maps have
// no declaration order, so their keys are visited in sorted order. Entries that
// are not definitions become empty definitions.
func asSchema(v any) (Schema, bool) {
	switch t := v.(type) {
	case Schema:
		return t, true
	case []Field:
		return Schema(t), true
	case map[string]Definition:
		out := make(Schema, 0, len(t))
		for _, k := range sortedKeys(t) {
			out = append(out, Field{Name: k, Definition: t[k]})
		}
		return out, true
	case map[string]any:
		out := make(Schema, 0, len(t))
		for _, k := range sortedKeys(t) {
			def, _ := asDefinition(t[k])
			out = append(out, Field{Name: k, Definition: def})
		}
		return out, true
	}
	return nil, false
}

func asDefinition(v any) (Definition, bool) {
	switch t := v.(type) {
	case Definition:
		return t, true
	case map[string]any:
		return Definition(t), true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// isSequence reports whether v is array-like.
func isSequence(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// sequenceItems flattens an array-like value into []any.
func sequenceItems(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// identity returns a comparable identity for a definition map (0 for nil).
func identity(d Definition) uintptr {
	if d == nil {
		return 0
	}
	return reflect.ValueOf(d).Pointer()
}

// ---- builders ----

// Int declares a required integer field.
func Int() Definition { return Definition{AttrType: TypeInt} }

// Float declares a required numeric field.
func Float() Definition { return Definition{AttrType: TypeFloat} }

// Bool declares a required boolean field.
func Bool() Definition { return Definition{AttrType: TypeBool} }

// String declares a required string field.
func String() Definition { return Definition{AttrType: TypeString} }

// Array declares a required array field. Elements are not inspected.
func Array() Definition { return Definition{AttrType: TypeArray} }

// Enum declares a required field restricted to values.
func Enum(values ...any) Definition {
	return Definition{AttrType: TypeEnum, AttrEnum: append([]any{}, values...)}
}

// Match declares a required field accepted by m.
func Match(m Matcher) Definition { return Definition{AttrType: TypeMatch, AttrMatch: m} }

// Object declares a required nested object with the given fields.
func Object(fields ...Field) Definition {
	return Definition{AttrType: TypeObject, AttrSchema: Schema(fields)}
}
