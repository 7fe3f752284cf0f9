package load

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/reoring/shapecheck"
	eng "github.com/reoring/shapecheck/internal/engine"
)

// ErrUnknownMatcher is returned when a schema names a matcher function that
// Options.Matchers does not provide.
var ErrUnknownMatcher = errors.New("unknown matcher")

// Keys of a `match` mapping in schema documents.
const (
	matchPattern = "pattern"
	matchFunc    = "func"
)

// toSchema converts a decoded mapping into a Schema. Values that are not
// mappings become nil definitions so the definition check reports them.
func toSchema(obj eng.Object, prefix string, opt Options) (shapecheck.Schema, error) {
	out := make(shapecheck.Schema, 0, len(obj))
	for _, m := range obj {
		var def shapecheck.Definition
		if child, ok := m.Value.(eng.Object); ok {
			d, err := toDefinition(child, shapecheck.ComposeKey(prefix, m.Key), opt)
			if err != nil {
				return nil, err
			}
			def = d
		}
		out = append(out, shapecheck.F(m.Key, def))
	}
	return out, nil
}

// toDefinition converts one definition mapping. Attributes keep their decoded
// values except `schema` (a nested Schema when it is a mapping) and `match`
// (a Matcher when it is a recognised mapping).
func toDefinition(obj eng.Object, key string, opt Options) (shapecheck.Definition, error) {
	def := make(shapecheck.Definition, len(obj))
	for _, m := range obj {
		switch m.Key {
		case shapecheck.AttrSchema:
			if child, ok := m.Value.(eng.Object); ok {
				s, err := toSchema(child, shapecheck.ComposeKey(key, shapecheck.AttrSchema), opt)
				if err != nil {
					return nil, err
				}
				def[m.Key] = s
				continue
			}
		case shapecheck.AttrMatch:
			if spec, ok := m.Value.(eng.Object); ok {
				mt, err := toMatcher(spec, shapecheck.ComposeKey(key, shapecheck.AttrMatch), opt)
				if err != nil {
					return nil, err
				}
				if mt != nil {
					def[m.Key] = mt
					continue
				}
			}
		}
		def[m.Key] = eng.Plain(m.Value)
	}
	return def, nil
}

// toMatcher resolves {pattern: <re>} or {func: <name>}. It returns nil for
// other mappings, which then stay plain values.
func toMatcher(spec eng.Object, key string, opt Options) (shapecheck.Matcher, error) {
	if v, ok := spec.Get(matchPattern); ok {
		expr, isStr := v.(string)
		if !isStr {
			return nil, fmt.Errorf("%s.%s: expected a string, got %T", key, matchPattern, v)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", key, matchPattern, err)
		}
		return shapecheck.Pattern{Re: re}, nil
	}
	if v, ok := spec.Get(matchFunc); ok {
		name, _ := v.(string)
		mt, found := opt.Matchers[name]
		if !found || mt == nil {
			return nil, fmt.Errorf("%s.%s: %w %q", key, matchFunc, ErrUnknownMatcher, name)
		}
		return mt, nil
	}
	return nil, nil
}
