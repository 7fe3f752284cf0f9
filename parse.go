package shapecheck

import (
	"strconv"

	"github.com/reoring/shapecheck/i18n"
)

// Parse checks value against def and returns the coerced value or the issues
// found, keyed under fieldName. def is assumed to have passed IsValid; its
// shape is not re-checked and it is never modified.
func (v *Validator) Parse(fieldName string, value any, def Definition) ParseResult {
	val, errs := v.parse(fieldName, value, def, 0)
	if len(errs) > 0 {
		return ParseResult{Valid: false, Errors: errs}
	}
	return ParseResult{Valid: true, Value: val}
}

func (v *Validator) parse(key string, value any, def Definition, depth int) (any, Issues) {
	if value == nil {
		dflt, hasDefault := def.DefaultOf()
		if def.Required() && !hasDefault {
			return nil, single(key, CodeRequired, i18n.T(i18n.ValueRequired, nil))
		}
		return dflt, nil
	}

	typ, _ := def.TypeOf()
	switch typ {
	case TypeInt:
		if out, ok := coerceInt(value); ok {
			return out, nil
		}
		return nil, single(key, CodeInvalidType, i18n.T(i18n.ValueInt, nil))
	case TypeFloat:
		if out, ok := coerceFloat(value); ok {
			return out, nil
		}
		return nil, single(key, CodeInvalidType, i18n.T(i18n.ValueFloat, nil))
	case TypeBool:
		if out, ok := coerceBool(value); ok {
			return out, nil
		}
		return nil, single(key, CodeInvalidType, i18n.T(i18n.ValueBool, nil))
	case TypeString:
		if _, ok := value.(string); ok {
			return value, nil
		}
		return nil, single(key, CodeInvalidType, i18n.T(i18n.ValueString, nil))
	case TypeArray:
		if isSequence(value) {
			return value, nil
		}
		return nil, single(key, CodeInvalidType, i18n.T(i18n.ValueArray, nil))
	case TypeEnum:
		return parseEnum(key, value, def)
	case TypeMatch:
		if m, ok := asMatcher(def[AttrMatch]); ok && m.Match(value) {
			return value, nil
		}
		return nil, single(key, CodePattern, i18n.T(i18n.ValueMatch, nil))
	case TypeObject:
		return v.parseObject(key, value, def, depth)
	default:
		got := "undefined"
		if def.Has(AttrType) {
			got = formatValue(def[AttrType])
		}
		msg := i18n.T(i18n.ValueType, map[string]string{"type": got, "types": typeList()})
		return nil, single(AttrType, CodeUnknownType, msg)
	}
}

func parseEnum(key string, value any, def Definition) (any, Issues) {
	allowed := sequenceItems(def[AttrEnum])
	for _, a := range allowed {
		if equalValues(a, value) {
			return value, nil
		}
	}
	msg := i18n.T(i18n.ValueEnum, map[string]string{"value": formatValue(value), "values": formatList(allowed)})
	return nil, Issues{{Key: key, Code: CodeInvalidEnum, Message: msg, Params: map[string]any{"got": value, "allowed": allowed}}}
}

// parseObject descends into every schema field, collecting all child issues.
// Only schema-declared keys appear in the result.
func (v *Validator) parseObject(key string, value any, def Definition, depth int) (any, Issues) {
	obj, isObj := asObject(value)
	schema, hasSchema := asSchema(def[AttrSchema])
	if !isObj || !hasSchema {
		return nil, single(key, CodeInvalidType, i18n.T(i18n.ValueObject, nil))
	}
	if limit := v.opt.maxDepth(); limit > 0 && depth+1 > limit {
		msg := i18n.T(i18n.ValueTooDeep, map[string]string{"max": strconv.Itoa(limit)})
		return nil, Issues{{Key: key, Code: CodeTooDeep, Message: msg, Params: map[string]any{"max": limit}}}
	}

	out := make(map[string]any, len(schema))
	var errs Issues
	for _, f := range schema {
		cv, cerrs := v.parse(ComposeKey(key, f.Name), obj[f.Name], f.Definition, depth+1)
		if len(cerrs) > 0 {
			errs = append(errs, cerrs...)
			continue
		}
		out[f.Name] = cv
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func single(key, code, msg string) Issues {
	return Issues{{Key: key, Code: code, Message: msg}}
}
