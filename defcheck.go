package shapecheck

import (
	"strconv"

	"github.com/reoring/shapecheck/i18n"
)

// defItem is one pending node of a definition walk.
type defItem struct {
	def    Definition
	prefix string
	depth  int
	// ancestors holds the identities of the enclosing object definitions.
	ancestors []uintptr
}

// IsValid checks that def is a well-formed definition tree. prefix is the
// dotted path of def itself ("" for a root).
//
// Nodes are visited breadth-first, so the errors of all siblings precede the
// errors of their children. The work queue lives on this call's frame.
func (v *Validator) IsValid(def Definition, prefix string) Result {
	var errs Issues
	queue := []defItem{{def: def, prefix: prefix}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		var children []defItem
		errs, children = v.checkNode(errs, item)
		queue = append(queue, children...)
	}
	return newResult(errs)
}

// checkNode runs the single-node checks in their fixed order and returns the
// child items to enqueue.
func (v *Validator) checkNode(errs Issues, item defItem) (Issues, []defItem) {
	def, prefix := item.def, item.prefix

	typ, ok := def.TypeOf()
	if !ok || !typ.Valid() {
		errs = append(errs, issueAt(prefix, AttrType, CodeInvalidDefinition,
			i18n.T(i18n.DefinitionType, map[string]string{"types": typeList()}), nil))
	}

	if def.Has(AttrRequire) {
		if _, isBool := def[AttrRequire].(bool); !isBool {
			errs = append(errs, issueAt(prefix, AttrRequire, CodeInvalidDefinition,
				i18n.T(i18n.DefinitionRequire, nil), nil))
		}
	}

	switch typ {
	case TypeEnum:
		if !def.Has(AttrEnum) {
			errs = append(errs, issueAt(prefix, AttrEnum, CodeInvalidDefinition,
				i18n.T(i18n.DefinitionEnumMissing, nil), nil))
		} else if !isSequence(def[AttrEnum]) {
			errs = append(errs, issueAt(prefix, AttrEnum, CodeInvalidDefinition,
				i18n.T(i18n.DefinitionEnumNotArray, nil), nil))
		}
	case TypeMatch:
		if !def.Has(AttrMatch) {
			errs = append(errs, issueAt(prefix, AttrMatch, CodeInvalidDefinition,
				i18n.T(i18n.DefinitionMatchMissing, nil), nil))
		} else if _, isMatcher := asMatcher(def[AttrMatch]); !isMatcher {
			errs = append(errs, issueAt(prefix, AttrMatch, CodeInvalidDefinition,
				i18n.T(i18n.DefinitionMatchKind, nil), nil))
		}
	case TypeObject:
		if !def.Has(AttrSchema) {
			errs = append(errs, issueAt(prefix, AttrSchema, CodeInvalidDefinition,
				i18n.T(i18n.DefinitionSchemaMissing, nil), nil))
			return errs, nil
		}
		schema, isSchema := asSchema(def[AttrSchema])
		if !isSchema {
			errs = append(errs, issueAt(prefix, AttrSchema, CodeInvalidDefinition,
				i18n.T(i18n.DefinitionSchemaNotObject, nil), nil))
			return errs, nil
		}
		return v.expand(errs, item, schema)
	}
	return errs, nil
}

// expand produces the child work items of an object definition, refusing
// cycles and nesting beyond the configured depth.
func (v *Validator) expand(errs Issues, item defItem, schema Schema) (Issues, []defItem) {
	schemaKey := ComposeKey(item.prefix, AttrSchema)
	if limit := v.opt.maxDepth(); limit > 0 && item.depth+1 > limit {
		errs = append(errs, Issue{
			Key:     schemaKey,
			Code:    CodeTooDeep,
			Message: i18n.T(i18n.DefinitionSchemaTooDeep, map[string]string{"max": strconv.Itoa(limit)}),
			Params:  map[string]any{"max": limit},
		})
		return errs, nil
	}

	self := identity(item.def)
	ancestors := make([]uintptr, 0, len(item.ancestors)+1)
	ancestors = append(ancestors, item.ancestors...)
	ancestors = append(ancestors, self)

	children := make([]defItem, 0, len(schema))
	recursion := false
	for _, f := range schema {
		if id := identity(f.Definition); id != 0 && containsID(ancestors, id) {
			recursion = true
			continue
		}
		children = append(children, defItem{
			def:       f.Definition,
			prefix:    ComposeKey(schemaKey, f.Name),
			depth:     item.depth + 1,
			ancestors: ancestors,
		})
	}
	if recursion {
		errs = append(errs, Issue{
			Key:     schemaKey,
			Code:    CodeSchemaRecursion,
			Message: i18n.T(i18n.DefinitionSchemaRecursion, nil),
		})
	}
	return errs, children
}

func containsID(ids []uintptr, id uintptr) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
