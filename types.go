package shapecheck

import (
	"log/slog"
	"strings"
)

// TypeTag names one of the closed set of field types.
type TypeTag string

const (
	TypeInt    TypeTag = "int"
	TypeFloat  TypeTag = "float"
	TypeBool   TypeTag = "bool"
	TypeString TypeTag = "string"
	TypeArray  TypeTag = "array"
	TypeEnum   TypeTag = "enum"
	TypeObject TypeTag = "object"
	TypeMatch  TypeTag = "match"
)

var allTypes = []TypeTag{TypeInt, TypeFloat, TypeBool, TypeString, TypeArray, TypeEnum, TypeObject, TypeMatch}

// Types returns the closed set of type tags in their canonical order.
func Types() []TypeTag { return append([]TypeTag(nil), allTypes...) }

// Valid reports whether t is a member of the closed set.
func (t TypeTag) Valid() bool {
	switch t {
	case TypeInt, TypeFloat, TypeBool, TypeString, TypeArray, TypeEnum, TypeObject, TypeMatch:
		return true
	}
	return false
}

// typeList renders the closed set as "int,float,...".
func typeList() string {
	parts := make([]string, len(allTypes))
	for i, t := range allTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// DefaultMaxDepth bounds schema and value nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 32

// Options configures a Validator.
type Options struct {
	// MaxDepth bounds the nesting of object definitions (and of values during a
	// standalone Parse). Zero means DefaultMaxDepth; negative disables the bound.
	MaxDepth int
	// Parallel fans the per-field work of Validate out to goroutines. Results
	// are always reported in schema declaration order.
	Parallel bool
	// Workers limits the goroutines used when Parallel is set (0 = unlimited).
	Workers int
	// Logger receives debug records for each validation phase. Nil discards.
	Logger *slog.Logger
}

func (o Options) maxDepth() int {
	switch {
	case o.MaxDepth == 0:
		return DefaultMaxDepth
	case o.MaxDepth < 0:
		return 0
	default:
		return o.MaxDepth
	}
}
