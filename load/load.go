// Package load reads schema and input documents written in JSON or YAML.
//
// Mappings keep their declaration order, so issues reported for a loaded
// schema follow the order of the document. Duplicate keys are rejected unless
// Options.AllowDuplicates is set.
//
//	schema, err := load.SchemaFile("order.yaml", load.Options{})
//	obj, err := load.ObjectFile("order.json", load.Options{})
//	out := shapecheck.Validate(obj, schema)
package load

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/shapecheck"
	eng "github.com/reoring/shapecheck/internal/engine"
	"github.com/reoring/shapecheck/source/gojson"
)

// Format identifies the syntax of a document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ErrUnknownFormat is returned by DetectFormat for unsupported extensions.
var ErrUnknownFormat = errors.New("unknown document format")

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// NumberMode selects how JSON numbers decode. YAML scalars follow their
// resolved tag (int64 for !!int, float64 for !!float).
type NumberMode int

const (
	NumberFloat64 NumberMode = iota
	NumberJSONNumber
)

// DefaultMaxDepth bounds document nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 128

// Options configures document loading.
type Options struct {
	NumberMode NumberMode
	// MaxDepth bounds mapping and sequence nesting. Zero means
	// DefaultMaxDepth; negative disables the bound.
	MaxDepth int
	// AllowDuplicates keeps the last value of a repeated key instead of
	// failing.
	AllowDuplicates bool
	// Matchers resolves `match: {func: <name>}` in schema documents.
	Matchers map[string]shapecheck.Matcher
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

// decode returns the ordered tree of a document: eng.Object for mappings and
// []any for sequences.
func decode(data []byte, format Format, opt Options) (any, error) {
	switch format {
	case FormatJSON:
		dup := eng.DupError
		if opt.AllowDuplicates {
			dup = eng.DupIgnore
		}
		src := eng.WrapWithEnforcement(gojson.NewBytes(data), eng.EnforceOptions{OnDuplicate: dup, MaxDepth: opt.maxDepth()})
		conv := eng.Float64
		if opt.NumberMode == NumberJSONNumber {
			conv = eng.JSONNumber
		}
		v, err := eng.DecodeOrdered(src, conv)
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return v, nil
	case FormatYAML:
		v, err := decodeYAML(data, opt)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("decode: %w", ErrUnknownFormat)
}

// Value decodes a document into plain Go values (map[string]any, []any and
// scalars).
func Value(data []byte, format Format, opt Options) (any, error) {
	v, err := decode(data, format, opt)
	if err != nil {
		return nil, err
	}
	return eng.Plain(v), nil
}

// Object decodes a document whose root must be a mapping. An empty YAML
// document yields a nil map.
func Object(data []byte, format Format, opt Options) (map[string]any, error) {
	v, err := Value(data, format, opt)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("input document must be a mapping, got %T", v)
	}
	return m, nil
}

// Schema decodes a schema document. The root must be a mapping of field names
// to definitions.
func Schema(data []byte, format Format, opt Options) (shapecheck.Schema, error) {
	v, err := decode(data, format, opt)
	if err != nil {
		return nil, err
	}
	root, ok := v.(eng.Object)
	if !ok {
		return nil, fmt.Errorf("schema document must be a mapping, got %T", v)
	}
	return toSchema(root, "", opt)
}

// SchemaFile reads and decodes a schema file, detecting its format.
func SchemaFile(path string, opt Options) (shapecheck.Schema, error) {
	data, format, err := readFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Schema(data, format, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ObjectFile reads and decodes an input file, detecting its format.
func ObjectFile(path string, opt Options) (map[string]any, error) {
	data, format, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Object(data, format, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func readFile(path string) ([]byte, Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return data, format, nil
}
