package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/shapecheck/internal/engine"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// AliasCycleError reports an alias that refers to a node still being
// expanded, for example `a: &x [*x]`.
type AliasCycleError struct {
	Anchor string
	Line   int
	Col    int
}

func (e *AliasCycleError) Error() string {
	return fmt.Sprintf("YAML alias *%s at %d:%d refers to its own ancestor", e.Anchor, e.Line, e.Col)
}

// ErrExcessiveAliasing is returned when alias expansion produces far more
// nodes than the document itself declares.
var ErrExcessiveAliasing = errors.New("document contains excessive aliasing")

// decodeYAML converts the first document of data into an ordered tree. Only
// the first document is read.
func decodeYAML(data []byte, opt Options) (any, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	y := &yamlTree{opt: opt, limit: opt.maxDepth(), active: map[*yaml.Node]bool{}}
	return y.value(&root, "", 0)
}

type yamlTree struct {
	opt   Options
	limit int

	// active holds the collection nodes on the current walk stack.
	active map[*yaml.Node]bool
	// Expansion budget, counted the way yaml.v3 counts it when decoding.
	decodeCount int
	aliasCount  int
	aliasDepth  int
}

// allowedAliasRatio returns the share of expanded nodes that may come from
// aliases. Small documents may alias freely; large ones are capped at 10%.
func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= 400000:
		return 0.99
	case decodeCount >= 4000000:
		return 0.10
	}
	return 0.99 - 0.89*(float64(decodeCount-400000)/3600000)
}

func (y *yamlTree) value(n *yaml.Node, path string, depth int) (any, error) {
	y.decodeCount++
	if y.aliasDepth > 0 {
		y.aliasCount++
	}
	if y.aliasCount > 100 && y.decodeCount > 1000 && float64(y.aliasCount)/float64(y.decodeCount) > allowedAliasRatio(y.decodeCount) {
		return nil, ErrExcessiveAliasing
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return y.value(n.Content[0], path, depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("unknown YAML anchor %q at %d:%d", n.Value, n.Line, n.Column)
		}
		if y.active[n.Alias] {
			return nil, &AliasCycleError{Anchor: n.Value, Line: n.Line, Col: n.Column}
		}
		y.aliasDepth++
		v, err := y.value(n.Alias, path, depth)
		y.aliasDepth--
		return v, err
	case yaml.MappingNode:
		if err := y.enter(path, depth); err != nil {
			return nil, err
		}
		y.active[n] = true
		defer delete(y.active, n)
		obj := make(eng.Object, 0, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("non-scalar mapping key at %d:%d", k.Line, k.Column)
			}
			key := k.Value
			if pos, dup := first[key]; dup && !y.opt.AllowDuplicates {
				return nil, &DuplicateKeyError{Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := y.value(v, joinPath(path, key), depth+1)
			if err != nil {
				return nil, err
			}
			obj = obj.Set(key, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		if err := y.enter(path, depth); err != nil {
			return nil, err
		}
		y.active[n] = true
		defer delete(y.active, n)
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := y.value(c, joinPath(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalar(n), nil
	}
	return nil, nil
}

func (y *yamlTree) enter(path string, depth int) error {
	if y.limit > 0 && depth+1 > y.limit {
		return eng.IssueError{Code: "too_deep", Path: path, Message: "max depth exceeded", Offset: -1}
	}
	return nil
}

func scalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}

func joinPath(base, token string) string {
	if base == "" {
		return token
	}
	return base + "." + token
}
