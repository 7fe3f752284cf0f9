package load_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	sc "github.com/reoring/shapecheck"
	eng "github.com/reoring/shapecheck/internal/engine"
	"github.com/reoring/shapecheck/load"
)

const orderYAML = `
zeta:
  type: string
alpha:
  type: object
  schema:
    qty: {type: int}
    code:
      type: match
      match: {pattern: '^[A-Z]{3}$'}
mid:
  type: enum
  enum: [small, 2, true]
  require: false
  default: small
`

func TestDetectFormat(t *testing.T) {
	cases := map[string]load.Format{"a.json": load.FormatJSON, "b.YAML": load.FormatYAML, "c.yml": load.FormatYAML}
	for path, want := range cases {
		got, err := load.DetectFormat(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %v %v", path, got, err)
		}
	}
	if _, err := load.DetectFormat("d.toml"); !errors.Is(err, load.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSchema_YAMLKeepsDeclarationOrder(t *testing.T) {
	s, err := load.Schema([]byte(orderYAML), load.FormatYAML, load.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
		t.Fatalf("got %v", got)
	}
	alpha, _ := s.Get("alpha")
	nested, ok := alpha[sc.AttrSchema].(sc.Schema)
	if !ok || !reflect.DeepEqual(nested.Names(), []string{"qty", "code"}) {
		t.Fatalf("nested schema: %#v", alpha[sc.AttrSchema])
	}
	code, _ := nested.Get("code")
	if _, ok := code[sc.AttrMatch].(sc.Pattern); !ok {
		t.Fatalf("match should load as a Pattern, got %T", code[sc.AttrMatch])
	}
	mid, _ := s.Get("mid")
	if mid.Required() {
		t.Fatalf("require: false lost")
	}
	if got := mid[sc.AttrEnum]; !reflect.DeepEqual(got, []any{"small", int64(2), true}) {
		t.Fatalf("enum: %#v", got)
	}
}

func TestSchema_ValidateLoadedDocuments(t *testing.T) {
	s, err := load.Schema([]byte(orderYAML), load.FormatYAML, load.Options{})
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	obj, err := load.Object([]byte(`{"zeta": 1, "alpha": {"qty": "x", "code": "abc"}}`), load.FormatJSON, load.Options{})
	if err != nil {
		t.Fatalf("load input: %v", err)
	}
	out := sc.Validate(obj, s)
	if out.Error == nil || out.Error.Type != sc.SchemaError {
		t.Fatalf("expected schema error, got %+v", out)
	}
	var keys []string
	for _, is := range out.Error.Data {
		keys = append(keys, is.Key)
	}
	if want := []string{"zeta", "alpha.qty", "alpha.code"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("got %v, want %v", keys, want)
	}

	obj, _ = load.Object([]byte(`{"zeta": "z", "alpha": {"qty": "12", "code": "ABC"}, "extra": 1}`), load.FormatJSON, load.Options{})
	out = sc.Validate(obj, s)
	want := map[string]any{"zeta": "z", "alpha": map[string]any{"qty": int64(12), "code": "ABC"}, "mid": "small"}
	if !out.Valid || !reflect.DeepEqual(out.Value, want) {
		t.Fatalf("got %+v", out)
	}
}

func TestSchema_MalformedDefinitionsReachValidator(t *testing.T) {
	doc := `{"a": {"type": "match", "match": "not-a-matcher"}, "b": 3, "c": {"type": "object", "schema": [1]}}`
	s, err := load.Schema([]byte(doc), load.FormatJSON, load.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out := sc.Validate(nil, s)
	if out.Error == nil || out.Error.Type != sc.DefinitionError {
		t.Fatalf("expected definition error, got %+v", out)
	}
	var keys []string
	for _, is := range out.Error.Data {
		keys = append(keys, is.Key)
	}
	if want := []string{"a.match", "b.type", "c.schema"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
}

func TestSchema_MatchFunc(t *testing.T) {
	even := sc.MatchFunc(func(v any) bool {
		f, ok := v.(float64)
		return ok && int(f)%2 == 0
	})
	doc := `{"n": {"type": "match", "match": {"func": "even"}}}`
	opt := load.Options{Matchers: map[string]sc.Matcher{"even": even}}
	s, err := load.Schema([]byte(doc), load.FormatJSON, opt)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out := sc.Validate(map[string]any{"n": 4.0}, s); !out.Valid {
		t.Fatalf("expected valid, got %v", out.Err())
	}

	_, err = load.Schema([]byte(doc), load.FormatJSON, load.Options{})
	if !errors.Is(err, load.ErrUnknownMatcher) || !strings.Contains(err.Error(), "n.match.func") {
		t.Fatalf("expected unknown matcher at n.match.func, got %v", err)
	}
}

func TestSchema_BadPattern(t *testing.T) {
	doc := "a:\n  type: object\n  schema:\n    b:\n      type: match\n      match: {pattern: '('}\n"
	_, err := load.Schema([]byte(doc), load.FormatYAML, load.Options{})
	if err == nil || !strings.Contains(err.Error(), "a.schema.b.match.pattern") {
		t.Fatalf("expected pattern error, got %v", err)
	}
}

func TestSchema_RootMustBeMapping(t *testing.T) {
	if _, err := load.Schema([]byte(`[1, 2]`), load.FormatJSON, load.Options{}); err == nil {
		t.Fatalf("expected error for array root")
	}
}

func TestDuplicateKeys(t *testing.T) {
	_, err := load.Value([]byte("a: 1\nb: 2\na: 3\n"), load.FormatYAML, load.Options{})
	var de *load.DuplicateKeyError
	if !errors.As(err, &de) || de.Key != "a" || de.Line != 3 || de.FirstLine != 1 {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	_, err = load.Value([]byte(`{"a": {"b": 1, "b": 2}}`), load.FormatJSON, load.Options{})
	var ie eng.IssueError
	if !errors.As(err, &ie) || ie.Code != "duplicate_key" || ie.Path != "a.b" {
		t.Fatalf("expected json duplicate at a.b, got %v", err)
	}

	v, err := load.Value([]byte("a: 1\na: 3\n"), load.FormatYAML, load.Options{AllowDuplicates: true})
	if err != nil || !reflect.DeepEqual(v, map[string]any{"a": int64(3)}) {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestValue_NumberModes(t *testing.T) {
	v, err := load.Value([]byte(`{"n": 12}`), load.FormatJSON, load.Options{})
	if err != nil || !reflect.DeepEqual(v, map[string]any{"n": 12.0}) {
		t.Fatalf("float64 mode: %v %v", v, err)
	}
	v, err = load.Value([]byte(`{"n": 12}`), load.FormatJSON, load.Options{NumberMode: load.NumberJSONNumber})
	if err != nil || !reflect.DeepEqual(v, map[string]any{"n": json.Number("12")}) {
		t.Fatalf("json.Number mode: %v %v", v, err)
	}
	v, err = load.Value([]byte("i: 7\nf: 1.5\ns: '7'\nb: true\nz: ~\n"), load.FormatYAML, load.Options{})
	want := map[string]any{"i": int64(7), "f": 1.5, "s": "7", "b": true, "z": nil}
	if err != nil || !reflect.DeepEqual(v, want) {
		t.Fatalf("yaml scalars: %v %v", v, err)
	}
}

func TestValue_MaxDepth(t *testing.T) {
	for _, tc := range []struct {
		format load.Format
		doc    string
	}{
		{load.FormatJSON, `{"a": {"b": {"c": 1}}}`},
		{load.FormatYAML, "a:\n  b:\n    c: 1\n"},
	} {
		_, err := load.Value([]byte(tc.doc), tc.format, load.Options{MaxDepth: 2})
		var ie eng.IssueError
		if !errors.As(err, &ie) || ie.Code != "too_deep" || ie.Path != "a.b" {
			t.Fatalf("%v: expected too_deep at a.b, got %v", tc.format, err)
		}
		if _, err := load.Value([]byte(tc.doc), tc.format, load.Options{MaxDepth: -1}); err != nil {
			t.Fatalf("%v: unbounded decode failed: %v", tc.format, err)
		}
	}
}

func TestObject_EmptyAndNonMapping(t *testing.T) {
	m, err := load.Object(nil, load.FormatYAML, load.Options{})
	if err != nil || m != nil {
		t.Fatalf("empty yaml: %v %v", m, err)
	}
	if _, err := load.Object([]byte(`"x"`), load.FormatJSON, load.Options{}); err == nil {
		t.Fatalf("expected error for scalar root")
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yml")
	inputPath := filepath.Join(dir, "input.json")
	if err := os.WriteFile(schemaPath, []byte("id: {type: int}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(inputPath, []byte(`{"id": "42"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := load.SchemaFile(schemaPath, load.Options{})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	obj, err := load.ObjectFile(inputPath, load.Options{})
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if out := sc.Validate(obj, s); !out.Valid || out.Value["id"] != int64(42) {
		t.Fatalf("got %+v", out)
	}
	if _, err := load.SchemaFile(filepath.Join(dir, "missing.json"), load.Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestValue_YAMLAliases(t *testing.T) {
	s, err := load.Schema([]byte("a: &int {type: int}\nb: *int\nc: *int\n"), load.FormatYAML, load.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", got)
	}
	if out := sc.Validate(map[string]any{"a": "1", "b": "2", "c": "3"}, s); !out.Valid {
		t.Fatalf("expected valid, got %v", out.Err())
	}

	for _, doc := range []string{"a: &x [*x]\n", "a: &x {b: {c: *x}}\n"} {
		_, err := load.Value([]byte(doc), load.FormatYAML, load.Options{MaxDepth: -1})
		var ce *load.AliasCycleError
		if !errors.As(err, &ce) || ce.Anchor != "x" || ce.Line != 1 {
			t.Fatalf("%q: expected alias cycle error, got %v", doc, err)
		}
	}
}

func TestValue_YAMLExcessiveAliasing(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("a: &a [x, x, x, x, x, x, x, x, x, x]\n")
	prev := "a"
	for _, name := range []string{"b", "c", "d", "e", "f"} {
		sb.WriteString(name + ": &" + name + " [")
		for i := 0; i < 10; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("*" + prev)
		}
		sb.WriteString("]\n")
		prev = name
	}
	_, err := load.Value([]byte(sb.String()), load.FormatYAML, load.Options{})
	if !errors.Is(err, load.ErrExcessiveAliasing) {
		t.Fatalf("expected ErrExcessiveAliasing, got %v", err)
	}
}
