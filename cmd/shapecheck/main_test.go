package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/reoring/shapecheck/i18n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI with an isolated config directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() { i18n.SetLanguage("en") })
	cmd := newRootCmd()
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const orderSchema = `
id: {type: int}
name: {type: string}
tags: {type: array, require: false}
`

func TestLint(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", orderSchema)
	out, err := run(t, "lint", good)
	if err != nil || strings.TrimSpace(out) != "OK" {
		t.Fatalf("got %q %v", out, err)
	}

	bad := writeFile(t, dir, "bad.json", `{"x": {"type": "double"}, "y": {"type": "enum"}}`)
	out, err = run(t, "lint", bad)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if !strings.Contains(out, "definition-error") || strings.Index(out, "x.type") > strings.Index(out, "y.enum") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestValidate_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yml", orderSchema)
	input := writeFile(t, dir, "input.json", `{"id": "7", "name": "box", "extra": true}`)
	out, err := run(t, "--json", "validate", schema, input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var got struct {
		Valid bool           `json:"isValid"`
		Value map[string]any `json:"value"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !got.Valid || got.Value["id"] != 7.0 || got.Value["name"] != "box" {
		t.Fatalf("got %+v", got)
	}
	if _, leaked := got.Value["extra"]; leaked {
		t.Fatalf("undeclared key leaked: %v", got.Value)
	}
}

func TestValidate_SchemaError(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", orderSchema)
	input := writeFile(t, dir, "input.yaml", "id: x\n")
	out, err := run(t, "validate", schema, input)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	for _, want := range []string{"schema-error", "id", "not valid integer", "name", "is required, but value is null or undefined"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestValidate_LanguageFromConfigAndFlag(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", "id: {type: int}\n")
	input := writeFile(t, dir, "input.json", `{"id": "x"}`)
	cfg := writeFile(t, dir, "config.toml", "lang = \"ja\"\n")

	out, err := run(t, "--config", cfg, "validate", schema, input)
	if !errors.Is(err, errInvalid) || !strings.Contains(out, "整数ではありません") {
		t.Fatalf("expected japanese message, got %q %v", out, err)
	}
	out, err = run(t, "--config", cfg, "--lang", "en", "validate", schema, input)
	if !errors.Is(err, errInvalid) || !strings.Contains(out, "not valid integer") {
		t.Fatalf("flag should override config, got %q %v", out, err)
	}
}

func TestValidate_MaxDepthFlag(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"a": {"type": "object", "schema": {"b": {"type": "object", "schema": {"c": {"type": "int"}}}}}}`)
	input := writeFile(t, dir, "input.json", `{"a": {"b": {"c": 1}}}`)
	if _, err := run(t, "validate", schema, input); err != nil {
		t.Fatalf("default depth: %v", err)
	}
	out, err := run(t, "--max-depth", "1", "validate", schema, input)
	if !errors.Is(err, errInvalid) || !strings.Contains(out, "a.schema.b.schema") {
		t.Fatalf("expected depth failure, got %q %v", out, err)
	}
}

func TestValidate_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", "id: {type: int}\nid: {type: string}\n")
	input := writeFile(t, dir, "input.json", `{}`)
	if _, err := run(t, "validate", schema, input); err == nil || errors.Is(err, errInvalid) {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, err := run(t, "--allow-duplicates", "lint", schema); err != nil {
		t.Fatalf("duplicates allowed: %v", err)
	}
	if _, err := run(t, "--number-mode", "decimal", "lint", schema); err == nil {
		t.Fatalf("expected bad number mode error")
	}
	if _, err := run(t, "validate", schema); err == nil {
		t.Fatalf("expected argument count error")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := loadConfig("")
	if err != nil || cfg != defaultConfig() {
		t.Fatalf("missing default file: %+v %v", cfg, err)
	}
	if _, err := loadConfig(filepath.Join(dir, "nope.toml")); err == nil {
		t.Fatalf("explicit missing file must fail")
	}

	if err := os.MkdirAll(filepath.Join(dir, "shapecheck"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "shapecheck"), "config.toml", "max_depth = 4\nparallel = true\nworkers = 2\n")
	cfg, err = loadConfig("")
	want := Config{MaxDepth: 4, Parallel: true, Workers: 2, Lang: "en", NumberMode: "float64"}
	if err != nil || cfg != want {
		t.Fatalf("got %+v %v", cfg, err)
	}

	unknown := writeFile(t, dir, "unknown.toml", "colour = \"red\"\n")
	if _, err := loadConfig(unknown); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidate_BuiltinFormats(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", "id:\n  type: match\n  match: {func: uuid}\nat:\n  type: match\n  match: {func: rfc3339}\n")
	good := writeFile(t, dir, "good.json", `{"id": "123e4567-e89b-12d3-a456-426614174000", "at": "2024-01-02T03:04:05Z"}`)
	bad := writeFile(t, dir, "bad.json", `{"id": "123", "at": "2024-01-02T03:04:05Z"}`)
	if _, err := run(t, "validate", schema, good); err != nil {
		t.Fatalf("good input: %v", err)
	}
	out, err := run(t, "validate", schema, bad)
	if !errors.Is(err, errInvalid) || !strings.Contains(out, "not valid based on the match property") {
		t.Fatalf("got %q %v", out, err)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", orderSchema)
	out, err := run(t, "export", schema)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	req, _ := got["required"].([]any)
	if got["type"] != "object" || len(req) != 3 || req[0] != "id" || req[2] != "tags" {
		t.Fatalf("got %v", got)
	}
	props, _ := got["properties"].(map[string]any)
	tags, _ := props["tags"].(map[string]any)
	if typ, _ := tags["type"].([]any); len(typ) != 2 || typ[1] != "null" {
		t.Fatalf("optional tags should admit null, got %v", props["tags"])
	}

	bad := writeFile(t, dir, "bad.yaml", "x: {type: enum}\n")
	out, err = run(t, "export", bad)
	if !errors.Is(err, errInvalid) || !strings.Contains(out, "x.enum") {
		t.Fatalf("got %q %v", out, err)
	}
}
