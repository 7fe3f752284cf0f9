package i18n

import (
	"strings"
	"sync"
)

// Message codes. Definition messages are prefixed with "definition.", value
// messages with "value.".
const (
	DefinitionType            = "definition.type"
	DefinitionRequire         = "definition.require"
	DefinitionEnumMissing     = "definition.enum.missing"
	DefinitionEnumNotArray    = "definition.enum.not_array"
	DefinitionMatchMissing    = "definition.match.missing"
	DefinitionMatchKind       = "definition.match.kind"
	DefinitionSchemaMissing   = "definition.schema.missing"
	DefinitionSchemaNotObject = "definition.schema.not_object"
	DefinitionSchemaRecursion = "definition.schema.recursion"
	DefinitionSchemaTooDeep   = "definition.schema.too_deep"

	ValueRequired = "value.required"
	ValueInt      = "value.int"
	ValueFloat    = "value.float"
	ValueBool     = "value.bool"
	ValueString   = "value.string"
	ValueArray    = "value.array"
	ValueEnum     = "value.enum"
	ValueMatch    = "value.match"
	ValueObject   = "value.object"
	ValueType     = "value.type"
	ValueTooDeep  = "value.too_deep"
)

// Translator retrieves localized messages for message codes.
// data provides optional values to embed in the message (for example,
// "types", "value", "values" or "max").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		msg = jaMessages[code]
	default:
		msg = enMessages[code]
	}
	if msg == "" {
		return code
	}
	return expand(msg, data)
}

var enMessages = map[string]string{
	DefinitionType:            "'type' property is required and can only contains these values [{types}]",
	DefinitionRequire:         "'require' property must be a boolean type",
	DefinitionEnumMissing:     "'enum' property is required when type = 'enum'",
	DefinitionEnumNotArray:    "'enum' property must be an array",
	DefinitionMatchMissing:    "'match' property is required when type = 'match'",
	DefinitionMatchKind:       "'match' property can only be function or RegExp",
	DefinitionSchemaMissing:   "'schema' property is required when type = 'object'",
	DefinitionSchemaNotObject: "'schema' property must be an object",
	DefinitionSchemaRecursion: "schema recursion detected",
	DefinitionSchemaTooDeep:   "'schema' nesting exceeds the maximum depth of {max}",

	ValueRequired: "is required, but value is null or undefined",
	ValueInt:      "not valid integer",
	ValueFloat:    "not valid float",
	ValueBool:     "not valid boolean",
	ValueString:   "not string type",
	ValueArray:    "not Array type",
	ValueEnum:     "({value}) is not one of pre-defined values [{values}]",
	ValueMatch:    "not valid based on the match property",
	ValueObject:   "not Object type",
	ValueType:     "{type} is not one of the valid definition types [{types}]",
	ValueTooDeep:  "exceeds the maximum nesting depth of {max}",
}

var jaMessages = map[string]string{
	DefinitionType:            "'type' プロパティは必須で、次の値のみ指定できます [{types}]",
	DefinitionRequire:         "'require' プロパティは真偽値である必要があります",
	DefinitionEnumMissing:     "type = 'enum' の場合 'enum' プロパティは必須です",
	DefinitionEnumNotArray:    "'enum' プロパティは配列である必要があります",
	DefinitionMatchMissing:    "type = 'match' の場合 'match' プロパティは必須です",
	DefinitionMatchKind:       "'match' プロパティには関数または正規表現のみ指定できます",
	DefinitionSchemaMissing:   "type = 'object' の場合 'schema' プロパティは必須です",
	DefinitionSchemaNotObject: "'schema' プロパティはオブジェクトである必要があります",
	DefinitionSchemaRecursion: "スキーマの循環参照を検出しました",
	DefinitionSchemaTooDeep:   "'schema' の入れ子が最大深さ {max} を超えています",

	ValueRequired: "必須ですが、値が null または未定義です",
	ValueInt:      "整数ではありません",
	ValueFloat:    "数値ではありません",
	ValueBool:     "真偽値ではありません",
	ValueString:   "文字列ではありません",
	ValueArray:    "配列ではありません",
	ValueEnum:     "({value}) は定義済みの値 [{values}] のいずれでもありません",
	ValueMatch:    "match プロパティの条件を満たしません",
	ValueObject:   "オブジェクトではありません",
	ValueType:     "{type} は有効な定義型 [{types}] ではありません",
	ValueTooDeep:  "入れ子が最大深さ {max} を超えています",
}

// expand replaces {name} placeholders with data values. Unknown placeholders
// are left as-is.
func expand(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
