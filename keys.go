package shapecheck

// ComposeKey builds a dotted error key: "prefix.key", or key alone when prefix
// is empty.
func ComposeKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// issueAt creates an Issue at ComposeKey(prefix, key).
func issueAt(prefix, key, code, msg string, params map[string]any) Issue {
	return Issue{Key: ComposeKey(prefix, key), Code: code, Message: msg, Params: params}
}
