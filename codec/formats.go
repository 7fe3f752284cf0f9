// Package codec provides named Matchers for common string formats. Schema
// documents refer to them with `match: {func: <name>}`.
package codec

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/shapecheck"
)

// Names of the built-in formats.
const (
	NameRFC3339 = "rfc3339"
	NameDate    = "date"
	NameUUID    = "uuid"
)

// RFC3339 accepts RFC 3339 timestamps, with or without fractional seconds.
func RFC3339() shapecheck.Matcher {
	return shapecheck.MatchFunc(func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		_, err := parseRFC3339(s)
		return err == nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// Date accepts calendar dates written as YYYY-MM-DD.
func Date() shapecheck.Matcher {
	return shapecheck.MatchFunc(func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	})
}

// UUID accepts UUIDs in their canonical 36 character form.
func UUID() shapecheck.Matcher {
	return shapecheck.MatchFunc(func(v any) bool {
		s, ok := v.(string)
		if !ok || len(s) != 36 {
			return false
		}
		return uuid.Validate(s) == nil
	})
}

// Builtins returns a fresh registry of every named format, suitable for
// load.Options.Matchers.
func Builtins() map[string]shapecheck.Matcher {
	return map[string]shapecheck.Matcher{
		NameRFC3339: RFC3339(),
		NameDate:    Date(),
		NameUUID:    UUID(),
	}
}

// Names lists the built-in format names in sorted order.
func Names() []string {
	m := Builtins()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
