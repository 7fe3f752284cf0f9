package shapecheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var (
	intString   = regexp.MustCompile(`^\d+$`)
	floatString = regexp.MustCompile(`^\d+[.]?\d*$`)
)

// numberValue returns v as float64 when v is a Go number or a json.Number.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func integral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// coerceInt accepts integral numbers (Go numbers unchanged, json.Number as
// int64) and digit strings (as int64).
func coerceInt(v any) (any, bool) {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, true
	case float32:
		return v, integral(float64(n))
	case float64:
		return v, integral(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || !integral(f) {
			return nil, false
		}
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), true
		}
		return f, true
	case string:
		if !intString.MatchString(n) {
			return nil, false
		}
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return nil, false
		}
		return i, true
	}
	return nil, false
}

// coerceFloat accepts any number (Go numbers unchanged, json.Number as
// float64) and decimal strings (as float64).
func coerceFloat(v any) (any, bool) {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	case string:
		if !floatString.MatchString(n) {
			return nil, false
		}
		// Out of range digit strings saturate to +Inf.
		f, err := strconv.ParseFloat(n, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func coerceBool(v any) (any, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch {
		case strings.EqualFold(b, "true"):
			return true, true
		case strings.EqualFold(b, "false"):
			return false, true
		}
	}
	return nil, false
}

// equalValues compares numbers numerically across representations and
// everything else by deep equality.
func equalValues(a, b any) bool {
	fa, aNum := numberValue(a)
	fb, bNum := numberValue(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// formatValue renders v the way it appears in messages: null for nil,
// shortest decimal for numbers, comma-joined elements for sequences.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return string(t)
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	case fmt.Stringer:
		return t.String()
	}
	if _, ok := numberValue(v); ok {
		return fmt.Sprint(v)
	}
	if isSequence(v) {
		return formatList(sequenceItems(v))
	}
	return fmt.Sprint(v)
}

func formatList(items []any) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = formatValue(it)
	}
	return strings.Join(parts, ",")
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// asObject returns v as a string-keyed map.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
