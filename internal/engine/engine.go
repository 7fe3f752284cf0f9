package engine

import (
	"encoding/json"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a decoded mapping whose member order follows the input.
type Object []Member

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores v under key. An existing member keeps its position.
func (o Object) Set(key string, v any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = v
			return o
		}
	}
	return append(o, Member{Key: key, Value: v})
}

// NumberConv converts the text of a number token.
type NumberConv func(string) (any, error)

// JSONNumber keeps numbers as json.Number.
func JSONNumber(s string) (any, error) { return json.Number(s), nil }

// Float64 decodes numbers as float64.
func Float64(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeOrdered builds a value tree from the token source. Objects become
// Object (order preserved), arrays []any, numbers whatever conv returns.
func DecodeOrdered(src TokenSource, conv NumberConv) (any, error) {
	if conv == nil {
		conv = JSONNumber
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return decodeValue(src, tok, conv)
}

func decodeValue(src TokenSource, tok Token, conv NumberConv) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, conv)
	case KindBeginArray:
		return decodeArray(src, conv)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource, conv NumberConv) (any, error) {
	obj := Object{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return obj, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(src, vt, conv)
		if err != nil {
			return nil, err
		}
		obj = obj.Set(tok.String, v)
	}
}

func decodeArray(src TokenSource, conv NumberConv) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok, conv)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// Plain converts an ordered tree into map[string]any / []any values.
func Plain(v any) any {
	switch t := v.(type) {
	case Object:
		m := make(map[string]any, len(t))
		for _, mem := range t {
			m[mem.Key] = Plain(mem.Value)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Plain(t[i])
		}
		return out
	default:
		return v
	}
}
