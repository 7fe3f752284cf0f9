package engine

import (
	"strconv"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling and max
// depth checks in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupError DuplicateStrictness = iota
	DupIgnore
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int // 0 disables the check
}

// IssueError reports an enforcement violation at a dotted path.
type IssueError struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

func (e IssueError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind       containerKind
	keys       map[string]struct{}
	path       string
	nextIndex  int
	pendingKey string
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and the maximum nesting depth.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.childPath()
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), path: path}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{Code: "too_deep", Path: path, Message: "max depth exceeded", Offset: e.Location()}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate == DupError {
				return Token{}, IssueError{
					Code:    "duplicate_key",
					Path:    joinPath(top.path, tok.String),
					Message: "key '" + tok.String + "' duplicated",
					Offset:  e.Location(),
				}
			}
			top.keys[tok.String] = struct{}{}
			top.pendingKey = tok.String
		}
	default:
		e.childPath()
	}
	return tok, nil
}

// childPath returns the path of the value token about to be consumed and
// advances array indexes.
func (e *enforcingTokenSource) childPath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		p := joinPath(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	return joinPath(top.path, top.pendingKey)
}

func joinPath(base, token string) string {
	if base == "" {
		return token
	}
	return base + "." + token
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
