package shapecheck

import "regexp"

// Matcher decides whether a value satisfies a match-typed field.
type Matcher interface {
	Match(v any) bool
}

// MatchFunc adapts a predicate function to Matcher.
type MatchFunc func(v any) bool

func (f MatchFunc) Match(v any) bool { return f(v) }

// Pattern adapts a regular expression to Matcher. The value is tested in its
// string form, so 123 matches `\d`.
type Pattern struct{ Re *regexp.Regexp }

// MustPattern compiles expr into a Pattern and panics on error.
func MustPattern(expr string) Pattern { return Pattern{Re: regexp.MustCompile(expr)} }

func (p Pattern) Match(v any) bool {
	if p.Re == nil {
		return false
	}
	return p.Re.MatchString(formatValue(v))
}

// String returns the source text of the expression.
func (p Pattern) String() string {
	if p.Re == nil {
		return ""
	}
	return p.Re.String()
}

// asMatcher adapts the supported match attribute shapes.
func asMatcher(v any) (Matcher, bool) {
	switch m := v.(type) {
	case Pattern:
		return m, m.Re != nil
	case *regexp.Regexp:
		return Pattern{Re: m}, m != nil
	case MatchFunc:
		return m, m != nil
	case func(any) bool:
		return MatchFunc(m), m != nil
	case Matcher:
		return m, true
	}
	return nil, false
}
