package event

import (
	"fmt"

	"github.com/dshills/scribe/internal/event/match"
)

// FieldMode says what a field holds.
type FieldMode uint8

const (
	// Wildcard is an unset field. In a pattern it matches anything.
	Wildcard FieldMode = iota

	// Literal is a concrete value compared with ==.
	Literal

	// Predicate is a match.Matcher.
	Predicate
)

// String returns the mode name.
func (m FieldMode) String() string {
	switch m {
	case Wildcard:
		return "wildcard"
	case Literal:
		return "literal"
	case Predicate:
		return "predicate"
	default:
		return "unknown"
	}
}

// Field is the untyped projection of a Slot: a wildcard, a literal value,
// or a predicate.
type Field struct {
	mode    FieldMode
	value   any
	matcher match.Matcher
}

// WildcardField returns an unset field.
func WildcardField() Field {
	return Field{}
}

// LiteralField returns a field holding v. A nil v yields a wildcard.
func LiteralField(v any) Field {
	if match.IsUnset(v) {
		return Field{}
	}
	return Field{mode: Literal, value: v}
}

// PredicateField returns a field holding m. A nil m yields a wildcard.
func PredicateField(m match.Matcher) Field {
	if m == nil {
		return Field{}
	}
	return Field{mode: Predicate, matcher: m}
}

// Mode returns what the field holds.
func (f Field) Mode() FieldMode {
	return f.mode
}

// Value returns the literal value, or match.Unset for other modes.
func (f Field) Value() any {
	if f.mode != Literal {
		return match.Unset
	}
	return f.value
}

// Matcher returns the predicate, or nil for other modes.
func (f Field) Matcher() match.Matcher {
	return f.matcher
}

// Matches reports whether actual satisfies f, where f is a pattern field
// and actual is the corresponding field of a payload.
//
// A wildcard matches anything. A predicate or literal only matches a
// literal actual value; an unset actual field never satisfies a predicate.
func (f Field) Matches(actual Field) bool {
	switch f.mode {
	case Wildcard:
		return true
	case Predicate:
		return actual.mode == Literal && f.matcher.Satisfies(actual.value)
	case Literal:
		return actual.mode == Literal && f.value == actual.value
	default:
		return false
	}
}

// String formats the field for logs and test failures.
func (f Field) String() string {
	switch f.mode {
	case Literal:
		return fmt.Sprintf("%#v", f.value)
	case Predicate:
		return fmt.Sprintf("match(%v)", f.matcher)
	default:
		return "*"
	}
}
