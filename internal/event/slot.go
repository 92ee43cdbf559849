package event

import "github.com/dshills/scribe/internal/event/match"

// Slot is a typed event field. The zero value is unset.
type Slot[T comparable] struct {
	mode    FieldMode
	value   T
	matcher match.Matcher
}

// Set returns a slot holding v.
func Set[T comparable](v T) Slot[T] {
	return Slot[T]{mode: Literal, value: v}
}

// Unset returns an empty slot. It is the same as the zero value.
func Unset[T comparable]() Slot[T] {
	return Slot[T]{}
}

// Match returns a slot holding the predicate m. A nil m leaves the slot unset.
func Match[T comparable](m match.Matcher) Slot[T] {
	if m == nil {
		return Slot[T]{}
	}
	return Slot[T]{mode: Predicate, matcher: m}
}

// Get returns the literal value and whether the slot holds one.
func (s Slot[T]) Get() (T, bool) {
	return s.value, s.mode == Literal
}

// IsSet reports whether the slot holds a literal value.
func (s Slot[T]) IsSet() bool {
	return s.mode == Literal
}

// IsUnset reports whether the slot holds nothing.
func (s Slot[T]) IsUnset() bool {
	return s.mode == Wildcard
}

// Field projects the slot to an untyped Field.
func (s Slot[T]) Field() Field {
	switch s.mode {
	case Literal:
		return Field{mode: Literal, value: s.value}
	case Predicate:
		return Field{mode: Predicate, matcher: s.matcher}
	default:
		return Field{}
	}
}

// Trait is a named field of an event.
type Trait struct {
	Name  string
	Field Field
}

// Traits is the ordered field list of an event.
type Traits []Trait

// Get returns the field with the given name.
func (t Traits) Get(name string) (Field, bool) {
	for _, tr := range t {
		if tr.Name == name {
			return tr.Field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (t Traits) Names() []string {
	names := make([]string, len(t))
	for i, tr := range t {
		names[i] = tr.Name
	}
	return names
}
