package match

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Matcher is a predicate usable in place of a literal pattern value.
type Matcher interface {
	// Satisfies reports whether v satisfies the predicate.
	Satisfies(v any) bool
}

// unset is the type of the Unset sentinel.
type unset struct{}

func (unset) String() string { return "<unset>" }

// Unset marks an absent value. Matchers never match it.
var Unset any = unset{}

// IsUnset reports whether v is the Unset sentinel or nil.
func IsUnset(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(unset)
	return ok
}

// predicate is the single concrete Matcher. Every constructor in this package
// returns one, so the Unset guard lives in exactly one place.
type predicate struct {
	name string
	fn   func(v any) bool
}

func (p *predicate) Satisfies(v any) bool {
	if IsUnset(v) {
		return false
	}
	return p.fn(v)
}

func (p *predicate) String() string {
	return p.name
}

// Func returns a Matcher backed by fn. The name is used by String.
func Func(name string, fn func(v any) bool) Matcher {
	if fn == nil {
		fn = func(any) bool { return false }
	}
	return &predicate{name: name, fn: fn}
}

// Char matches a string holding exactly one code point.
func Char() Matcher {
	return Func("char", func(v any) bool {
		s, ok := v.(string)
		return ok && s != "" && utf8.RuneCountInString(s) == 1
	})
}

// Grapheme matches a string holding exactly one user-perceived character,
// such as "é" written as e plus a combining accent, or a flag emoji.
func Grapheme() Matcher {
	return Func("grapheme", func(v any) bool {
		s, ok := v.(string)
		return ok && s != "" && uniseg.GraphemeClusterCount(s) == 1
	})
}

// Printable matches a single printable code point.
func Printable() Matcher {
	return Func("printable", func(v any) bool {
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return false
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r != utf8.RuneError && unicode.IsPrint(r)
	})
}

// OneOf matches any value equal to one of values.
// Values must be comparable.
func OneOf(values ...any) Matcher {
	set := make([]any, len(values))
	copy(set, values)
	return Func(fmt.Sprintf("one-of%v", set), func(v any) bool {
		for _, want := range set {
			if want == v {
				return true
			}
		}
		return false
	})
}

// Not inverts m. Not(m) still never matches Unset.
func Not(m Matcher) Matcher {
	return Func(fmt.Sprintf("not(%v)", m), func(v any) bool {
		return !m.Satisfies(v)
	})
}

// All matches when every matcher matches. All() matches any set value.
func All(ms ...Matcher) Matcher {
	return Func(fmt.Sprintf("all%v", ms), func(v any) bool {
		for _, m := range ms {
			if !m.Satisfies(v) {
				return false
			}
		}
		return true
	})
}

// Any matches when at least one matcher matches. Any() matches nothing.
func Any(ms ...Matcher) Matcher {
	return Func(fmt.Sprintf("any%v", ms), func(v any) bool {
		for _, m := range ms {
			if m.Satisfies(v) {
				return true
			}
		}
		return false
	})
}
