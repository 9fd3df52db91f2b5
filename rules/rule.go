package rules

import (
	"fmt"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/types"
)

// Rule is a partial function over typed values. Rewrite either matches and
// produces a new value, or declines; rules never modify their input.
//
// Create instances with the constructors in this package and compose them
// with [Rule.AndThen], [Rule.OrElse], [Seq], [Choice], and the traversal
// combinators.
type Rule struct {
	name    string
	rewrite func(t types.Type, v types.Typed) (types.Typed, bool)
}

// New builds a rule from a rewrite function. The name carries through
// composition into diagnostics.
func New(name string, rewrite func(t types.Type, v types.Typed) (types.Typed, bool)) Rule {
	return Rule{name: name, rewrite: rewrite}
}

// String returns the rule's diagnostic name.
func (r Rule) String() string {
	return r.name
}

// Rewrite tests the rule against v under the expected type t. The second
// return reports whether the rule matched.
func (r Rule) Rewrite(t types.Type, v types.Typed) (types.Typed, bool) {
	return r.rewrite(t, v)
}

// Apply rewrites v, returning it unchanged when the rule does not match.
func (r Rule) Apply(v types.Typed) types.Typed {
	out, ok := r.rewrite(v.Type, v)
	if !ok {
		return v
	}

	return out
}

// ApplyOrError rewrites v and fails descriptively when the rule does not
// match.
func (r Rule) ApplyOrError(v types.Typed) (types.Typed, error) {
	out, ok := r.rewrite(v.Type, v)
	if !ok {
		return v, fmt.Errorf("rule %s did not match type %s", r.name, v.Type.Describe())
	}

	return out, nil
}

// AndThen sequences two rules; a non-match of either is a non-match of the
// whole.
func (r Rule) AndThen(next Rule) Rule {
	return Rule{
		name: r.name + " -> " + next.name,
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			mid, ok := r.rewrite(t, v)
			if !ok {
				return v, false
			}

			return next.rewrite(mid.Type, mid)
		},
	}
}

// OrElse tries r first, then fallback.
func (r Rule) OrElse(fallback Rule) Rule {
	return Rule{
		name: r.name + " | " + fallback.name,
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			if out, ok := r.rewrite(t, v); ok {
				return out, true
			}

			return fallback.rewrite(t, v)
		},
	}
}

// OrKeep makes the rule total: where it would decline, it matches with the
// input unchanged.
func (r Rule) OrKeep() Rule {
	return Rule{
		name: r.name + "?",
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			if out, ok := r.rewrite(t, v); ok {
				return out, true
			}

			return v, true
		},
	}
}

// IfType narrows the rule to match only when the expected type's reference
// equals ref.
func (r Rule) IfType(ref string) Rule {
	return Rule{
		name: r.name + "@" + ref,
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			if t == nil || t.Ref() != ref {
				return v, false
			}

			return r.rewrite(t, v)
		},
	}
}

// Named attaches a diagnostic name.
func (r Rule) Named(name string) Rule {
	r.name = name

	return r
}

// Identity always matches and returns its input unchanged.
func Identity() Rule {
	return Rule{
		name: "identity",
		rewrite: func(_ types.Type, v types.Typed) (types.Typed, bool) {
			return v, true
		},
	}
}

// Fail never matches.
func Fail() Rule {
	return Rule{
		name: "fail",
		rewrite: func(_ types.Type, v types.Typed) (types.Typed, bool) {
			return v, false
		},
	}
}

// ForType matches values whose type reference equals target's and maps
// their payload.
func ForType(name string, target types.Type, fn func(dyn.Dynamic) dyn.Dynamic) Rule {
	return Rule{
		name: name,
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			if !types.Same(t, target) {
				return v, false
			}

			return types.Typed{Type: v.Type, Value: fn(v.Value)}, true
		},
	}
}
