package rules

import (
	"log/slog"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/types"
)

// Seq sequences rules and short-circuits on the first non-match: the whole
// sequence matches only when every rule matches.
func Seq(rs ...Rule) Rule {
	return Rule{
		name: "seq",
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			current := v
			currentType := t

			for _, r := range rs {
				out, ok := r.rewrite(currentType, current)
				if !ok {
					return v, false
				}

				current = out
				currentType = out.Type
			}

			return current, true
		},
	}
}

// SeqAll runs every rule in order, skipping non-matching ones. It always
// matches, even with no rules.
func SeqAll(rs ...Rule) Rule {
	return Rule{
		name: "seqAll",
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			current := v
			currentType := t

			for _, r := range rs {
				out, ok := r.rewrite(currentType, current)
				if !ok {
					continue
				}

				current = out
				currentType = out.Type
			}

			return current, true
		},
	}
}

// Choice tries rules in order; the first match wins. No match at all is a
// non-match of the whole.
func Choice(rs ...Rule) Rule {
	return Rule{
		name: "choice",
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			for _, r := range rs {
				if out, ok := r.rewrite(t, v); ok {
					return out, true
				}
			}

			return v, false
		},
	}
}

// CheckOnce is a pass-through wrapper kept for structural parity with
// traversal pipelines; the rule is applied exactly once as-is.
func CheckOnce(r Rule) Rule {
	return Rule{
		name:    "checkOnce(" + r.name + ")",
		rewrite: r.rewrite,
	}
}

// TryOnce applies the rule where it matches and keeps the input where it
// does not. Equivalent to r.OrKeep().
func TryOnce(r Rule) Rule {
	return r.OrKeep().Named("tryOnce(" + r.name + ")")
}

// IfType narrows r to values of the target type.
func IfType(target types.Type, r Rule) Rule {
	return r.IfType(target.Ref())
}

// TransformType builds the common fix shape: match the target type, map
// the payload.
func TransformType(name string, target types.Type, fn func(dyn.Dynamic) dyn.Dynamic) Rule {
	return ForType(name, target, fn)
}

// Noop always matches and changes nothing.
func Noop() Rule {
	return Identity().Named("noop")
}

// Log wraps a rule, reporting each rewrite attempt -- the rule name, the
// type description, and whether it matched -- to logger. A nil logger uses
// [slog.Default]. The rule's outcome passes through unchanged.
func Log(msg string, r Rule, logger *slog.Logger) Rule {
	return Rule{
		name: r.name,
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			out, ok := r.rewrite(t, v)

			l := logger
			if l == nil {
				l = slog.Default()
			}

			desc := "<nil>"
			if t != nil {
				desc = t.Describe()
			}

			l.Debug(msg,
				slog.String("rule", r.name),
				slog.String("type", desc),
				slog.Bool("matched", ok))

			return out, ok
		},
	}
}
