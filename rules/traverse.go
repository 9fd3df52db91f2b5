package rules

import (
	"slices"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/types"
)

// Traversal combinators apply a rule across the structure of a dynamic
// value. Children of a map are its values; children of a list are its
// elements; primitives have none. Child values are presented to the rule
// as passthrough-typed, so type-narrowed rules compose with traversal at
// the root only.

// All applies r to every direct child of the value, composing the results
// into the parent. It always matches; children the rule declines stay
// unchanged.
func All(ops dyn.Ops, r Rule) Rule {
	return Rule{
		name: "all(" + r.name + ")",
		rewrite: func(_ types.Type, v types.Typed) (types.Typed, bool) {
			out, _ := rewriteChildren(ops, r, v.Value, false)

			return types.Typed{Type: v.Type, Value: out}, true
		},
	}
}

// One applies r to the first direct child it matches, in deterministic
// child order. It declines when no child matches.
func One(ops dyn.Ops, r Rule) Rule {
	return Rule{
		name: "one(" + r.name + ")",
		rewrite: func(_ types.Type, v types.Typed) (types.Typed, bool) {
			out, n := rewriteChildren(ops, r, v.Value, true)
			if n == 0 {
				return v, false
			}

			return types.Typed{Type: v.Type, Value: out}, true
		},
	}
}

// Everywhere applies r at every level: the root and, recursively, every
// descendant. Nodes the rule declines stay unchanged. Always matches.
func Everywhere(ops dyn.Ops, r Rule) Rule {
	return BottomUp(ops, r).Named("everywhere(" + r.name + ")")
}

// BottomUp traverses child-first: descendants are rewritten before the
// rule runs at each enclosing node. Always matches.
func BottomUp(ops dyn.Ops, r Rule) Rule {
	name := "bottomUp(" + r.name + ")"

	var rewrite func(t types.Type, v types.Typed) (types.Typed, bool)

	rewrite = func(_ types.Type, v types.Typed) (types.Typed, bool) {
		children, _ := rewriteChildren(ops, New(name, rewrite), v.Value, false)
		node := types.Typed{Type: v.Type, Value: children}

		if out, ok := r.rewrite(node.Type, node); ok {
			return out, true
		}

		return node, true
	}

	return Rule{name: name, rewrite: rewrite}
}

// TopDown traverses parent-first: the rule runs at each node before its
// (possibly rewritten) children are visited. Always matches.
func TopDown(ops dyn.Ops, r Rule) Rule {
	name := "topDown(" + r.name + ")"

	var rewrite func(t types.Type, v types.Typed) (types.Typed, bool)

	rewrite = func(t types.Type, v types.Typed) (types.Typed, bool) {
		node := v

		if out, ok := r.rewrite(t, v); ok {
			node = out
		}

		children, _ := rewriteChildren(ops, New(name, rewrite), node.Value, false)

		return types.Typed{Type: node.Type, Value: children}, true
	}

	return Rule{name: name, rewrite: rewrite}
}

// rewriteChildren applies r to each direct child of d, rebuilding the
// parent from the results. With firstOnly set it stops after the first
// match. Returns the rebuilt value and the number of matches.
//
// The child list is materialized before rewriting; streams are single-use
// and the rebuild needs a second pass.
func rewriteChildren(ops dyn.Ops, r Rule, d dyn.Dynamic, firstOnly bool) (dyn.Dynamic, int) {
	matched := 0

	apply := func(child dyn.Dynamic) dyn.Dynamic {
		if firstOnly && matched > 0 {
			return child
		}

		out, ok := r.Rewrite(types.Passthrough, types.Typed{Type: types.Passthrough, Value: child})
		if !ok {
			return child
		}

		matched++

		return out.Value
	}

	if entries, err := d.Entries().Unwrap(); err == nil {
		out := d

		keys := make([]string, 0, len(entries))

		for k := range entries {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			before := entries[k]

			after := apply(before)
			if !after.Equal(before) {
				out = out.Set(k, after)
			}
		}

		return out, matched
	}

	if items, err := d.AsList().Unwrap(); err == nil {
		changed := false
		values := make([]any, len(items))

		for i, item := range items {
			after := apply(item)
			values[i] = after.Value()

			if !after.Equal(item) {
				changed = true
			}
		}

		if !changed {
			return d, matched
		}

		return dyn.New(ops, ops.CreateList(func(yield func(any) bool) {
			for _, v := range values {
				if !yield(v) {
					return
				}
			}
		})), matched
	}

	return d, 0
}
