package rules

import (
	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/types"
)

// Path-based field operations over dynamic map shapes. Each constructor
// returns a rule that matches when the operation applies (the named field
// or path exists, or for adds, does not yet exist) and declines otherwise.
// Operations documented as no-ops match unconditionally.

// dynRule lifts a value-level partial function into a Rule.
func dynRule(name string, f func(d dyn.Dynamic) (dyn.Dynamic, bool)) Rule {
	return Rule{
		name: name,
		rewrite: func(_ types.Type, v types.Typed) (types.Typed, bool) {
			out, ok := f(v.Value)
			if !ok {
				return v, false
			}

			return types.Typed{Type: v.Type, Value: out}, true
		},
	}
}

// RenameField renames a flat field. Matches only when the source field
// exists.
func RenameField(from, to string) Rule {
	return dynRule("renameField("+from+"->"+to+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		v, ok := d.Get(from)
		if !ok {
			return d, false
		}

		return d.Remove(from).Set(to, v), true
	})
}

// RenameFields renames several flat fields in one pass. Matches when at
// least one source field exists.
func RenameFields(renames map[string]string) Rule {
	return dynRule("renameFields", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		out := d
		matched := false

		for from, to := range renames {
			v, ok := out.Get(from)
			if !ok {
				continue
			}

			out = out.Remove(from).Set(to, v)
			matched = true
		}

		return out, matched
	})
}

// RemoveField removes a flat field. Matches only when the field exists.
func RemoveField(name string) Rule {
	return dynRule("removeField("+name+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		if !d.Has(name) {
			return d, false
		}

		return d.Remove(name), true
	})
}

// RemoveFields removes several flat fields. Matches when at least one
// existed.
func RemoveFields(names ...string) Rule {
	return dynRule("removeFields", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		out := d
		matched := false

		for _, name := range names {
			if !out.Has(name) {
				continue
			}

			out = out.Remove(name)
			matched = true
		}

		return out, matched
	})
}

// AddField adds a flat field with a lazily-built default. Matches only
// when the field is absent; an existing value is never overwritten.
func AddField(ops dyn.Ops, name string, def func(ops dyn.Ops) dyn.Dynamic) Rule {
	return dynRule("addField("+name+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		if d.Has(name) {
			return d, false
		}

		return d.Set(name, def(ops)), true
	})
}

// TransformField maps the value of a flat field. Matches only when the
// field exists.
func TransformField(name string, fn func(dyn.Dynamic) dyn.Dynamic) Rule {
	return dynRule("transformField("+name+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		v, ok := d.Get(name)
		if !ok {
			return d, false
		}

		return d.Set(name, fn(v)), true
	})
}

// TransformFieldAt maps the value at a dotted path. Matches only when the
// full path resolves. The path is parsed once and interned.
func TransformFieldAt(path string, fn func(dyn.Dynamic) dyn.Dynamic) Rule {
	segments := mustPath(path)

	return dynRule("transformFieldAt("+path+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		v, ok := getAt(d, segments)
		if !ok {
			return d, false
		}

		return setAt(d, segments, fn(v), false)
	})
}

// RenameFieldAt renames the final segment of a dotted path to newName.
// Matches only when the full path resolves.
func RenameFieldAt(path, newName string) Rule {
	segments := mustPath(path)

	return dynRule("renameFieldAt("+path+"->"+newName+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		v, ok := getAt(d, segments)
		if !ok {
			return d, false
		}

		removed, ok := removeAt(d, segments)
		if !ok {
			return d, false
		}

		target := append(append([]string{}, segments[:len(segments)-1]...), newName)

		return setAt(removed, target, v, false)
	})
}

// RemoveFieldAt removes the binding at a dotted path. Matches only when
// the full path resolves.
func RemoveFieldAt(path string) Rule {
	segments := mustPath(path)

	return dynRule("removeFieldAt("+path+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		return removeAt(d, segments)
	})
}

// AddFieldAt adds a binding at a dotted path, creating missing parent maps
// along the way. Matches only when the final key is absent.
func AddFieldAt(ops dyn.Ops, path string, def func(ops dyn.Ops) dyn.Dynamic) Rule {
	segments := mustPath(path)

	return dynRule("addFieldAt("+path+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		if _, exists := getAt(d, segments); exists {
			return d, false
		}

		return setAt(d, segments, def(ops), true)
	})
}

// GroupFields collects the listed flat fields into a sub-map bound at
// target, preserving the listed order. Absent fields are skipped without
// error; an existing target is overwritten as the last step. Matches
// unconditionally, so grouping zero present fields still produces an
// empty sub-map.
func GroupFields(ops dyn.Ops, target string, fields ...string) Rule {
	return dynRule("groupFields("+target+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		group := dyn.New(ops, ops.EmptyMap())
		out := d

		for _, name := range fields {
			v, ok := out.Get(name)
			if !ok {
				continue
			}

			group = group.Set(name, v)
			out = out.Remove(name)
		}

		return out.Set(target, group), true
	})
}

// FlattenField splices the entries of the sub-map bound at name into the
// parent map, removing the sub-map. The inverse of [GroupFields]. Matches
// only when name exists and holds a map.
func FlattenField(name string) Rule {
	return dynRule("flattenField("+name+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		sub, ok := d.Get(name)
		if !ok {
			return d, false
		}

		entries, err := sub.Entries().Unwrap()
		if err != nil {
			return d, false
		}

		out := d.Remove(name)

		for k, v := range entries {
			out = out.Set(k, v)
		}

		return out, true
	})
}

// MoveField moves the binding at fromPath to toPath, creating missing
// parents of the destination. A missing source is a no-op: the rule
// matches and changes nothing.
func MoveField(fromPath, toPath string) Rule {
	from := mustPath(fromPath)
	to := mustPath(toPath)

	return dynRule("moveField("+fromPath+"->"+toPath+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		v, ok := getAt(d, from)
		if !ok {
			return d, true
		}

		removed, ok := removeAt(d, from)
		if !ok {
			return d, true
		}

		out, ok := setAt(removed, to, v, true)
		if !ok {
			return d, true
		}

		return out, true
	})
}

// CopyField copies the binding at fromPath to toPath, creating missing
// parents of the destination. Matches only when the source resolves.
func CopyField(fromPath, toPath string) Rule {
	from := mustPath(fromPath)
	to := mustPath(toPath)

	return dynRule("copyField("+fromPath+"->"+toPath+")", func(d dyn.Dynamic) (dyn.Dynamic, bool) {
		v, ok := getAt(d, from)
		if !ok {
			return d, false
		}

		return setAt(d, to, v, true)
	})
}

// IfFieldExists guards r on the presence of a flat field.
func IfFieldExists(name string, r Rule) Rule {
	return Rule{
		name: "ifFieldExists(" + name + ", " + r.name + ")",
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			if !v.Value.Has(name) {
				return v, false
			}

			return r.rewrite(t, v)
		},
	}
}

// IfFieldMissing guards r on the absence of a flat field.
func IfFieldMissing(name string, r Rule) Rule {
	return Rule{
		name: "ifFieldMissing(" + name + ", " + r.name + ")",
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			if v.Value.Has(name) {
				return v, false
			}

			return r.rewrite(t, v)
		},
	}
}

// IfFieldEquals guards r on a flat field holding a value structurally
// equal to want.
func IfFieldEquals(name string, want dyn.Dynamic, r Rule) Rule {
	return Rule{
		name: "ifFieldEquals(" + name + ", " + r.name + ")",
		rewrite: func(t types.Type, v types.Typed) (types.Typed, bool) {
			got, ok := v.Value.Get(name)
			if !ok || !got.Equal(want) {
				return v, false
			}

			return r.rewrite(t, v)
		},
	}
}

// ApplyIfFieldExists is the single-pass form of [IfFieldExists] for hot
// paths that already hold a Dynamic.
func ApplyIfFieldExists(d dyn.Dynamic, name string, fn func(dyn.Dynamic) dyn.Dynamic) dyn.Dynamic {
	if !d.Has(name) {
		return d
	}

	return fn(d)
}

// ApplyIfFieldMissing is the single-pass form of [IfFieldMissing].
func ApplyIfFieldMissing(d dyn.Dynamic, name string, fn func(dyn.Dynamic) dyn.Dynamic) dyn.Dynamic {
	if d.Has(name) {
		return d
	}

	return fn(d)
}

// ApplyIfFieldEquals is the single-pass form of [IfFieldEquals].
func ApplyIfFieldEquals(d dyn.Dynamic, name string, want dyn.Dynamic, fn func(dyn.Dynamic) dyn.Dynamic) dyn.Dynamic {
	got, ok := d.Get(name)
	if !ok || !got.Equal(want) {
		return d
	}

	return fn(d)
}
