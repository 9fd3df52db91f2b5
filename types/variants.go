package types

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// Primitive builds a leaf type from a validating reader. The reader
// returns an error when the payload is not of the primitive's category.
func Primitive(name string, validate func(d dyn.Dynamic) result.Result[dyn.Dynamic]) Type {
	describe := func() string { return name }

	return base{
		ref:      name,
		describe: describe,
		children: noChildren,
		cdc:      dynCodec(name, describe, validate),
	}
}

// Canonical primitive types.
var (
	String = Primitive("string", func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
		return keep(d, result.Map(d.AsString(), ignore[string]))
	})

	Bool = Primitive("bool", func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
		return keep(d, result.Map(d.AsBool(), ignore[bool]))
	})

	Int = Primitive("int", func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
		return keep(d, result.Map(d.AsInt(), ignore[int64]))
	})

	Float = Primitive("float", func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
		return keep(d, result.Map(d.AsFloat(), ignore[float64]))
	})
)

func ignore[A any](A) struct{} { return struct{}{} }

func keep(d dyn.Dynamic, r result.Result[struct{}]) result.Result[dyn.Dynamic] {
	return result.Map(r, func(struct{}) dyn.Dynamic { return d })
}

// Passthrough is the identity lens: it accepts any shape unchanged.
var Passthrough Type = base{
	ref:      "passthrough",
	describe: func() string { return "passthrough" },
	children: noChildren,
	cdc: dynCodec("passthrough", func() string { return "passthrough" },
		func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			return result.Success(d)
		}),
}

// List builds the type of homogeneous lists of elem.
func List(elem Type) Type {
	describe := func() string { return "List<" + elem.Describe() + ">" }

	return base{
		ref:      "list<" + elem.Ref() + ">",
		describe: describe,
		children: func() []Type { return []Type{elem} },
		cdc: dynCodec("list", describe, func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			return result.FlatMap(d.AsList(), func(items []dyn.Dynamic) result.Result[dyn.Dynamic] {
				for i, item := range items {
					checked := elem.Codec().Parse(item.Ops(), item.Value())
					if checked.IsError() {
						return checked.MapError(fmt.Sprintf("element %d", i))
					}
				}

				return result.Success(d)
			})
		}),
	}
}

// Optional builds the type accepting either the empty element or inner.
func Optional(inner Type) Type {
	describe := func() string { return "Optional<" + inner.Describe() + ">" }

	return base{
		ref:      "optional<" + inner.Ref() + ">",
		describe: describe,
		children: func() []Type { return []Type{inner} },
		cdc: dynCodec("optional", describe, func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			if d.IsEmpty() {
				return result.Success(d)
			}

			return result.Map(inner.Codec().Parse(d.Ops(), d.Value()), func(dyn.Dynamic) dyn.Dynamic {
				return d
			})
		}),
	}
}

// Product builds the pair type of first and second. The runtime shape is a
// two-element list.
func Product(first, second Type) Type {
	describe := func() string {
		return "(" + first.Describe() + " × " + second.Describe() + ")"
	}

	return base{
		ref:      "product<" + first.Ref() + "," + second.Ref() + ">",
		describe: describe,
		children: func() []Type { return []Type{first, second} },
		cdc: dynCodec("product", describe, func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			return result.FlatMap(d.AsList(), func(items []dyn.Dynamic) result.Result[dyn.Dynamic] {
				if len(items) != 2 {
					return result.Errorf[dyn.Dynamic]("expected 2 elements, got %d", len(items))
				}

				checked := first.Codec().Parse(items[0].Ops(), items[0].Value())
				if checked.IsError() {
					return checked.MapError("first")
				}

				checked = second.Codec().Parse(items[1].Ops(), items[1].Value())
				if checked.IsError() {
					return checked.MapError("second")
				}

				return result.Success(d)
			})
		}),
	}
}

// Sum builds the left-biased either type of left and right.
func Sum(left, right Type) Type {
	describe := func() string {
		return "(" + left.Describe() + " | " + right.Describe() + ")"
	}

	return base{
		ref:      "sum<" + left.Ref() + "," + right.Ref() + ">",
		describe: describe,
		children: func() []Type { return []Type{left, right} },
		cdc: dynCodec("sum", describe, func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			fromLeft := left.Codec().Parse(d.Ops(), d.Value())
			if fromLeft.IsSuccess() {
				return result.Success(d)
			}

			return result.Map(right.Codec().Parse(d.Ops(), d.Value()), func(dyn.Dynamic) dyn.Dynamic {
				return d
			})
		}),
	}
}

// Field builds a map type with one described field of type inner. An
// optional field may be absent; a required field must be present. The rest
// of the map passes through unvalidated.
func Field(name string, inner Type, optional bool) Type {
	describe := func() string {
		prefix := ""
		if optional {
			prefix = "?"
		}

		return prefix + name + ": " + inner.Describe()
	}

	return base{
		ref:      "field<" + name + ">",
		describe: describe,
		children: func() []Type { return []Type{inner} },
		cdc: dynCodec("field", describe, func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			v, ok := d.Get(name)
			if !ok {
				if optional {
					return result.Success(d)
				}

				return result.Errorf[dyn.Dynamic]("field %s: missing", name)
			}

			return result.Map(inner.Codec().Parse(v.Ops(), v.Value()), func(dyn.Dynamic) dyn.Dynamic {
				return d
			}).MapError("field " + name)
		}),
	}
}

// Named builds a lazy reference to another type, resolved through resolve
// at each use; the result is not cached. It is the only way the DSL forms cycles: the referenced
// type may be registered after the reference is built.
func Named(name string, resolve func() (Type, bool)) Type {
	describe := func() string { return name }

	target := func() result.Result[Type] {
		t, ok := resolve()
		if !ok {
			return result.Errorf[Type]("named type %s: unresolved", name)
		}

		return result.Success(t)
	}

	return base{
		ref:      name,
		describe: describe,
		children: func() []Type {
			t, ok := resolve()
			if !ok {
				return nil
			}

			return []Type{t}
		},
		cdc: dynCodec(name, describe, func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			return result.FlatMap(target(), func(t Type) result.Result[dyn.Dynamic] {
				return t.Codec().Parse(d.Ops(), d.Value())
			})
		}),
	}
}

// Alias builds a named delegate to an already-constructed type.
func Alias(name string, inner Type) Type {
	return Named(name, func() (Type, bool) { return inner, true })
}

// describeVariants renders a tagged choice's variant table in tag order.
func describeVariants(variants map[string]Type, order []string) string {
	var sb strings.Builder

	for i, tag := range order {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(tag)
		sb.WriteString(" -> ")
		sb.WriteString(variants[tag].Describe())
	}

	return sb.String()
}
