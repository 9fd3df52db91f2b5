package types

import (
	"sort"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// TaggedChoice is a discriminated union: a map carrying a tag field that
// selects one of a fixed set of variant types, with the variant's payload
// fields merged into the same map.
type TaggedChoice struct {
	base

	tagField string
	variants map[string]Type
	order    []string
}

// TaggedValue is a decoded tagged-choice payload. The payload wraps the
// whole input map, tag field included.
type TaggedValue struct {
	Tag     string
	Payload dyn.Dynamic
}

// TaggedChoiceOf builds a tagged choice type. The reference names the
// union as a whole; tagField is the discriminator key.
func TaggedChoiceOf(ref, tagField string, variants map[string]Type) *TaggedChoice {
	order := make([]string, 0, len(variants))

	for tag := range variants {
		order = append(order, tag)
	}

	sort.Strings(order)

	tc := &TaggedChoice{
		tagField: tagField,
		variants: variants,
		order:    order,
	}

	describe := func() string {
		return "TaggedChoice<" + tagField + ">{" + describeVariants(variants, order) + "}"
	}

	tc.base = base{
		ref:      ref,
		describe: describe,
		children: func() []Type {
			out := make([]Type, 0, len(order))

			for _, tag := range order {
				out = append(out, variants[tag])
			}

			return out
		},
		cdc: dynCodec(ref, describe, func(d dyn.Dynamic) result.Result[dyn.Dynamic] {
			return result.Map(tc.DecodeTagged(d), func(TaggedValue) dyn.Dynamic {
				return d
			})
		}),
	}

	return tc
}

// TagField returns the discriminator key.
func (tc *TaggedChoice) TagField() string {
	return tc.tagField
}

// Variant returns the type registered for tag.
func (tc *TaggedChoice) Variant(tag string) (Type, bool) {
	t, ok := tc.variants[tag]

	return t, ok
}

// DecodeTagged reads the tag field, resolves the variant, and validates
// the payload against it. The returned payload is the whole input map,
// tag field included.
func (tc *TaggedChoice) DecodeTagged(d dyn.Dynamic) result.Result[TaggedValue] {
	tagValue, ok := d.Get(tc.tagField)
	if !ok {
		return result.Errorf[TaggedValue]("missing tag field %q", tc.tagField)
	}

	return result.FlatMap(tagValue.AsString().MapError("tag field "+tc.tagField), func(tag string) result.Result[TaggedValue] {
		variant, found := tc.variants[tag]
		if !found {
			return result.Errorf[TaggedValue]("unknown tag %q", tag)
		}

		return result.Map(variant.Codec().Parse(d.Ops(), d.Value()), func(dyn.Dynamic) TaggedValue {
			return TaggedValue{Tag: tag, Payload: d}
		}).MapError("tag " + tag)
	})
}

// EncodeTagged builds the encoded form of a tagged value: a map holding
// the tag field, with the payload's fields merged in. The payload must be
// a map or the empty element; an empty payload encodes to the bare tag
// map.
func (tc *TaggedChoice) EncodeTagged(ops dyn.Ops, tag string, payload dyn.Dynamic) result.Result[any] {
	if _, ok := tc.variants[tag]; !ok {
		return result.Errorf[any]("unknown tag %q", tag)
	}

	tagged, err := ops.MergeToMap(ops.EmptyMap(), ops.CreateString(tc.tagField), ops.CreateString(tag)).Unwrap()
	if err != nil {
		return result.Errorf[any]("tag field %s: %v", tc.tagField, err)
	}

	converted := payload
	if payload.Ops() != ops {
		converted = payload.Convert(ops)
	}

	if converted.IsEmpty() {
		return result.Success(tagged)
	}

	if !ops.IsMap(converted.Value()) {
		return result.Errorf[any]("tag %q: payload must be a map, got %s shape", tag, shapeName(ops, converted.Value()))
	}

	return ops.MergeMaps(tagged, converted.Value())
}

// shapeName classifies a value for error messages.
func shapeName(ops dyn.Ops, v any) string {
	switch {
	case ops.IsMap(v):
		return "map"
	case ops.IsList(v):
		return "list"
	case ops.IsString(v):
		return "string"
	case ops.IsNumber(v):
		return "number"
	case ops.IsBoolean(v):
		return "boolean"
	}

	return "empty"
}
