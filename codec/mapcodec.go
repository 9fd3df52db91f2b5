package codec

import (
	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// MapCodec is a restricted codec that reads and writes fields of a
// pre-existing map, used to compose records field by field. Lift a
// [Codec] into one with [Codec.FieldOf] or [Codec.OptionalFieldOf].
type MapCodec[A any] struct {
	name   string
	encode func(ops dyn.Ops, a A, m any) result.Result[any]
	decode func(ops dyn.Ops, m any) result.Result[A]
}

// String returns the map codec's key description.
func (m MapCodec[A]) String() string {
	return m.name
}

// EncodeInto merges a's field encoding into the map value prefix.
func (m MapCodec[A]) EncodeInto(ops dyn.Ops, a A, prefix any) result.Result[any] {
	return m.encode(ops, a, prefix)
}

// DecodeFrom reads a's field from the map value v.
func (m MapCodec[A]) DecodeFrom(ops dyn.Ops, v any) result.Result[A] {
	return m.decode(ops, v)
}

// Codec rebuilds the map codec as a standalone codec over whole map
// values. Decoding does not consume the input: the remainder is the full
// map, so sibling fields can be read by other codecs.
func (m MapCodec[A]) Codec() Codec[A] {
	return Codec[A]{
		name: m.name,
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			if dyn.Equal(ops, prefix, ops.Empty()) {
				prefix = ops.EmptyMap()
			}

			if !ops.IsMap(prefix) {
				return result.Errorf[any]("%s: prefix is not a map", m.name)
			}

			return m.encode(ops, a, prefix)
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			if !ops.IsMap(v) {
				return result.Errorf[Decoded[A]]("%s: input is not a map", m.name)
			}

			return result.Map(m.decode(ops, v), func(a A) Decoded[A] {
				return Decoded[A]{Value: a, Remainder: v}
			})
		},
	}
}

// FieldOf lifts the codec into a map codec for a required field.
// Decoding fails when the field is absent.
func (c Codec[A]) FieldOf(name string) MapCodec[A] {
	return MapCodec[A]{
		name: name + ": " + c.name,
		encode: func(ops dyn.Ops, a A, m any) result.Result[any] {
			return result.FlatMap(c.EncodeStart(ops, a), func(encoded any) result.Result[any] {
				return ops.MergeToMap(m, ops.CreateString(name), encoded)
			}).MapError("field " + name)
		},
		decode: func(ops dyn.Ops, m any) result.Result[A] {
			v, ok := ops.Get(m, name)
			if !ok {
				return result.Errorf[A]("field %s: missing", name)
			}

			return c.Parse(ops, v).MapError("field " + name)
		},
	}
}

// OptionalFieldOf lifts the codec into a map codec for an optional field,
// using nil for absence. An absent field decodes to nil; a nil value
// encodes to no field at all. A present but malformed field is an error,
// not absence.
func (c Codec[A]) OptionalFieldOf(name string) MapCodec[*A] {
	return MapCodec[*A]{
		name: "?" + name + ": " + c.name,
		encode: func(ops dyn.Ops, a *A, m any) result.Result[any] {
			if a == nil {
				return result.Success(m)
			}

			return result.FlatMap(c.EncodeStart(ops, *a), func(encoded any) result.Result[any] {
				return ops.MergeToMap(m, ops.CreateString(name), encoded)
			}).MapError("field " + name)
		},
		decode: func(ops dyn.Ops, m any) result.Result[*A] {
			v, ok := ops.Get(m, name)
			if !ok {
				return result.Success[*A](nil)
			}

			return result.Map(c.Parse(ops, v), func(a A) *A {
				return &a
			}).MapError("field " + name)
		},
	}
}

// OptionalFieldOf lifts the codec into a map codec that substitutes def
// when the field is absent on decode, and omits the field on encode when
// the value equals def. Substituting the default flags the decode result
// partial.
func OptionalFieldOf[A comparable](c Codec[A], name string, def A) MapCodec[A] {
	return MapCodec[A]{
		name: "?" + name + ": " + c.String(),
		encode: func(ops dyn.Ops, a A, m any) result.Result[any] {
			if a == def {
				return result.Success(m)
			}

			return result.FlatMap(c.EncodeStart(ops, a), func(encoded any) result.Result[any] {
				return ops.MergeToMap(m, ops.CreateString(name), encoded)
			}).MapError("field " + name)
		},
		decode: func(ops dyn.Ops, m any) result.Result[A] {
			v, ok := ops.Get(m, name)
			if !ok {
				return result.PartialSuccess(def)
			}

			return c.Parse(ops, v).MapError("field " + name)
		},
	}
}

// XmapField maps a map codec across an infallible bijection.
func XmapField[A, B any](m MapCodec[A], to func(A) B, from func(B) A) MapCodec[B] {
	return MapCodec[B]{
		name: m.name,
		encode: func(ops dyn.Ops, b B, mv any) result.Result[any] {
			return m.encode(ops, from(b), mv)
		},
		decode: func(ops dyn.Ops, mv any) result.Result[B] {
			return result.Map(m.decode(ops, mv), to)
		},
	}
}
