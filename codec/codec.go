package codec

import (
	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// Decoded carries a decode outcome: the decoded value and the unconsumed
// part of the input. Compositional decoders thread the remainder; top-level
// callers use [Parse], which discards it.
type Decoded[A any] struct {
	Value     A
	Remainder any
}

// Codec is a bidirectional, composable encoder/decoder pair between Go
// values of type A and backend values of some [dyn.Ops].
//
// Encode appends a to an existing prefix value (the empty element to begin
// a fresh document). Decode reads a from a backend value and returns the
// remainder. Lawful codecs round-trip: decoding an encoded value yields the
// original.
//
// Create instances with [Of], the primitive constructors ([Bool], [String],
// ...), or the combinators.
type Codec[A any] struct {
	name   string
	encode func(ops dyn.Ops, a A, prefix any) result.Result[any]
	decode func(ops dyn.Ops, v any) result.Result[Decoded[A]]
}

// Of builds a Codec from an encoder and decoder function. The name appears
// in error messages and diagnostics.
func Of[A any](
	name string,
	encode func(ops dyn.Ops, a A, prefix any) result.Result[any],
	decode func(ops dyn.Ops, v any) result.Result[Decoded[A]],
) Codec[A] {
	return Codec[A]{name: name, encode: encode, decode: decode}
}

// String returns the codec's name.
func (c Codec[A]) String() string {
	return c.name
}

// Encode appends a to prefix using ops' constructors.
func (c Codec[A]) Encode(ops dyn.Ops, a A, prefix any) result.Result[any] {
	return c.encode(ops, a, prefix)
}

// Decode reads a value of type A, returning it with the unconsumed input.
func (c Codec[A]) Decode(ops dyn.Ops, v any) result.Result[Decoded[A]] {
	return c.decode(ops, v)
}

// EncodeStart encodes a into a fresh document (the ops' empty element).
func (c Codec[A]) EncodeStart(ops dyn.Ops, a A) result.Result[any] {
	return c.encode(ops, a, ops.Empty())
}

// Parse decodes a value of type A, discarding the remainder.
func (c Codec[A]) Parse(ops dyn.Ops, v any) result.Result[A] {
	return result.Map(c.decode(ops, v), func(d Decoded[A]) A {
		return d.Value
	})
}

// Unit returns a codec that decodes to a fixed value without consuming
// input and encodes to the prefix unchanged.
func Unit[A any](a A) Codec[A] {
	return Codec[A]{
		name: "unit",
		encode: func(_ dyn.Ops, _ A, prefix any) result.Result[any] {
			return result.Success(prefix)
		},
		decode: func(_ dyn.Ops, v any) result.Result[Decoded[A]] {
			return result.Success(Decoded[A]{Value: a, Remainder: v})
		},
	}
}
