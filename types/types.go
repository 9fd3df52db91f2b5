package types

import (
	"go.jacobcolvin.com/datafix/codec"
	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// Type describes a structural shape of serialized data. Every type derives
// a codec over [dyn.Dynamic] payloads that validates and rebuilds values of
// that shape, lists its child types in order, and renders a human-readable
// description for diagnostics.
//
// Two types are the same for rule matching iff their references are equal;
// the reference is an identity, not a structural description.
type Type interface {
	// Ref returns the process-stable reference identifying this type.
	Ref() string
	// Describe renders the structural shape for error messages and logs.
	Describe() string
	// Children returns the ordered list of direct sub-types.
	Children() []Type
	// Codec returns the derived codec for payloads of this shape.
	Codec() codec.Codec[dyn.Dynamic]
}

// Typed pairs a type with a value expected to satisfy it. The pairing is a
// trust boundary: construction does not validate, the type's codec does.
type Typed struct {
	Type  Type
	Value dyn.Dynamic
}

// Same reports whether two types are the same for rule matching, which is
// reference equality.
func Same(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Ref() == b.Ref()
}

// base carries the pieces shared by every variant.
type base struct {
	ref      string
	describe func() string
	children func() []Type
	cdc      codec.Codec[dyn.Dynamic]
}

func (b base) Ref() string                     { return b.ref }
func (b base) Describe() string                { return b.describe() }
func (b base) Children() []Type                { return b.children() }
func (b base) Codec() codec.Codec[dyn.Dynamic] { return b.cdc }
func (b base) String() string                  { return b.describe() }

func noChildren() []Type { return nil }

// dynCodec builds a Codec[dyn.Dynamic] from a validating reader and the
// type's description. Encoding converts the payload into the target ops
// and re-validates; decoding wraps and validates.
func dynCodec(name string, describe func() string, validate func(d dyn.Dynamic) result.Result[dyn.Dynamic]) codec.Codec[dyn.Dynamic] {
	return codec.Of[dyn.Dynamic](name,
		func(ops dyn.Ops, d dyn.Dynamic, prefix any) result.Result[any] {
			converted := d
			if d.Ops() != ops {
				converted = d.Convert(ops)
			}

			checked := validate(converted)
			if checked.IsError() {
				return result.Error[any](func() string {
					return "encoding " + describe() + ": " + checked.Message()
				})
			}

			if !dyn.Equal(ops, prefix, ops.Empty()) {
				if ops.IsMap(prefix) && ops.IsMap(checked.MustUnwrap().Value()) {
					return ops.MergeMaps(prefix, checked.MustUnwrap().Value())
				}

				return result.Errorf[any]("encoding %s: cannot append to non-empty prefix", describe())
			}

			return result.Success(checked.MustUnwrap().Value())
		},
		func(ops dyn.Ops, v any) result.Result[codec.Decoded[dyn.Dynamic]] {
			checked := validate(dyn.New(ops, v))
			if checked.IsError() {
				return result.Error[codec.Decoded[dyn.Dynamic]](func() string {
					return "decoding " + describe() + ": " + checked.Message()
				})
			}

			out := checked.MustUnwrap()

			return result.Success(codec.Decoded[dyn.Dynamic]{Value: out, Remainder: ops.Empty()})
		},
	)
}
