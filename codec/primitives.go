package codec

import (
	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// Primitive codecs, one per primitive category. Each is a thin wrapper
// over the matching [dyn.Ops] create/read pair.
var (
	Bool   = primitive("bool", dyn.Ops.CreateBool, dyn.Ops.BoolValue)
	String = primitive("string", dyn.Ops.CreateString, dyn.Ops.StringValue)
	Long   = primitive("long", dyn.Ops.CreateLong, dyn.Ops.LongValue)
	Double = primitive("double", dyn.Ops.CreateDouble, dyn.Ops.NumberValue)

	Byte  = primitive("byte", dyn.Ops.CreateByte, readLongAs[int8])
	Short = primitive("short", dyn.Ops.CreateShort, readLongAs[int16])
	Int   = primitive("int", dyn.Ops.CreateInt, readLongAs[int32])

	Float = primitive("float", dyn.Ops.CreateFloat, func(ops dyn.Ops, v any) result.Result[float32] {
		return result.Map(ops.NumberValue(v), func(f float64) float32 {
			return float32(f)
		})
	})

	// Number is the open-world numeric codec: it reads any numeric
	// category as a float64 and writes through CreateNumeric, letting the
	// ops pick its richest representation.
	Number = primitive("number", func(ops dyn.Ops, f float64) any {
		return ops.CreateNumeric(f)
	}, dyn.Ops.NumberValue)

	// Passthrough carries a backend value through unchanged. It is the
	// identity lens underlying passthrough types.
	Passthrough = Codec[any]{
		name: "passthrough",
		encode: func(ops dyn.Ops, v any, prefix any) result.Result[any] {
			if dyn.Equal(ops, prefix, ops.Empty()) {
				return result.Success(v)
			}

			if ops.IsMap(prefix) && ops.IsMap(v) {
				return ops.MergeMaps(prefix, v)
			}

			return result.Errorf[any]("passthrough: cannot append to non-empty prefix")
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[any]] {
			return result.Success(Decoded[any]{Value: v, Remainder: ops.Empty()})
		},
	}
)

// primitive builds a codec from a create/read pair. Primitives can only
// begin a document: appending one to a non-empty prefix is an error.
func primitive[A any](
	name string,
	create func(ops dyn.Ops, a A) any,
	read func(ops dyn.Ops, v any) result.Result[A],
) Codec[A] {
	return Codec[A]{
		name: name,
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			if !dyn.Equal(ops, prefix, ops.Empty()) {
				return result.Errorf[any]("%s: cannot append primitive to non-empty prefix", name)
			}

			return result.Success(create(ops, a))
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			return result.Map(read(ops, v), func(a A) Decoded[A] {
				return Decoded[A]{Value: a, Remainder: ops.Empty()}
			}).MapError(name)
		},
	}
}

// readLongAs reads an integral number and narrows it to a smaller signed
// integer type.
func readLongAs[A int8 | int16 | int32](ops dyn.Ops, v any) result.Result[A] {
	return result.Map(ops.LongValue(v), func(l int64) A {
		return A(l)
	})
}
