package codec

import (
	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// Field binds a [MapCodec] for one field to the getter that extracts the
// field from the assembled record. Build instances with [WithGetter] and
// feed them to the RecordN constructors.
type Field[A, F any] struct {
	codec MapCodec[F]
	get   func(A) F
}

// WithGetter binds a field codec to its record getter.
func WithGetter[A, F any](m MapCodec[F], get func(A) F) Field[A, F] {
	return Field[A, F]{codec: m, get: get}
}

func (f Field[A, F]) encodeInto(ops dyn.Ops, a A, m result.Result[any]) result.Result[any] {
	return result.FlatMap(m, func(mv any) result.Result[any] {
		return f.codec.encode(ops, f.get(a), mv)
	})
}

// recordPrefix normalizes the encode prefix of a record to a map value.
func recordPrefix(ops dyn.Ops, prefix any) result.Result[any] {
	if dyn.Equal(ops, prefix, ops.Empty()) {
		return result.Success(ops.EmptyMap())
	}

	if !ops.IsMap(prefix) {
		return result.Errorf[any]("record: prefix is not a map")
	}

	return result.Success(prefix)
}

// recordInput validates the decode input of a record.
func recordInput[A any](ops dyn.Ops, v any) result.Result[A] {
	if !ops.IsMap(v) {
		return result.Errorf[A]("record: input is not a map")
	}

	var zero A

	return result.Success(zero)
}

// Record2 composes a two-field record codec. Encoding merges each field
// into the running map in group order; decoding runs every field decoder
// against the same map and assembles the result with ctor. Any field
// failure fails the whole record.
func Record2[A, F1, F2 any](
	f1 Field[A, F1], f2 Field[A, F2],
	ctor func(F1, F2) A,
) Codec[A] {
	return Codec[A]{
		name: "record",
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			m := recordPrefix(ops, prefix)
			m = f1.encodeInto(ops, a, m)
			m = f2.encodeInto(ops, a, m)

			return m
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			return result.FlatMap(recordInput[A](ops, v), func(A) result.Result[Decoded[A]] {
				return result.FlatMap(f1.codec.decode(ops, v), func(v1 F1) result.Result[Decoded[A]] {
					return result.Map(f2.codec.decode(ops, v), func(v2 F2) Decoded[A] {
						return Decoded[A]{Value: ctor(v1, v2), Remainder: v}
					})
				})
			})
		},
	}
}

// Record3 composes a three-field record codec. See [Record2].
func Record3[A, F1, F2, F3 any](
	f1 Field[A, F1], f2 Field[A, F2], f3 Field[A, F3],
	ctor func(F1, F2, F3) A,
) Codec[A] {
	return Codec[A]{
		name: "record",
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			m := recordPrefix(ops, prefix)
			m = f1.encodeInto(ops, a, m)
			m = f2.encodeInto(ops, a, m)
			m = f3.encodeInto(ops, a, m)

			return m
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			return result.FlatMap(recordInput[A](ops, v), func(A) result.Result[Decoded[A]] {
				return result.FlatMap(f1.codec.decode(ops, v), func(v1 F1) result.Result[Decoded[A]] {
					return result.FlatMap(f2.codec.decode(ops, v), func(v2 F2) result.Result[Decoded[A]] {
						return result.Map(f3.codec.decode(ops, v), func(v3 F3) Decoded[A] {
							return Decoded[A]{Value: ctor(v1, v2, v3), Remainder: v}
						})
					})
				})
			})
		},
	}
}

// Record4 composes a four-field record codec. See [Record2].
func Record4[A, F1, F2, F3, F4 any](
	f1 Field[A, F1], f2 Field[A, F2], f3 Field[A, F3], f4 Field[A, F4],
	ctor func(F1, F2, F3, F4) A,
) Codec[A] {
	return Codec[A]{
		name: "record",
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			m := recordPrefix(ops, prefix)
			m = f1.encodeInto(ops, a, m)
			m = f2.encodeInto(ops, a, m)
			m = f3.encodeInto(ops, a, m)
			m = f4.encodeInto(ops, a, m)

			return m
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			return result.FlatMap(recordInput[A](ops, v), func(A) result.Result[Decoded[A]] {
				return result.FlatMap(f1.codec.decode(ops, v), func(v1 F1) result.Result[Decoded[A]] {
					return result.FlatMap(f2.codec.decode(ops, v), func(v2 F2) result.Result[Decoded[A]] {
						return result.FlatMap(f3.codec.decode(ops, v), func(v3 F3) result.Result[Decoded[A]] {
							return result.Map(f4.codec.decode(ops, v), func(v4 F4) Decoded[A] {
								return Decoded[A]{Value: ctor(v1, v2, v3, v4), Remainder: v}
							})
						})
					})
				})
			})
		},
	}
}

// Record5 composes a five-field record codec. See [Record2].
func Record5[A, F1, F2, F3, F4, F5 any](
	f1 Field[A, F1], f2 Field[A, F2], f3 Field[A, F3], f4 Field[A, F4], f5 Field[A, F5],
	ctor func(F1, F2, F3, F4, F5) A,
) Codec[A] {
	return Codec[A]{
		name: "record",
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			m := recordPrefix(ops, prefix)
			m = f1.encodeInto(ops, a, m)
			m = f2.encodeInto(ops, a, m)
			m = f3.encodeInto(ops, a, m)
			m = f4.encodeInto(ops, a, m)
			m = f5.encodeInto(ops, a, m)

			return m
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			return result.FlatMap(recordInput[A](ops, v), func(A) result.Result[Decoded[A]] {
				return result.FlatMap(f1.codec.decode(ops, v), func(v1 F1) result.Result[Decoded[A]] {
					return result.FlatMap(f2.codec.decode(ops, v), func(v2 F2) result.Result[Decoded[A]] {
						return result.FlatMap(f3.codec.decode(ops, v), func(v3 F3) result.Result[Decoded[A]] {
							return result.FlatMap(f4.codec.decode(ops, v), func(v4 F4) result.Result[Decoded[A]] {
								return result.Map(f5.codec.decode(ops, v), func(v5 F5) Decoded[A] {
									return Decoded[A]{Value: ctor(v1, v2, v3, v4, v5), Remainder: v}
								})
							})
						})
					})
				})
			})
		},
	}
}

// Record6 composes a six-field record codec. See [Record2].
func Record6[A, F1, F2, F3, F4, F5, F6 any](
	f1 Field[A, F1], f2 Field[A, F2], f3 Field[A, F3],
	f4 Field[A, F4], f5 Field[A, F5], f6 Field[A, F6],
	ctor func(F1, F2, F3, F4, F5, F6) A,
) Codec[A] {
	return Codec[A]{
		name: "record",
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			m := recordPrefix(ops, prefix)
			m = f1.encodeInto(ops, a, m)
			m = f2.encodeInto(ops, a, m)
			m = f3.encodeInto(ops, a, m)
			m = f4.encodeInto(ops, a, m)
			m = f5.encodeInto(ops, a, m)
			m = f6.encodeInto(ops, a, m)

			return m
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			return result.FlatMap(recordInput[A](ops, v), func(A) result.Result[Decoded[A]] {
				return result.FlatMap(f1.codec.decode(ops, v), func(v1 F1) result.Result[Decoded[A]] {
					return result.FlatMap(f2.codec.decode(ops, v), func(v2 F2) result.Result[Decoded[A]] {
						return result.FlatMap(f3.codec.decode(ops, v), func(v3 F3) result.Result[Decoded[A]] {
							return result.FlatMap(f4.codec.decode(ops, v), func(v4 F4) result.Result[Decoded[A]] {
								return result.FlatMap(f5.codec.decode(ops, v), func(v5 F5) result.Result[Decoded[A]] {
									return result.Map(f6.codec.decode(ops, v), func(v6 F6) Decoded[A] {
										return Decoded[A]{Value: ctor(v1, v2, v3, v4, v5, v6), Remainder: v}
									})
								})
							})
						})
					})
				})
			})
		},
	}
}
