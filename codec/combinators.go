package codec

import (
	"fmt"
	"iter"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// Xmap maps a codec across an infallible bijection.
func Xmap[A, B any](c Codec[A], to func(A) B, from func(B) A) Codec[B] {
	return Codec[B]{
		name: c.name,
		encode: func(ops dyn.Ops, b B, prefix any) result.Result[any] {
			return c.encode(ops, from(b), prefix)
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[B]] {
			return result.Map(c.decode(ops, v), func(d Decoded[A]) Decoded[B] {
				return Decoded[B]{Value: to(d.Value), Remainder: d.Remainder}
			})
		},
	}
}

// FlatXmap maps a codec across a fallible bijection.
func FlatXmap[A, B any](c Codec[A], to func(A) result.Result[B], from func(B) result.Result[A]) Codec[B] {
	return Codec[B]{
		name: c.name,
		encode: func(ops dyn.Ops, b B, prefix any) result.Result[any] {
			return result.FlatMap(from(b), func(a A) result.Result[any] {
				return c.encode(ops, a, prefix)
			})
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[B]] {
			return result.FlatMap(c.decode(ops, v), func(d Decoded[A]) result.Result[Decoded[B]] {
				return result.Map(to(d.Value), func(b B) Decoded[B] {
					return Decoded[B]{Value: b, Remainder: d.Remainder}
				})
			})
		},
	}
}

// ComapFlatMap maps with a fallible decode direction and an infallible
// encode direction.
func ComapFlatMap[A, B any](c Codec[A], to func(A) result.Result[B], from func(B) A) Codec[B] {
	return FlatXmap(c, to, func(b B) result.Result[A] {
		return result.Success(from(b))
	})
}

// FlatComapMap maps with an infallible decode direction and a fallible
// encode direction.
func FlatComapMap[A, B any](c Codec[A], to func(A) B, from func(B) result.Result[A]) Codec[B] {
	return FlatXmap(c, func(a A) result.Result[B] {
		return result.Success(to(a))
	}, from)
}

// List derives a codec for slices of the element type.
func (c Codec[A]) List() Codec[[]A] {
	return Codec[[]A]{
		name: "List<" + c.name + ">",
		encode: func(ops dyn.Ops, items []A, prefix any) result.Result[any] {
			acc := result.Success(prefix)

			for i, item := range items {
				encoded := c.EncodeStart(ops, item)

				acc = result.FlatMap(acc, func(list any) result.Result[any] {
					return result.FlatMap(encoded, func(e any) result.Result[any] {
						return ops.MergeToList(list, e)
					})
				}).MapError(fmt.Sprintf("element %d", i))
			}

			return result.FlatMap(acc, func(list any) result.Result[any] {
				// An empty slice still encodes as a list, not as the
				// untouched prefix.
				if len(items) == 0 && dyn.Equal(ops, list, ops.Empty()) {
					return result.Success(ops.EmptyList())
				}

				return result.Success(list)
			})
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[[]A]] {
			return result.FlatMap(ops.ListStream(v), func(items iter.Seq[any]) result.Result[Decoded[[]A]] {
				out := []A{}
				i := 0

				for item := range items {
					decoded := c.Parse(ops, item)
					if decoded.IsError() {
						return result.Error[Decoded[[]A]](func() string {
							return fmt.Sprintf("element %d: %s", i, decoded.Message())
						})
					}

					out = append(out, decoded.MustUnwrap())
					i++
				}

				return result.Success(Decoded[[]A]{Value: out, Remainder: ops.Empty()})
			})
		},
	}
}

// Optional derives a codec for optional values, using nil for absence.
// Absence encodes to the prefix unchanged and decodes from the empty
// element.
func (c Codec[A]) Optional() Codec[*A] {
	return Codec[*A]{
		name: "Optional<" + c.name + ">",
		encode: func(ops dyn.Ops, a *A, prefix any) result.Result[any] {
			if a == nil {
				return result.Success(prefix)
			}

			return c.encode(ops, *a, prefix)
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[*A]] {
			if dyn.Equal(ops, v, ops.Empty()) {
				return result.Success(Decoded[*A]{Value: nil, Remainder: ops.Empty()})
			}

			return result.Map(c.decode(ops, v), func(d Decoded[A]) Decoded[*A] {
				a := d.Value

				return Decoded[*A]{Value: &a, Remainder: d.Remainder}
			})
		},
	}
}

// OrElse tries c first on both encode and decode, falling back to other on
// failure.
func (c Codec[A]) OrElse(other Codec[A]) Codec[A] {
	return Codec[A]{
		name: c.name + "|" + other.name,
		encode: func(ops dyn.Ops, a A, prefix any) result.Result[any] {
			return c.encode(ops, a, prefix).OrElse(other.encode(ops, a, prefix))
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			first := c.decode(ops, v)
			if first.IsSuccess() {
				return first
			}

			return other.decode(ops, v)
		},
	}
}

// WithErrorContext prepends prefix to any error message the codec emits.
func (c Codec[A]) WithErrorContext(prefix string) Codec[A] {
	return Codec[A]{
		name: c.name,
		encode: func(ops dyn.Ops, a A, p any) result.Result[any] {
			return c.encode(ops, a, p).MapError(prefix)
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[A]] {
			return c.decode(ops, v).MapError(prefix)
		},
	}
}

// Named returns the codec under a different diagnostic name.
func (c Codec[A]) Named(name string) Codec[A] {
	c.name = name

	return c
}

// Pair is an ordered product of two values.
type Pair[F, S any] struct {
	First  F
	Second S
}

// MakePair pairs two values.
func MakePair[F, S any](first F, second S) Pair[F, S] {
	return Pair[F, S]{First: first, Second: second}
}

// PairOf derives a codec for a product. The first codec encodes into the
// prefix, the second into the first's output; decoding threads the
// remainder through both.
func PairOf[F, S any](first Codec[F], second Codec[S]) Codec[Pair[F, S]] {
	return Codec[Pair[F, S]]{
		name: "(" + first.name + " × " + second.name + ")",
		encode: func(ops dyn.Ops, p Pair[F, S], prefix any) result.Result[any] {
			return result.FlatMap(first.encode(ops, p.First, prefix), func(mid any) result.Result[any] {
				return second.encode(ops, p.Second, mid)
			})
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[Pair[F, S]]] {
			return result.FlatMap(first.decode(ops, v), func(df Decoded[F]) result.Result[Decoded[Pair[F, S]]] {
				return result.Map(second.decode(ops, df.Remainder), func(ds Decoded[S]) Decoded[Pair[F, S]] {
					return Decoded[Pair[F, S]]{
						Value:     Pair[F, S]{First: df.Value, Second: ds.Value},
						Remainder: ds.Remainder,
					}
				})
			})
		},
	}
}

// Either is a sum of two alternatives.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left injects into the left alternative.
func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{left: l}
}

// Right injects into the right alternative.
func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{right: r, isRight: true}
}

// Left returns the left value and whether it is the active alternative.
func (e Either[L, R]) Left() (L, bool) {
	return e.left, !e.isRight
}

// Right returns the right value and whether it is the active alternative.
func (e Either[L, R]) Right() (R, bool) {
	return e.right, e.isRight
}

// EitherOf derives a left-biased codec for a sum: decoding tries the left
// codec first.
func EitherOf[L, R any](left Codec[L], right Codec[R]) Codec[Either[L, R]] {
	return Codec[Either[L, R]]{
		name: "(" + left.name + " | " + right.name + ")",
		encode: func(ops dyn.Ops, e Either[L, R], prefix any) result.Result[any] {
			if l, ok := e.Left(); ok {
				return left.encode(ops, l, prefix)
			}

			r, _ := e.Right()

			return right.encode(ops, r, prefix)
		},
		decode: func(ops dyn.Ops, v any) result.Result[Decoded[Either[L, R]]] {
			fromLeft := result.Map(left.decode(ops, v), func(d Decoded[L]) Decoded[Either[L, R]] {
				return Decoded[Either[L, R]]{Value: Left[L, R](d.Value), Remainder: d.Remainder}
			})

			if fromLeft.IsSuccess() {
				return fromLeft
			}

			return result.Map(right.decode(ops, v), func(d Decoded[R]) Decoded[Either[L, R]] {
				return Decoded[Either[L, R]]{Value: Right[L](d.Value), Remainder: d.Remainder}
			})
		},
	}
}
