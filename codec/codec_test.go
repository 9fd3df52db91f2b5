package codec_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/datafix/codec"
	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/dyn/jsonops"
	"go.jacobcolvin.com/datafix/dyn/yamlops"
	"go.jacobcolvin.com/datafix/result"
)

var ops = jsonops.Default

// roundTrip encodes a value and parses it back.
func roundTrip[A any](t *testing.T, c codec.Codec[A], v A) A {
	t.Helper()

	encoded, err := c.EncodeStart(ops, v).Unwrap()
	require.NoError(t, err)

	out, err := c.Parse(ops, encoded).Unwrap()
	require.NoError(t, err)

	return out
}

func TestPrimitiveRoundTrips(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	allOps := []dyn.Ops{jsonops.Default, yamlops.Default}

	properties.Property("string round-trips", prop.ForAll(
		func(v string) bool {
			for _, o := range allOps {
				encoded, err := codec.String.EncodeStart(o, v).Unwrap()
				if err != nil {
					return false
				}

				out, err := codec.String.Parse(o, encoded).Unwrap()
				if err != nil || out != v {
					return false
				}
			}

			return true
		},
		gen.AnyString(),
	))

	properties.Property("long round-trips", prop.ForAll(
		func(v int64) bool {
			encoded, err := codec.Long.EncodeStart(ops, v).Unwrap()
			if err != nil {
				return false
			}

			out, err := codec.Long.Parse(ops, encoded).Unwrap()

			return err == nil && out == v
		},
		gen.Int64(),
	))

	properties.Property("bool round-trips", prop.ForAll(
		func(v bool) bool {
			encoded, err := codec.Bool.EncodeStart(ops, v).Unwrap()
			if err != nil {
				return false
			}

			out, err := codec.Bool.Parse(ops, encoded).Unwrap()

			return err == nil && out == v
		},
		gen.Bool(),
	))

	properties.Property("double round-trips", prop.ForAll(
		func(v float64) bool {
			encoded, err := codec.Double.EncodeStart(ops, v).Unwrap()
			if err != nil {
				return false
			}

			out, err := codec.Double.Parse(ops, encoded).Unwrap()

			return err == nil && out == v
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.TestingRun(t)
}

func TestPrimitiveDecodeMismatch(t *testing.T) {
	t.Parallel()

	_, err := codec.String.Parse(ops, ops.CreateInt(5)).Unwrap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string")

	_, err = codec.Bool.Parse(ops, ops.CreateString("true")).Unwrap()
	require.Error(t, err)
}

func TestXmapFunctoriality(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	identity := codec.Xmap(codec.Long, func(v int64) int64 { return v }, func(v int64) int64 { return v })

	properties.Property("xmap(id,id) behaves as id", prop.ForAll(
		func(v int64) bool {
			a := roundTrip(t, identity, v)
			b := roundTrip(t, codec.Long, v)

			return a == b
		},
		gen.Int64(),
	))

	// xmap(f,g) then xmap(h,k) equals xmap(h∘f, g∘k).
	f := func(v int64) int64 { return v + 1 }
	g := func(v int64) int64 { return v - 1 }
	h := func(v int64) int64 { return v * 2 }
	k := func(v int64) int64 { return v / 2 }

	composedTwice := codec.Xmap(codec.Xmap(codec.Long, f, g), h, k)
	composedOnce := codec.Xmap(codec.Long,
		func(v int64) int64 { return h(f(v)) },
		func(v int64) int64 { return g(k(v)) })

	properties.Property("xmap composes", prop.ForAll(
		func(v int64) bool {
			return roundTrip(t, composedTwice, v*2) == roundTrip(t, composedOnce, v*2)
		},
		gen.Int64Range(-1<<30, 1<<30),
	))

	properties.TestingRun(t)
}

func TestFlatXmap(t *testing.T) {
	t.Parallel()

	// A codec for non-negative numbers stored as strings.
	parsed := codec.FlatXmap(codec.String,
		func(s string) result.Result[int64] {
			if !strings.HasPrefix(s, "n") {
				return result.Errorf[int64]("not a number literal: %s", s)
			}

			return result.Success(int64(len(s) - 1))
		},
		func(v int64) result.Result[string] {
			if v < 0 {
				return result.Errorf[string]("negative: %d", v)
			}

			return result.Success("n" + strings.Repeat("x", int(v)))
		})

	out := roundTrip(t, parsed, 3)
	assert.Equal(t, int64(3), out)

	encodeErr := parsed.EncodeStart(ops, -1)
	assert.True(t, encodeErr.IsError())

	_, err := parsed.Parse(ops, ops.CreateString("bogus")).Unwrap()
	require.Error(t, err)
}

func TestListCodec(t *testing.T) {
	t.Parallel()

	c := codec.Long.List()

	assert.Equal(t, []int64{1, 2, 3}, roundTrip(t, c, []int64{1, 2, 3}))
	assert.Empty(t, roundTrip(t, c, nil))

	// Empty slice still encodes as a list.
	encoded, err := c.EncodeStart(ops, nil).Unwrap()
	require.NoError(t, err)
	assert.True(t, ops.IsList(encoded))

	// Element failure names the index.
	_, err = c.Parse(ops, []any{int64(1), "oops"}).Unwrap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1")
}

func TestOptionalCodec(t *testing.T) {
	t.Parallel()

	c := codec.String.Optional()

	v := "hello"
	out := roundTrip(t, c, &v)
	require.NotNil(t, out)
	assert.Equal(t, "hello", *out)

	assert.Nil(t, roundTrip(t, c, nil))
}

func TestPairCodec(t *testing.T) {
	t.Parallel()

	name := codec.String.FieldOf("name").Codec()
	xp := codec.Long.FieldOf("xp").Codec()

	c := codec.PairOf(name, xp)

	out := roundTrip(t, c, codec.MakePair("Ada", int64(5)))
	assert.Equal(t, "Ada", out.First)
	assert.Equal(t, int64(5), out.Second)

	encoded, err := c.EncodeStart(ops, codec.MakePair("Ada", int64(5))).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada", "xp": int64(5)}, encoded)
}

func TestEitherCodecIsLeftBiased(t *testing.T) {
	t.Parallel()

	c := codec.EitherOf(codec.Long, codec.String)

	out := roundTrip(t, c, codec.Left[int64, string](7))
	l, isLeft := out.Left()
	assert.True(t, isLeft)
	assert.Equal(t, int64(7), l)

	out = roundTrip(t, c, codec.Right[int64]("s"))
	r, isRight := out.Right()
	assert.True(t, isRight)
	assert.Equal(t, "s", r)
}

func TestOrElse(t *testing.T) {
	t.Parallel()

	// Numbers written as longs, but legacy documents carry strings.
	legacy := codec.FlatXmap(codec.String,
		func(s string) result.Result[int64] { return result.Success(int64(len(s))) },
		func(int64) result.Result[string] { return result.Errorf[string]("never encode legacy") })

	c := codec.Long.OrElse(legacy)

	out, err := c.Parse(ops, ops.CreateLong(5)).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, int64(5), out)

	out, err = c.Parse(ops, ops.CreateString("abc")).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, int64(3), out)
}

func TestWithErrorContext(t *testing.T) {
	t.Parallel()

	c := codec.Long.WithErrorContext("player xp")

	_, err := c.Parse(ops, ops.CreateString("no")).Unwrap()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "player xp: "), err.Error())
}

func TestUnit(t *testing.T) {
	t.Parallel()

	c := codec.Unit(int64(42))

	encoded, err := c.EncodeStart(ops, 7).Unwrap()
	require.NoError(t, err)
	assert.Nil(t, encoded, "unit encodes to the untouched empty prefix")

	out, err := c.Parse(ops, ops.CreateString("anything")).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, int64(42), out)
}

func TestPassthroughCarriesAnyShape(t *testing.T) {
	t.Parallel()

	for _, v := range []any{int64(1), "s", []any{true}, map[string]any{"k": nil}} {
		encoded, err := codec.Passthrough.EncodeStart(ops, v).Unwrap()
		require.NoError(t, err)

		out, err := codec.Passthrough.Parse(ops, encoded).Unwrap()
		require.NoError(t, err)
		assert.True(t, dyn.Equal(ops, v, out))
	}
}
