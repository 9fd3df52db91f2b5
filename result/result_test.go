package result_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/datafix/result"
)

func TestSuccess(t *testing.T) {
	t.Parallel()

	r := result.Success(42)

	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsError())
	assert.False(t, r.IsPartial())
	assert.Empty(t, r.Message())

	v, err := r.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestError(t *testing.T) {
	t.Parallel()

	r := result.Errorf[int]("bad value: %d", 7)

	assert.True(t, r.IsError())
	assert.Equal(t, "bad value: 7", r.Message())
	assert.Equal(t, -1, r.ValueOr(-1))

	_, err := r.Unwrap()
	require.Error(t, err)
}

func TestErrorMessageIsLazy(t *testing.T) {
	t.Parallel()

	called := false

	r := result.Error[int](func() string {
		called = true

		return "expensive"
	})

	// Variant checks and value extraction must not render the message.
	_ = r.IsError()
	_ = r.ValueOr(0)
	_, _ = r.Partial()

	assert.False(t, called)

	_ = r.Message()

	assert.True(t, called)
}

func TestPartialSuccess(t *testing.T) {
	t.Parallel()

	r := result.PartialSuccess("fallback")

	assert.True(t, r.IsSuccess())
	assert.True(t, r.IsPartial())
}

func TestPartialError(t *testing.T) {
	t.Parallel()

	r := result.PartialError(func() string { return "broken" }, 99)

	assert.True(t, r.IsError())

	v, ok := r.Partial()
	assert.True(t, ok)
	assert.Equal(t, 99, v)
}

func TestMapErrorPreservesPartial(t *testing.T) {
	t.Parallel()

	r := result.PartialError(func() string { return "inner" }, 7).MapError("ctx")

	assert.Equal(t, "ctx: inner", r.Message())

	v, ok := r.Partial()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestOrElse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		first  result.Result[int]
		second result.Result[int]
		want   int
	}{
		"first success wins": {
			first:  result.Success(1),
			second: result.Success(2),
			want:   1,
		},
		"error falls back": {
			first:  result.Errorf[int]("nope"),
			second: result.Success(2),
			want:   2,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v, err := tc.first.OrElse(tc.second).Unwrap()
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestFlatMapShortCircuits(t *testing.T) {
	t.Parallel()

	called := false

	out := result.FlatMap(result.Errorf[int]("nope"), func(int) result.Result[string] {
		called = true

		return result.Success("unreachable")
	})

	assert.True(t, out.IsError())
	assert.False(t, called)
}

func TestFlatMapPropagatesPartial(t *testing.T) {
	t.Parallel()

	out := result.FlatMap(result.PartialSuccess(1), func(v int) result.Result[int] {
		return result.Success(v + 1)
	})

	assert.True(t, out.IsPartial())
	assert.Equal(t, 2, out.ValueOr(0))
}

func TestResultLaws(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("map identity", prop.ForAll(
		func(v int) bool {
			r := result.Success(v)
			mapped := result.Map(r, func(x int) int { return x })

			return mapped.ValueOr(-1) == r.ValueOr(-1) && mapped.IsPartial() == r.IsPartial()
		},
		gen.Int(),
	))

	properties.Property("flatMap with Success is identity", prop.ForAll(
		func(v int) bool {
			out := result.FlatMap(result.Success(v), result.Success[int])

			return out.ValueOr(-1) == v
		},
		gen.Int(),
	))

	properties.Property("map composes", prop.ForAll(
		func(v int) bool {
			f := func(x int) int { return x * 2 }
			g := func(x int) int { return x + 3 }

			lhs := result.Map(result.Map(result.Success(v), f), g)
			rhs := result.Map(result.Success(v), func(x int) int { return g(f(x)) })

			return lhs.ValueOr(-1) == rhs.ValueOr(-1)
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}
