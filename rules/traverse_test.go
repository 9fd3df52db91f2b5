package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/rules"
	"go.jacobcolvin.com/datafix/types"
)

// incrementNumbers matches numeric payloads and adds one.
func incrementNumbers() rules.Rule {
	return rules.New("increment", func(_ types.Type, v types.Typed) (types.Typed, bool) {
		n, err := v.Value.AsInt().Unwrap()
		if err != nil {
			return v, false
		}

		return types.Typed{
			Type:  v.Type,
			Value: dyn.New(v.Value.Ops(), v.Value.Ops().CreateLong(n + 1)),
		}, true
	})
}

func TestAllAppliesToDirectChildren(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.All(ops, incrementNumbers()), map[string]any{
		"a":      int64(1),
		"b":      int64(2),
		"s":      "skip",
		"nested": map[string]any{"deep": int64(9)},
	})

	assert.True(t, ok, "all always matches")
	assert.Equal(t, map[string]any{
		"a":      int64(2),
		"b":      int64(3),
		"s":      "skip",
		"nested": map[string]any{"deep": int64(9)},
	}, out, "only direct children are touched")
}

func TestAllOnLeafMatchesTrivially(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.All(ops, incrementNumbers()), "leaf")
	assert.True(t, ok)
	assert.Equal(t, "leaf", out)
}

func TestOneStopsAtFirstMatch(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.One(ops, incrementNumbers()), map[string]any{
		"a": int64(1),
		"b": int64(1),
	})

	assert.True(t, ok)

	m, isMap := out.(map[string]any)
	assert.True(t, isMap)

	// Exactly one child changed; map children visit in sorted key order.
	assert.Equal(t, int64(2), m["a"])
	assert.Equal(t, int64(1), m["b"])
}

func TestOneDeclinesWithoutMatch(t *testing.T) {
	t.Parallel()

	_, ok := apply(t, rules.One(ops, incrementNumbers()), map[string]any{"s": "text"})
	assert.False(t, ok)
}

func TestEverywhereReachesAllLevels(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.Everywhere(ops, incrementNumbers()), map[string]any{
		"top": int64(1),
		"nested": map[string]any{
			"mid":  int64(2),
			"list": []any{int64(3), "s", map[string]any{"deep": int64(4)}},
		},
	})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{
		"top": int64(2),
		"nested": map[string]any{
			"mid":  int64(3),
			"list": []any{int64(4), "s", map[string]any{"deep": int64(5)}},
		},
	}, out)
}

func TestBottomUpVersusTopDown(t *testing.T) {
	t.Parallel()

	// record matches every map, returns it unchanged, and notes the visit;
	// single-pass traversals visit each map exactly once and terminate.
	var order []string

	record := func(label string) rules.Rule {
		return rules.New(label, func(_ types.Type, v types.Typed) (types.Typed, bool) {
			if _, err := v.Value.Entries().Unwrap(); err == nil {
				order = append(order, label+":map")

				return v, true
			}

			return v, false
		})
	}

	doc := map[string]any{"child": map[string]any{}}

	_, ok := apply(t, rules.BottomUp(ops, record("bu")), doc)
	assert.True(t, ok)

	_, ok = apply(t, rules.TopDown(ops, record("td")), doc)
	assert.True(t, ok)

	// Two maps visited by each traversal.
	assert.Len(t, order, 4)
}

func TestTraversalDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := map[string]any{"a": int64(1), "nested": map[string]any{"b": int64(2)}}

	out, _ := apply(t, rules.Everywhere(ops, incrementNumbers()), in)

	assert.Equal(t, map[string]any{"a": int64(1), "nested": map[string]any{"b": int64(2)}}, in)
	assert.NotEqual(t, in, out)
}
