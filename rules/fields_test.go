package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/rules"
)

func apply(t *testing.T, r rules.Rule, v any) (any, bool) {
	t.Helper()

	in := typed(v)
	out, ok := r.Rewrite(in.Type, in)

	return value(out), ok
}

func TestRenameField(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.RenameField("playerName", "name"),
		map[string]any{"playerName": "Ada", "xp": int64(5)})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Ada", "xp": int64(5)}, out)

	_, ok = apply(t, rules.RenameField("missing", "name"), map[string]any{"xp": int64(5)})
	assert.False(t, ok)
}

func TestRenameFields(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.RenameFields(map[string]string{"a": "x", "b": "y", "c": "z"}),
		map[string]any{"a": int64(1), "b": int64(2)})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{"x": int64(1), "y": int64(2)}, out)
}

func TestRemoveFields(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.RemoveField("xp"), map[string]any{"xp": int64(5), "name": "Ada"})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Ada"}, out)

	_, ok = apply(t, rules.RemoveField("gone"), map[string]any{"name": "Ada"})
	assert.False(t, ok)

	out, ok = apply(t, rules.RemoveFields("a", "b"), map[string]any{"a": int64(1), "c": int64(3)})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"c": int64(3)}, out)
}

func TestAddField(t *testing.T) {
	t.Parallel()

	defaultLives := func(o dyn.Ops) dyn.Dynamic {
		return dyn.New(o, o.CreateInt(3))
	}

	out, ok := apply(t, rules.AddField(ops, "lives", defaultLives), map[string]any{"name": "Ada"})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Ada", "lives": int64(3)}, out)

	// Existing values are never overwritten.
	_, ok = apply(t, rules.AddField(ops, "lives", defaultLives), map[string]any{"lives": int64(9)})
	assert.False(t, ok)
}

func TestTransformField(t *testing.T) {
	t.Parallel()

	double := rules.TransformField("xp", func(d dyn.Dynamic) dyn.Dynamic {
		n, err := d.AsInt().Unwrap()
		require.NoError(t, err)

		return dyn.New(d.Ops(), d.Ops().CreateLong(n*2))
	})

	out, ok := apply(t, double, map[string]any{"xp": int64(5)})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"xp": int64(10)}, out)
}

func TestPathOperations(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"player": map[string]any{
			"stats": map[string]any{"xp": int64(5)},
		},
	}

	t.Run("transform at path", func(t *testing.T) {
		t.Parallel()

		rule := rules.TransformFieldAt("player.stats.xp", func(d dyn.Dynamic) dyn.Dynamic {
			return dyn.New(d.Ops(), d.Ops().CreateLong(99))
		})

		out, ok := apply(t, rule, doc)
		assert.True(t, ok)
		assert.Equal(t, map[string]any{
			"player": map[string]any{
				"stats": map[string]any{"xp": int64(99)},
			},
		}, out)
	})

	t.Run("missing intermediate declines", func(t *testing.T) {
		t.Parallel()

		rule := rules.TransformFieldAt("player.missing.xp", func(d dyn.Dynamic) dyn.Dynamic {
			return d
		})

		_, ok := apply(t, rule, doc)
		assert.False(t, ok)
	})

	t.Run("rename at path", func(t *testing.T) {
		t.Parallel()

		out, ok := apply(t, rules.RenameFieldAt("player.stats.xp", "experience"), doc)
		assert.True(t, ok)
		assert.Equal(t, map[string]any{
			"player": map[string]any{
				"stats": map[string]any{"experience": int64(5)},
			},
		}, out)
	})

	t.Run("remove at path", func(t *testing.T) {
		t.Parallel()

		out, ok := apply(t, rules.RemoveFieldAt("player.stats.xp"), doc)
		assert.True(t, ok)
		assert.Equal(t, map[string]any{
			"player": map[string]any{
				"stats": map[string]any{},
			},
		}, out)
	})

	t.Run("add at path creates parents", func(t *testing.T) {
		t.Parallel()

		rule := rules.AddFieldAt(ops, "settings.audio.volume", func(o dyn.Ops) dyn.Dynamic {
			return dyn.New(o, o.CreateDouble(0.5))
		})

		out, ok := apply(t, rule, map[string]any{})
		assert.True(t, ok)
		assert.Equal(t, map[string]any{
			"settings": map[string]any{
				"audio": map[string]any{"volume": 0.5},
			},
		}, out)
	})
}

func TestMalformedPathPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { rules.RemoveFieldAt("a..b") })
	assert.Panics(t, func() { rules.RemoveFieldAt("") })
	assert.Panics(t, func() { rules.TransformFieldAt(".a", func(d dyn.Dynamic) dyn.Dynamic { return d }) })
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	segments, err := rules.ParsePath("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, segments)

	_, err = rules.ParsePath("a..b")
	require.Error(t, err)

	_, err = rules.ParsePath("")
	require.Error(t, err)
}

func TestGroupFields(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.GroupFields(ops, "position", "x", "y", "z"),
		map[string]any{"name": "Ada", "x": 1.0, "y": 2.0, "z": 3.0})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{
		"name":     "Ada",
		"position": map[string]any{"x": 1.0, "y": 2.0, "z": 3.0},
	}, out)
}

func TestGroupFieldsSkipsAbsent(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.GroupFields(ops, "position", "x", "y", "z"),
		map[string]any{"x": 1.0})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{"position": map[string]any{"x": 1.0}}, out)
}

func TestGroupFieldsWithNoFieldsMakesEmptySubMap(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.GroupFields(ops, "position"), map[string]any{"name": "Ada"})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Ada", "position": map[string]any{}}, out)
}

func TestFlattenFieldInvertsGroup(t *testing.T) {
	t.Parallel()

	grouped := map[string]any{
		"name":     "Ada",
		"position": map[string]any{"x": 1.0, "y": 2.0},
	}

	out, ok := apply(t, rules.FlattenField("position"), grouped)
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Ada", "x": 1.0, "y": 2.0}, out)
}

func TestMoveField(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.MoveField("a.b", "c.d"),
		map[string]any{"a": map[string]any{"b": int64(1)}})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{
		"a": map[string]any{},
		"c": map[string]any{"d": int64(1)},
	}, out)
}

func TestMoveFieldMissingSourceIsNoOp(t *testing.T) {
	t.Parallel()

	in := map[string]any{"x": int64(1)}

	out, ok := apply(t, rules.MoveField("a.b", "c.d"), in)
	assert.True(t, ok, "missing source is a success, not an error")
	assert.Equal(t, in, out)
}

func TestCopyField(t *testing.T) {
	t.Parallel()

	out, ok := apply(t, rules.CopyField("name", "backup.name"),
		map[string]any{"name": "Ada"})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{
		"name":   "Ada",
		"backup": map[string]any{"name": "Ada"},
	}, out)
}

func TestConditionals(t *testing.T) {
	t.Parallel()

	mark := rules.AddField(ops, "marked", func(o dyn.Ops) dyn.Dynamic {
		return dyn.New(o, o.CreateBool(true))
	})

	t.Run("if exists", func(t *testing.T) {
		t.Parallel()

		_, ok := apply(t, rules.IfFieldExists("name", mark), map[string]any{"other": int64(1)})
		assert.False(t, ok)

		out, ok := apply(t, rules.IfFieldExists("name", mark), map[string]any{"name": "Ada"})
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"name": "Ada", "marked": true}, out)
	})

	t.Run("if missing", func(t *testing.T) {
		t.Parallel()

		_, ok := apply(t, rules.IfFieldMissing("name", mark), map[string]any{"name": "Ada"})
		assert.False(t, ok)
	})

	t.Run("if equals", func(t *testing.T) {
		t.Parallel()

		want := dyn.New(ops, ops.CreateString("legacy"))

		out, ok := apply(t, rules.IfFieldEquals("mode", want, mark),
			map[string]any{"mode": "legacy"})
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"mode": "legacy", "marked": true}, out)

		_, ok = apply(t, rules.IfFieldEquals("mode", want, mark),
			map[string]any{"mode": "modern"})
		assert.False(t, ok)
	})

	t.Run("single-pass forms", func(t *testing.T) {
		t.Parallel()

		d := dyn.New(ops, map[string]any{"name": "Ada"})

		out := rules.ApplyIfFieldExists(d, "name", func(v dyn.Dynamic) dyn.Dynamic {
			return v.Remove("name")
		})
		assert.Equal(t, map[string]any{}, out.Value())

		out = rules.ApplyIfFieldMissing(d, "name", func(dyn.Dynamic) dyn.Dynamic {
			t.Fatal("must not run")

			return d
		})
		assert.Equal(t, d.Value(), out.Value())
	})
}

func TestBatch(t *testing.T) {
	t.Parallel()

	rule := rules.NewBatch().
		Rename("playerName", "name").
		Remove("deprecated").
		Add(ops, "lives", func(o dyn.Ops) dyn.Dynamic {
			return dyn.New(o, o.CreateInt(3))
		}).
		Group(ops, "position", "x", "y").
		Rule("v2-upgrade")

	assert.Equal(t, "v2-upgrade", rule.String())

	out, ok := apply(t, rule, map[string]any{
		"playerName": "Ada",
		"deprecated": true,
		"x":          1.0,
		"y":          2.0,
	})

	assert.True(t, ok)
	assert.Equal(t, map[string]any{
		"name":     "Ada",
		"lives":    int64(3),
		"position": map[string]any{"x": 1.0, "y": 2.0},
	}, out)
}
