package codec_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/datafix/codec"
)

type player struct {
	Name     string
	XP       int64
	Nickname *string
	Admin    bool
}

func playerCodec() codec.Codec[player] {
	return codec.Record4(
		codec.WithGetter(codec.String.FieldOf("name"), func(p player) string { return p.Name }),
		codec.WithGetter(codec.OptionalFieldOf(codec.Long, "xp", 0), func(p player) int64 { return p.XP }),
		codec.WithGetter(codec.String.OptionalFieldOf("nickname"), func(p player) *string { return p.Nickname }),
		codec.WithGetter(codec.OptionalFieldOf(codec.Bool, "admin", false), func(p player) bool { return p.Admin }),
		func(name string, xp int64, nickname *string, admin bool) player {
			return player{Name: name, XP: xp, Nickname: nickname, Admin: admin}
		},
	)
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	nick := "ada86"

	tcs := map[string]player{
		"all fields":      {Name: "Ada", XP: 5, Nickname: &nick, Admin: true},
		"defaults":        {Name: "Bob"},
		"zero xp omitted": {Name: "Eve", XP: 0, Admin: true},
	}

	for name, p := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := roundTrip(t, playerCodec(), p)
			assert.Equal(t, p, out)
		})
	}
}

func TestRecordEncodeShape(t *testing.T) {
	t.Parallel()

	encoded, err := playerCodec().EncodeStart(ops, player{Name: "Ada", XP: 5}).Unwrap()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Ada", "xp": int64(5)}, encoded,
		"defaulted and absent optionals are omitted")
}

func TestRecordMissingRequiredField(t *testing.T) {
	t.Parallel()

	_, err := playerCodec().Parse(ops, map[string]any{"xp": int64(5)}).Unwrap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestRecordMalformedOptionalFieldIsError(t *testing.T) {
	t.Parallel()

	_, err := playerCodec().Parse(ops, map[string]any{"name": "Ada", "xp": "not a number"}).Unwrap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xp")
}

func TestRecordRejectsNonMap(t *testing.T) {
	t.Parallel()

	_, err := playerCodec().Parse(ops, ops.CreateString("nope")).Unwrap()
	require.Error(t, err)
}

func TestOptionalFieldDefaultLaw(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	const def = int64(10)

	field := codec.OptionalFieldOf(codec.Long, "lives", def)

	properties.Property("value equal to default is omitted on encode", prop.ForAll(
		func(v int64) bool {
			m, err := field.EncodeInto(ops, v, ops.EmptyMap()).Unwrap()
			if err != nil {
				return false
			}

			if v == def {
				return !ops.Has(m, "lives")
			}

			return ops.Has(m, "lives")
		},
		gen.Int64Range(0, 20),
	))

	properties.Property("missing field decodes to default", prop.ForAll(
		func(other int64) bool {
			m := ops.Set(ops.EmptyMap(), "unrelated", ops.CreateLong(other))

			out := field.DecodeFrom(ops, m)

			return out.ValueOr(-1) == def && out.IsPartial()
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestIdempotentEncoding(t *testing.T) {
	t.Parallel()

	c := playerCodec()
	p := player{Name: "Ada", XP: 7}

	first, err := c.EncodeStart(ops, p).Unwrap()
	require.NoError(t, err)

	reparsed, err := c.Parse(ops, first).Unwrap()
	require.NoError(t, err)

	second, err := c.EncodeStart(ops, reparsed).Unwrap()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMapCodecXmapField(t *testing.T) {
	t.Parallel()

	// Store a bitmask as a long field, expose it as a pair of bools.
	mask := codec.XmapField(codec.Long.FieldOf("mask"),
		func(v int64) [2]bool { return [2]bool{v&1 != 0, v&2 != 0} },
		func(v [2]bool) int64 {
			var out int64
			if v[0] {
				out |= 1
			}
			if v[1] {
				out |= 2
			}

			return out
		})

	m, err := mask.EncodeInto(ops, [2]bool{true, false}, ops.EmptyMap()).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mask": int64(1)}, m)

	out, err := mask.DecodeFrom(ops, m).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, [2]bool{true, false}, out)
}
