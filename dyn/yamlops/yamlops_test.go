package yamlops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/dyn/jsonops"
	"go.jacobcolvin.com/datafix/dyn/yamlops"
	"go.jacobcolvin.com/datafix/stringtest"
)

func TestParseNormalizesToSharedModel(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"name: Ada",
		"xp: 5",
		"score: 2.5",
		"active: true",
		"tags:",
		"  - a",
		"  - b",
		"nested:",
		"  depth: 1",
		"",
	)

	v, err := yamlops.Parse([]byte(input))
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "Ada", m["name"])
	assert.Equal(t, int64(5), m["xp"])
	assert.Equal(t, 2.5, m["score"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, []any{"a", "b"}, m["tags"])
	assert.Equal(t, map[string]any{"depth": int64(1)}, m["nested"])
}

func TestParseMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	input := []byte("a: 1\nb:\n  c: text\nd: [true, 2.5]\n")

	v, err := yamlops.Parse(input)
	require.NoError(t, err)

	out, err := yamlops.Marshal(v)
	require.NoError(t, err)

	back, err := yamlops.Parse(out)
	require.NoError(t, err)

	assert.True(t, dyn.Equal(yamlops.Default, v, back))
}

func TestConvertFromJSON(t *testing.T) {
	t.Parallel()

	v, err := jsonops.Parse([]byte(`{"a": 1, "b": [true, "s"]}`))
	require.NoError(t, err)

	converted := dyn.Convert(jsonops.Default, yamlops.Default, v)

	assert.True(t, dyn.Equal(yamlops.Default, v, converted),
		"shared value model makes conversion structure-preserving")
}

func TestOpsName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "yaml", yamlops.Default.Name())
	assert.Equal(t, "json", jsonops.Default.Name())
}
