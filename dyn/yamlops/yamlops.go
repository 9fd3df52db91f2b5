// Package yamlops implements [dyn.Ops] for YAML documents.
//
// It shares the native value model of
// [go.jacobcolvin.com/datafix/dyn/jsonops] -- nil, bool, string, int64,
// float64, []any, map[string]any -- and binds it to YAML text with
// goccy/go-yaml. YAML-only constructs collapse on parse: anchors and
// aliases are resolved, non-string mapping keys are rendered to strings,
// and all integer widths collapse to int64.
package yamlops

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/dyn/jsonops"
)

// Default is the stateless ops singleton.
var Default dyn.Ops = &Ops{}

// Ops implements [dyn.Ops] for the YAML value model. It reuses the jsonops
// behavior wholesale; only the name and the text binding differ.
type Ops struct {
	jsonops.Ops
}

// WithWarnings returns an Ops that reports dropped map entries and other
// silent repairs to warn.
func WithWarnings(warn func(msg string)) *Ops {
	return &Ops{Ops: *jsonops.WithWarnings(warn)}
}

// Name implements [dyn.Ops].
func (o *Ops) Name() string { return "yaml" }

// Parse decodes YAML text into the value model.
func Parse(data []byte) (any, error) {
	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	return normalize(raw), nil
}

// Marshal encodes a model value as YAML text.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling yaml: %w", err)
	}

	return out, nil
}

// normalize rewrites a decoded YAML tree into the shared value model.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []any:
		out := make([]any, len(x))

		for i, item := range x {
			out[i] = normalize(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(x))

		for k, val := range x {
			out[k] = normalize(val)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(x))

		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}

		return out
	}

	return v
}
