// Package tomlops implements [dyn.Ops] for TOML documents.
//
// It shares the native value model of
// [go.jacobcolvin.com/datafix/dyn/jsonops] and binds it to TOML text with
// BurntSushi/toml. TOML has no null, so the empty element cannot appear in
// marshaled output; [Marshal] drops map entries bound to it. A TOML
// document is always a table, so [Marshal] rejects top-level non-maps.
package tomlops

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/dyn/jsonops"
)

// Default is the stateless ops singleton.
var Default dyn.Ops = &Ops{}

// Ops implements [dyn.Ops] for the TOML value model.
type Ops struct {
	jsonops.Ops
}

// WithWarnings returns an Ops that reports dropped map entries and other
// silent repairs to warn.
func WithWarnings(warn func(msg string)) *Ops {
	return &Ops{Ops: *jsonops.WithWarnings(warn)}
}

// Name implements [dyn.Ops].
func (o *Ops) Name() string { return "toml" }

// Parse decodes TOML text into the value model. TOML datetimes are
// rendered as RFC 3339 strings; the model has no richer representation
// for them.
func Parse(data []byte) (any, error) {
	var raw map[string]any

	err := toml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing toml: %w", err)
	}

	return normalize(raw), nil
}

// Marshal encodes a model value as TOML text. The value must be a map;
// entries bound to the empty element are dropped.
func Marshal(v any) ([]byte, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("marshaling toml: top-level value must be a table, got %T", v)
	}

	var buf bytes.Buffer

	err := toml.NewEncoder(&buf).Encode(stripNulls(m))
	if err != nil {
		return nil, fmt.Errorf("marshaling toml: %w", err)
	}

	return buf.Bytes(), nil
}

// normalize rewrites a decoded TOML tree into the shared value model.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case toml.Primitive:
		return nil
	case []any:
		out := make([]any, len(x))

		for i, item := range x {
			out[i] = normalize(item)
		}

		return out
	case []map[string]any:
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
	}

	return v
}

// stripNulls removes entries bound to nil, which TOML cannot express.
func stripNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))

	for k, v := range m {
		switch x := v.(type) {
		case nil:
			continue
		case map[string]any:
			out[k] = stripNulls(x)
		case []any:
			items := make([]any, 0, len(x))

			for _, item := range x {
				if inner, ok := item.(map[string]any); ok {
					items = append(items, stripNulls(inner))

					continue
				}

				if item != nil {
					items = append(items, item)
				}
			}

			out[k] = items
		default:
			out[k] = v
		}
	}

	return out
}
