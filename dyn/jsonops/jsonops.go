// Package jsonops implements [dyn.Ops] over native Go values with JSON
// semantics.
//
// The value model is nil (the empty element, also JSON null), bool, string,
// int64, float64, []any, and map[string]any. Integral and fractional
// numbers stay distinct in memory; byte, short, int, and long all collapse
// to int64, and float collapses to float64. [Parse] and [Marshal] bind the
// model to JSON text via encoding/json.
package jsonops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/result"
)

// Default is the stateless ops singleton. It drops malformed map keys
// silently; use [WithWarnings] when drops should be observable.
var Default dyn.Ops = &Ops{}

// Ops implements [dyn.Ops] for the JSON value model.
//
// The zero value drops silently; construct with [WithWarnings] to observe
// repairs. Use the same *Ops instance for all values that should compare
// as coming from the same backend.
type Ops struct {
	warn func(msg string)
}

// WithWarnings returns an Ops that reports dropped map entries and other
// silent repairs to warn.
func WithWarnings(warn func(msg string)) *Ops {
	return &Ops{warn: warn}
}

// Name implements [dyn.Ops].
func (o *Ops) Name() string { return "json" }

// Empty implements [dyn.Ops]. The empty element is nil, which also
// represents JSON null.
func (o *Ops) Empty() any { return nil }

// EmptyMap implements [dyn.Ops].
func (o *Ops) EmptyMap() any { return map[string]any{} }

// EmptyList implements [dyn.Ops].
func (o *Ops) EmptyList() any { return []any{} }

// IsMap implements [dyn.Ops].
func (o *Ops) IsMap(v any) bool {
	_, ok := v.(map[string]any)

	return ok
}

// IsList implements [dyn.Ops].
func (o *Ops) IsList(v any) bool {
	_, ok := v.([]any)

	return ok
}

// IsString implements [dyn.Ops].
func (o *Ops) IsString(v any) bool {
	_, ok := v.(string)

	return ok
}

// IsNumber implements [dyn.Ops].
func (o *Ops) IsNumber(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}

	return false
}

// IsBoolean implements [dyn.Ops].
func (o *Ops) IsBoolean(v any) bool {
	_, ok := v.(bool)

	return ok
}

// CreateBool implements [dyn.Ops].
func (o *Ops) CreateBool(b bool) any { return b }

// CreateByte implements [dyn.Ops].
func (o *Ops) CreateByte(b int8) any { return int64(b) }

// CreateShort implements [dyn.Ops].
func (o *Ops) CreateShort(s int16) any { return int64(s) }

// CreateInt implements [dyn.Ops].
func (o *Ops) CreateInt(i int32) any { return int64(i) }

// CreateLong implements [dyn.Ops].
func (o *Ops) CreateLong(l int64) any { return l }

// CreateFloat implements [dyn.Ops].
func (o *Ops) CreateFloat(f float32) any { return float64(f) }

// CreateDouble implements [dyn.Ops].
func (o *Ops) CreateDouble(d float64) any { return d }

// CreateString implements [dyn.Ops].
func (o *Ops) CreateString(s string) any { return s }

// CreateNumeric implements [dyn.Ops]. It accepts any Go integer or float
// and normalizes into the int64/float64 model. Anything else becomes the
// empty element.
func (o *Ops) CreateNumeric(n any) any {
	switch x := n.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
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
	case float64:
		return x
	case json.Number:
		return normalizeNumber(x)
	}

	o.warnf("create numeric: unsupported %T dropped", n)

	return nil
}

// StringValue implements [dyn.Ops].
func (o *Ops) StringValue(v any) result.Result[string] {
	if s, ok := v.(string); ok {
		return result.Success(s)
	}

	return result.Errorf[string]("not a string: %v", typeName(v))
}

// BoolValue implements [dyn.Ops].
func (o *Ops) BoolValue(v any) result.Result[bool] {
	if b, ok := v.(bool); ok {
		return result.Success(b)
	}

	return result.Errorf[bool]("not a boolean: %v", typeName(v))
}

// NumberValue implements [dyn.Ops].
func (o *Ops) NumberValue(v any) result.Result[float64] {
	switch x := v.(type) {
	case int64:
		return result.Success(float64(x))
	case float64:
		return result.Success(x)
	}

	return result.Errorf[float64]("not a number: %v", typeName(v))
}

// LongValue implements [dyn.Ops]. Only values stored in the integral
// category succeed; a float64 holding a whole number is still fractional
// and fails, which keeps the two categories distinct across conversion.
func (o *Ops) LongValue(v any) result.Result[int64] {
	if l, ok := v.(int64); ok {
		return result.Success(l)
	}

	return result.Errorf[int64]("not an integral number: %v", typeName(v))
}

// CreateList implements [dyn.Ops].
func (o *Ops) CreateList(items iter.Seq[any]) any {
	out := []any{}

	for item := range items {
		out = append(out, item)
	}

	return out
}

// ListStream implements [dyn.Ops].
func (o *Ops) ListStream(v any) result.Result[iter.Seq[any]] {
	list, ok := v.([]any)
	if !ok {
		return result.Errorf[iter.Seq[any]]("not a list: %v", typeName(v))
	}

	return result.Success[iter.Seq[any]](func(yield func(any) bool) {
		for _, item := range list {
			if !yield(item) {
				return
			}
		}
	})
}

// MergeToList implements [dyn.Ops].
func (o *Ops) MergeToList(list, v any) result.Result[any] {
	switch l := list.(type) {
	case nil:
		return result.Success[any]([]any{v})
	case []any:
		out := make([]any, len(l), len(l)+1)
		copy(out, l)

		return result.Success[any](append(out, v))
	}

	return result.Errorf[any]("merge to list: not a list: %v", typeName(list))
}

// CreateMap implements [dyn.Ops]. Entries with a non-string key are
// skipped; a nil value is kept as the empty element.
func (o *Ops) CreateMap(entries iter.Seq2[any, any]) any {
	out := map[string]any{}

	for k, v := range entries {
		key, ok := k.(string)
		if !ok {
			o.warnf("create map: dropped entry with %v key", typeName(k))

			continue
		}

		out[key] = v
	}

	return out
}

// MapEntries implements [dyn.Ops].
func (o *Ops) MapEntries(v any) result.Result[iter.Seq2[any, any]] {
	m, ok := v.(map[string]any)
	if !ok {
		return result.Errorf[iter.Seq2[any, any]]("not a map: %v", typeName(v))
	}

	return result.Success[iter.Seq2[any, any]](func(yield func(any, any) bool) {
		for k, val := range m {
			if !yield(k, val) {
				return
			}
		}
	})
}

// MergeToMap implements [dyn.Ops].
func (o *Ops) MergeToMap(m, key, val any) result.Result[any] {
	k, ok := key.(string)
	if !ok {
		return result.Errorf[any]("merge to map: key is not a string: %v", typeName(key))
	}

	switch base := m.(type) {
	case nil:
		return result.Success[any](map[string]any{k: val})
	case map[string]any:
		out := copyMap(base)
		out[k] = val

		return result.Success[any](out)
	}

	return result.Errorf[any]("merge to map: not a map: %v", typeName(m))
}

// MergeMaps implements [dyn.Ops].
func (o *Ops) MergeMaps(m, m2 any) result.Result[any] {
	if m == nil {
		m = map[string]any{}
	}

	if m2 == nil {
		m2 = map[string]any{}
	}

	base, ok := m.(map[string]any)
	if !ok {
		return result.Errorf[any]("merge maps: not a map: %v", typeName(m))
	}

	overlay, ok := m2.(map[string]any)
	if !ok {
		return result.Errorf[any]("merge maps: not a map: %v", typeName(m2))
	}

	out := copyMap(base)

	for k, v := range overlay {
		out[k] = v
	}

	return result.Success[any](out)
}

// Get implements [dyn.Ops].
func (o *Ops) Get(m any, key string) (any, bool) {
	base, ok := m.(map[string]any)
	if !ok {
		return nil, false
	}

	v, ok := base[key]

	return v, ok
}

// Set implements [dyn.Ops].
func (o *Ops) Set(v any, key string, newv any) any {
	base, ok := v.(map[string]any)
	if !ok {
		return map[string]any{key: newv}
	}

	out := copyMap(base)
	out[key] = newv

	return out
}

// Remove implements [dyn.Ops].
func (o *Ops) Remove(v any, key string) any {
	base, ok := v.(map[string]any)
	if !ok {
		return v
	}

	if _, present := base[key]; !present {
		return v
	}

	out := copyMap(base)
	delete(out, key)

	return out
}

// Has implements [dyn.Ops].
func (o *Ops) Has(v any, key string) bool {
	base, ok := v.(map[string]any)
	if !ok {
		return false
	}

	_, present := base[key]

	return present
}

func (o *Ops) warnf(format string, args ...any) {
	if o.warn != nil {
		o.warn(fmt.Sprintf(format, args...))
	}
}

// copyMap shallow-copies the top level. Values below it are never mutated
// in place by this package, so sharing them is safe.
func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)

	for k, v := range m {
		out[k] = v
	}

	return out
}

// typeName describes a value's dynamic type for error messages.
func typeName(v any) string {
	if v == nil {
		return "empty"
	}

	return fmt.Sprintf("%T(%v)", v, v)
}

// Parse decodes JSON text into the value model. Numbers without a
// fractional part become int64; all others become float64.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any

	err := dec.Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}

	return normalize(raw), nil
}

// Marshal encodes a model value as indented JSON text.
func Marshal(v any, indent int) ([]byte, error) {
	prefix := ""

	for range indent {
		prefix += " "
	}

	out, err := json.MarshalIndent(v, "", prefix)
	if err != nil {
		return nil, fmt.Errorf("marshaling json: %w", err)
	}

	return append(out, '\n'), nil
}

// normalize rewrites a decoded JSON tree into the value model.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		return normalizeNumber(x)
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
	}

	return v
}

func normalizeNumber(n json.Number) any {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i
	}

	f, err := n.Float64()
	if err != nil {
		return nil
	}

	return f
}
