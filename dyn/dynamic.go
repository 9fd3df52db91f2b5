package dyn

import (
	"iter"

	"go.jacobcolvin.com/datafix/result"
)

// Dynamic pairs a backend value with the [Ops] that understands it.
//
// It is an immutable shell: every navigation or mutation method returns a
// new Dynamic and leaves the receiver untouched. The ops is shared for the
// life of the program; the value flows by ownership through the purely
// functional Ops transforms.
type Dynamic struct {
	ops   Ops
	value any
}

// New wraps value with ops.
func New(ops Ops, value any) Dynamic {
	return Dynamic{ops: ops, value: value}
}

// NewEmpty wraps ops.Empty().
func NewEmpty(ops Ops) Dynamic {
	return Dynamic{ops: ops, value: ops.Empty()}
}

// Ops returns the ops this Dynamic navigates with.
func (d Dynamic) Ops() Ops {
	return d.ops
}

// Value returns the raw backend value.
func (d Dynamic) Value() any {
	return d.value
}

// IsEmpty reports whether the value is the ops' canonical no-value element.
func (d Dynamic) IsEmpty() bool {
	return Equal(d.ops, d.value, d.ops.Empty())
}

// Get returns the value bound to key. The second return distinguishes an
// absent key from a key bound to the empty element.
func (d Dynamic) Get(key string) (Dynamic, bool) {
	v, ok := d.ops.Get(d.value, key)
	if !ok {
		return Dynamic{}, false
	}

	return Dynamic{ops: d.ops, value: v}, true
}

// GetOrEmpty returns the value bound to key, or the empty element when the
// key is absent.
func (d Dynamic) GetOrEmpty(key string) Dynamic {
	if v, ok := d.Get(key); ok {
		return v
	}

	return NewEmpty(d.ops)
}

// Set returns a copy of d with key bound to val's value.
func (d Dynamic) Set(key string, val Dynamic) Dynamic {
	return Dynamic{ops: d.ops, value: d.ops.Set(d.value, key, val.value)}
}

// SetValue returns a copy of d with key bound to the raw backend value v.
func (d Dynamic) SetValue(key string, v any) Dynamic {
	return Dynamic{ops: d.ops, value: d.ops.Set(d.value, key, v)}
}

// Remove returns a copy of d without key.
func (d Dynamic) Remove(key string) Dynamic {
	return Dynamic{ops: d.ops, value: d.ops.Remove(d.value, key)}
}

// Has reports whether d is a map containing key.
func (d Dynamic) Has(key string) bool {
	return d.ops.Has(d.value, key)
}

// Update applies f to the value bound to key and binds the outcome back.
// When the key is absent, f receives the empty element.
func (d Dynamic) Update(key string, f func(Dynamic) Dynamic) Dynamic {
	return d.Set(key, f(d.GetOrEmpty(key)))
}

// AsString reads the value as a string primitive.
func (d Dynamic) AsString() result.Result[string] {
	return d.ops.StringValue(d.value)
}

// AsBool reads the value as a boolean primitive.
func (d Dynamic) AsBool() result.Result[bool] {
	return d.ops.BoolValue(d.value)
}

// AsFloat reads the value as a float64.
func (d Dynamic) AsFloat() result.Result[float64] {
	return d.ops.NumberValue(d.value)
}

// AsInt reads the value as an integral int64.
func (d Dynamic) AsInt() result.Result[int64] {
	return d.ops.LongValue(d.value)
}

// AsList reads the value as a list of Dynamics.
func (d Dynamic) AsList() result.Result[[]Dynamic] {
	return result.Map(d.ops.ListStream(d.value), func(items iter.Seq[any]) []Dynamic {
		var out []Dynamic

		for item := range items {
			out = append(out, Dynamic{ops: d.ops, value: item})
		}

		return out
	})
}

// Entries reads the value as map entries with string keys. Entries whose
// key is not a string are dropped.
func (d Dynamic) Entries() result.Result[map[string]Dynamic] {
	return result.Map(d.ops.MapEntries(d.value), func(entries iter.Seq2[any, any]) map[string]Dynamic {
		out := map[string]Dynamic{}

		for k, v := range entries {
			key, err := d.ops.StringValue(k).Unwrap()
			if err != nil {
				continue
			}

			out[key] = Dynamic{ops: d.ops, value: v}
		}

		return out
	})
}

// Convert rebuilds the value with other's constructors.
func (d Dynamic) Convert(other Ops) Dynamic {
	return Dynamic{ops: other, value: Convert(d.ops, other, d.value)}
}

// Equal reports structural equality with other, converting other's value
// into d's ops first when the two differ.
func (d Dynamic) Equal(other Dynamic) bool {
	v := other.value
	if other.ops != d.ops {
		v = Convert(other.ops, d.ops, v)
	}

	return Equal(d.ops, d.value, v)
}
