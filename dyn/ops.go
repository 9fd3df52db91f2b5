package dyn

import (
	"iter"

	"go.jacobcolvin.com/datafix/result"
)

// Ops manipulates opaque backend values of some serialization format.
//
// Backend values are passed as any; each implementation documents the
// concrete set of Go types it produces and accepts. Values produced by one
// Ops must only be handed to that same Ops (use [Convert] to move a value
// between formats).
//
// The type predicates (IsMap, IsList, IsString, IsNumber, IsBoolean) must be
// mutually exclusive and complete over every value the implementation
// produces.
//
// All mutating operations (Set, Remove, MergeToList, MergeToMap, MergeMaps)
// are purely functional: they never modify their inputs and return a fresh,
// deep-copied value. Inputs stay safe for concurrent readers after the call.
type Ops interface {
	// Name identifies the ops implementation in diagnostics and errors.
	Name() string

	// Empty returns the canonical no-value element.
	Empty() any
	// EmptyMap returns a fresh empty map value.
	EmptyMap() any
	// EmptyList returns a fresh empty list value.
	EmptyList() any

	IsMap(v any) bool
	IsList(v any) bool
	IsString(v any) bool
	IsNumber(v any) bool
	IsBoolean(v any) bool

	CreateBool(b bool) any
	CreateByte(b int8) any
	CreateShort(s int16) any
	CreateInt(i int32) any
	CreateLong(l int64) any
	CreateFloat(f float32) any
	CreateDouble(d float64) any
	CreateString(s string) any
	// CreateNumeric accepts any Go integer or float value and stores it in
	// the backend's richest matching numeric representation.
	CreateNumeric(n any) any

	// StringValue reads a string primitive.
	StringValue(v any) result.Result[string]
	// BoolValue reads a boolean primitive.
	BoolValue(v any) result.Result[bool]
	// NumberValue reads any numeric primitive as a float64.
	NumberValue(v any) result.Result[float64]
	// LongValue reads a numeric primitive stored in the integral category.
	// Fails on non-numbers and on fractional-category values, whole-valued
	// or not.
	LongValue(v any) result.Result[int64]

	// CreateList materializes a list from a single-use sequence.
	CreateList(items iter.Seq[any]) any
	// ListStream returns the elements of a list as a single-use sequence.
	// Fails when v is not a list.
	ListStream(v any) result.Result[iter.Seq[any]]
	// MergeToList returns list with v appended. The first argument may be
	// Empty, which is treated as an empty list. Fails when it is neither.
	MergeToList(list, v any) result.Result[any]

	// CreateMap materializes a map from a single-use sequence of key/value
	// pairs. Entries whose key is not a string are skipped; a nil value is
	// replaced with Empty.
	CreateMap(entries iter.Seq2[any, any]) any
	// MapEntries returns the entries of a map as a single-use sequence.
	// Fails when v is not a map. Entry order is unspecified.
	MapEntries(v any) result.Result[iter.Seq2[any, any]]
	// MergeToMap returns m with key bound to val. The first argument may be
	// Empty, which is treated as an empty map. Fails when it is neither, or
	// when key is not a string value.
	MergeToMap(m, key, val any) result.Result[any]
	// MergeMaps returns the union of two maps, entries of m2 winning.
	// Either argument may be Empty.
	MergeMaps(m, m2 any) result.Result[any]

	// Get returns the value bound to key. The second return distinguishes
	// an absent key (false) from a key bound to Empty or null (true).
	Get(m any, key string) (any, bool)
	// Set returns v with key bound to newv. When v is not a map it returns
	// a fresh map holding only this binding.
	Set(v any, key string, newv any) any
	// Remove returns v without key. Non-map inputs are returned unchanged.
	Remove(v any, key string) any
	// Has reports whether v is a map containing key.
	Has(v any, key string) bool
}
