// Package types describes the structural shapes of serialized data.
//
// A [Type] is a closed-variant description -- primitive, [List],
// [Optional], [Product], [Sum], [Field], [Named], [Passthrough], or
// [TaggedChoice] -- that derives a validating codec over [dyn.Dynamic]
// payloads, lists its children in order, and renders itself for
// diagnostics via Describe. Rule matching compares types by reference
// equality only: the reference is an identity, not a structure.
//
// [Named] is the one way the DSL forms cycles. It holds a resolver thunk
// rather than a type, so a schema can register mutually recursive types in
// any order; resolution happens lazily at read/write time through the
// current schema.
//
// A [TaggedChoice] models a discriminated union in its common serialized
// form: the tag field and the variant's payload fields share one map.
// Decoding reads the tag, resolves the variant, validates, and hands back
// the whole map as the payload so downstream rules see the tag too.
package types
