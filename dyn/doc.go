// Package dyn defines the format-agnostic contract for navigating and
// rewriting serialized data.
//
// An [Ops] reads, builds, and rewrites the primitive, list, and map shapes
// of one concrete serialization backend. Backend values are opaque to
// callers; the only lawful way to inspect or change one is through its Ops.
// A [Dynamic] bundles a value with its Ops into a navigable pointer, which
// is the carrier type the migration engine and the rewrite rules operate on.
//
// # Purity
//
// Immutability is a contract, not an optimization. Every Ops mutator
// returns a fresh value built from deep copies; holding the input across
// the call is always safe, including from other goroutines. Implementations
// backed by mutable structures must copy before writing.
//
// # Streams
//
// List and map contents flow as single-use [iter.Seq] sequences. The
// library consumes each sequence exactly once; implementations need not
// support restarting, and callers who need to read twice must materialize
// first.
//
// # Conversion
//
// [Convert] moves a value between backends by structural rebuild. Probes run
// in a fixed order -- boolean, number, string, list, map -- and anything
// matching no probe becomes the destination's empty element rather than an
// error. The boolean probe runs before the number probe so that formats
// encoding booleans as 0/1 keep them boolean.
//
// Implementations for JSON, YAML, and TOML documents live in the jsonops,
// yamlops, and tomlops subpackages.
package dyn
