// Package rules provides the rewrite-rule combinator language that data
// fixes are written in.
//
// A [Rule] is a partial function over typed values: it either matches and
// produces a new value, or declines. Rules never modify their inputs.
// Composition follows the partial-function algebra -- [Rule.AndThen]
// short-circuits on a non-match, [Rule.OrElse] falls back, [Rule.OrKeep]
// makes a rule total -- and [Seq], [SeqAll], and [Choice] extend the same
// algebra over rule lists.
//
// Traversal combinators ([All], [One], [Everywhere], [BottomUp], [TopDown])
// push a rule across the structure of a dynamic value. Path-based field
// operations ([RenameField], [AddField], [MoveField], [GroupFields], and
// friends) are the workhorses of real-world fixes; the ...At variants
// address nested fields with dotted paths ("a.b.c"), parsed once and
// interned. A malformed path (empty, or with an empty segment) is a
// contract violation and panics at rule construction.
//
// [Batch] builds one rule out of many field operations, applied to the
// root map in order.
//
// [Log] wraps any rule to report each rewrite attempt and its outcome
// through slog.
package rules
