// Package fixer is the migration engine and its façade.
//
// A [Fix] transforms documents of one type between two schema versions.
// The [FixRegistry] groups fixes by type reference in registration order,
// which is the order the engine applies them in -- deterministic and
// reproducible across calls and across goroutines. [NewFixer] runs the
// embedding application's [Bootstrap] callbacks (schemas first, then
// fixes) and freezes both registries; everything after that point is
// immutable and safe for unbounded concurrent use.
//
// # The update algorithm
//
// [Fixer.UpdateDynamic] validates the version range against the current
// version, short-circuits when from equals to, selects the fixes whose
// range intersects the request, skips those extending outside it, and
// applies the rest in order. A fix error aborts the chain immediately,
// wrapped in a [FixError] carrying the fix name, the version range, and
// the type reference; an error that already is a FixError propagates
// unchanged. There are no retries.
//
// Expected decode/encode failures surface as errors from [Fixer.Encode]
// and [Fixer.Decode]; contract violations (inverted ranges, unknown
// versions or types, a fix returning no document) are plain errors from
// the façade because the caller, not the data, is broken.
//
// # Diagnostics
//
// Passing a [diag.Context] to an update records migration and per-fix
// timings, and -- when the context enables rule details -- every rule
// rewrite attempt with its match outcome. Rule-based fixes (see
// [FromRule] and [Builder]) are instrumented once at the engine boundary.
// Snapshot rendering is the caller's responsibility via
// [diag.WithSnapshots]; the engine stores the returned strings as-is.
package fixer
