package fixer

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the fix registry and the engine.
var (
	ErrFrozen          = errors.New("fix registry is frozen")
	ErrBadVersionRange = errors.New("bad version range")
	ErrNilFixResult    = errors.New("fix returned no document")
)

// FixRegistry groups fixes by type reference in registration order. The
// order is load-bearing: the engine applies fixes in exactly this order,
// and callers rely on it for deterministic chaining.
//
// The registry is mutable during bootstrap and sealed with
// [FixRegistry.Freeze]; registration afterwards is a contract violation.
type FixRegistry struct {
	byType map[string][]Fix
	frozen bool
}

// NewFixRegistry creates an empty, unfrozen registry.
func NewFixRegistry() *FixRegistry {
	return &FixRegistry{byType: map[string][]Fix{}}
}

// Register appends a fix for a type. The fix's version range must be
// non-inverted.
func (r *FixRegistry) Register(typeRef string, fix Fix) error {
	if r.frozen {
		return fmt.Errorf("%w: cannot register fix %s", ErrFrozen, fix.Name())
	}

	if fix.FromVersion() > fix.ToVersion() {
		return fmt.Errorf("%w: fix %s has fromVersion %d > toVersion %d",
			ErrBadVersionRange, fix.Name(), fix.FromVersion(), fix.ToVersion())
	}

	r.byType[typeRef] = append(r.byType[typeRef], fix)

	return nil
}

// Freeze validates and seals the registry. Within each type, registered
// fixes must not invert version order: a fix may not start before the
// previous one does.
func (r *FixRegistry) Freeze() error {
	for typeRef, fixes := range r.byType {
		for i := 1; i < len(fixes); i++ {
			if fixes[i].FromVersion() < fixes[i-1].FromVersion() {
				return fmt.Errorf("%w: type %s: fix %s (from %d) registered after fix %s (from %d)",
					ErrBadVersionRange, typeRef,
					fixes[i].Name(), fixes[i].FromVersion(),
					fixes[i-1].Name(), fixes[i-1].FromVersion())
			}
		}
	}

	r.frozen = true

	return nil
}

// Frozen reports whether the registry is sealed.
func (r *FixRegistry) Frozen() bool {
	return r.frozen
}

// GetFixes returns the fixes registered for a type whose version range
// intersects [fromVersion, toVersion], in registration order.
func (r *FixRegistry) GetFixes(typeRef string, fromVersion, toVersion int) []Fix {
	var out []Fix

	for _, fix := range r.byType[typeRef] {
		if fix.FromVersion() <= toVersion && fix.ToVersion() >= fromVersion {
			out = append(out, fix)
		}
	}

	return out
}

// Types returns the type references that have registered fixes.
func (r *FixRegistry) Types() []string {
	out := make([]string, 0, len(r.byType))

	for typeRef := range r.byType {
		out = append(out, typeRef)
	}

	return out
}
