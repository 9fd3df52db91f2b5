package fixer

import (
	"errors"
	"fmt"
)

// FixError wraps a user error raised by a fix's Apply, carrying the fix's
// identity and the migration coordinates. The engine never double-wraps:
// an error that already is a FixError propagates unchanged.
type FixError struct {
	FixName     string
	FromVersion int
	ToVersion   int
	TypeRef     string
	Cause       error
}

// Error implements error.
func (e *FixError) Error() string {
	return fmt.Sprintf("fix %s (%d -> %d) on type %s: %v",
		e.FixName, e.FromVersion, e.ToVersion, e.TypeRef, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *FixError) Unwrap() error {
	return e.Cause
}

// wrapFixError wraps err unless it already is a FixError.
func wrapFixError(fix Fix, typeRef string, err error) error {
	var fe *FixError
	if errors.As(err, &fe) {
		return err
	}

	return &FixError{
		FixName:     fix.Name(),
		FromVersion: fix.FromVersion(),
		ToVersion:   fix.ToVersion(),
		TypeRef:     typeRef,
		Cause:       err,
	}
}
