package result

import (
	"errors"
	"fmt"
)

// Result is the outcome of a fallible operation: either a success carrying a
// value of type A, or an error carrying a lazily-built message.
//
// A success may be partial, meaning a default was substituted or data was
// dropped; callers should keep the value but surface a warning. An error may
// carry a partial fallback value recoverable via [Result.Partial].
//
// Error messages are thunks. They are never evaluated on the success path,
// so constructing them may be arbitrarily expensive.
//
// The zero value is a success carrying A's zero value. Create instances with
// [Success], [Error], [PartialSuccess], or [PartialError].
type Result[A any] struct {
	value      A
	message    func() string
	hasPartial bool
	partial    bool
}

// Success returns a successful Result carrying v.
func Success[A any](v A) Result[A] {
	return Result[A]{value: v}
}

// PartialSuccess returns a successful Result carrying v, flagged as partial.
// Partial means the operation substituted a default or dropped data.
func PartialSuccess[A any](v A) Result[A] {
	return Result[A]{value: v, partial: true}
}

// Error returns an error Result. The message thunk is evaluated only when
// the message is actually rendered.
func Error[A any](message func() string) Result[A] {
	return Result[A]{message: message}
}

// Errorf returns an error Result with a message built from format and args
// when rendered.
func Errorf[A any](format string, args ...any) Result[A] {
	return Result[A]{message: func() string {
		return fmt.Sprintf(format, args...)
	}}
}

// PartialError returns an error Result that additionally carries a fallback
// value recoverable via [Result.Partial].
func PartialError[A any](message func() string, fallback A) Result[A] {
	return Result[A]{message: message, value: fallback, hasPartial: true}
}

// IsSuccess reports whether r is a success.
func (r Result[A]) IsSuccess() bool {
	return r.message == nil
}

// IsError reports whether r is an error.
func (r Result[A]) IsError() bool {
	return r.message != nil
}

// IsPartial reports whether a success was flagged partial.
func (r Result[A]) IsPartial() bool {
	return r.partial
}

// Message renders the error message. Returns the empty string on success.
func (r Result[A]) Message() string {
	if r.message == nil {
		return ""
	}

	return r.message()
}

// ValueOr returns the success value, or fallback on error.
func (r Result[A]) ValueOr(fallback A) A {
	if r.message != nil {
		return fallback
	}

	return r.value
}

// Partial returns the partial fallback carried by an error, if any.
// On success it returns the success value.
func (r Result[A]) Partial() (A, bool) {
	if r.message == nil {
		return r.value, true
	}

	return r.value, r.hasPartial
}

// Unwrap returns the success value, or a rendered error.
func (r Result[A]) Unwrap() (A, error) {
	if r.message != nil {
		var zero A

		return zero, errors.New(r.message())
	}

	return r.value, nil
}

// MustUnwrap returns the success value and panics with the rendered message
// on error. Intended for tests and bootstrap code where failure is a bug.
func (r Result[A]) MustUnwrap() A {
	if r.message != nil {
		panic("result: " + r.message())
	}

	return r.value
}

// MapValue applies f to the success value, preserving the partial flag.
// Errors pass through untouched. For a type-changing map use [Map].
func (r Result[A]) MapValue(f func(A) A) Result[A] {
	if r.message != nil {
		return r
	}

	r.value = f(r.value)

	return r
}

// MapError prefixes the error message with prefix, preserving any partial
// payload. Successes pass through untouched.
func (r Result[A]) MapError(prefix string) Result[A] {
	if r.message == nil {
		return r
	}

	inner := r.message
	r.message = func() string {
		return prefix + ": " + inner()
	}

	return r
}

// OrElse returns r if it is a success, otherwise alt.
func (r Result[A]) OrElse(alt Result[A]) Result[A] {
	if r.message == nil {
		return r
	}

	return alt
}

// Map applies f to the success value. The partial flag is preserved and
// errors pass through with their message and without any partial payload
// (the payload's type no longer matches).
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	if r.message != nil {
		return Result[B]{message: r.message}
	}

	return Result[B]{value: f(r.value), partial: r.partial}
}

// FlatMap applies f to the success value and returns its Result.
// Errors short-circuit. A partial input success marks the output partial.
func FlatMap[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	if r.message != nil {
		return Result[B]{message: r.message}
	}

	out := f(r.value)
	if r.partial && out.message == nil {
		out.partial = true
	}

	return out
}
