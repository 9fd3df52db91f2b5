package fixer

import (
	"time"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/fixer/diag"
	"go.jacobcolvin.com/datafix/rules"
	"go.jacobcolvin.com/datafix/types"
)

// Fix transforms documents of one type from one schema version to the
// next. Implementations must be stateless: the engine applies a single
// fix from many goroutines concurrently.
//
// Name is diagnostic only; uniqueness is recommended, not required.
// FromVersion must not exceed ToVersion, which the registry validates.
// A fix with FromVersion == ToVersion is legal and acts as a pure
// transformer within the chain.
type Fix interface {
	Name() string
	FromVersion() int
	ToVersion() int

	// Apply transforms the document. The context is nil unless the caller
	// requested diagnostics. Returning an error aborts the chain.
	Apply(typeRef string, d dyn.Dynamic, ctx *diag.Context) (dyn.Dynamic, error)
}

// funcFix adapts a plain function into a [Fix].
type funcFix struct {
	name string
	from int
	to   int
	fn   func(typeRef string, d dyn.Dynamic, ctx *diag.Context) (dyn.Dynamic, error)
}

// New builds a fix from a function.
func New(name string, from, to int, fn func(typeRef string, d dyn.Dynamic, ctx *diag.Context) (dyn.Dynamic, error)) Fix {
	return &funcFix{name: name, from: from, to: to, fn: fn}
}

func (f *funcFix) Name() string     { return f.name }
func (f *funcFix) FromVersion() int { return f.from }
func (f *funcFix) ToVersion() int   { return f.to }

func (f *funcFix) Apply(typeRef string, d dyn.Dynamic, ctx *diag.Context) (dyn.Dynamic, error) {
	return f.fn(typeRef, d, ctx)
}

// ruleFix runs a rewrite rule as a fix, recording rule applications when
// the diagnostic context asks for them.
type ruleFix struct {
	name string
	from int
	to   int
	rule rules.Rule
}

// FromRule builds a fix that applies a rewrite rule to the document. A
// non-matching rule leaves the document unchanged; it is not an error.
func FromRule(name string, from, to int, r rules.Rule) Fix {
	return &ruleFix{name: name, from: from, to: to, rule: r}
}

func (f *ruleFix) Name() string     { return f.name }
func (f *ruleFix) FromVersion() int { return f.from }
func (f *ruleFix) ToVersion() int   { return f.to }

func (f *ruleFix) Apply(_ string, d dyn.Dynamic, ctx *diag.Context) (dyn.Dynamic, error) {
	r := f.rule
	if ctx != nil && ctx.RuleDetails() {
		r = instrument(r, ctx)
	}

	return r.Apply(types.Typed{Type: types.Passthrough, Value: d}).Value, nil
}

// instrument wraps a rule once at the engine boundary, intercepting
// Rewrite to record name, type description, timing, and match outcome.
func instrument(r rules.Rule, ctx *diag.Context) rules.Rule {
	return rules.New(r.String(), func(t types.Type, v types.Typed) (types.Typed, bool) {
		start := time.Now()
		out, matched := r.Rewrite(t, v)

		desc := ""
		if t != nil {
			desc = t.Describe()
		}

		ctx.RecordRule(diag.RuleApplication{
			RuleName:        r.String(),
			TypeDescription: desc,
			StartTime:       start,
			Duration:        time.Since(start),
			Matched:         matched,
		})

		return out, matched
	})
}

// Builder assembles a fix from field operations with a fluent API,
// covering the common case of a version step that renames, moves, and
// reshapes fields of one type.
type Builder struct {
	name  string
	from  int
	to    int
	batch *rules.Batch
}

// NewBuilder starts a fix builder for a version step.
func NewBuilder(name string, from, to int) *Builder {
	return &Builder{name: name, from: from, to: to, batch: rules.NewBatch()}
}

// Rename queues a flat field rename.
func (b *Builder) Rename(from, to string) *Builder {
	b.batch.Rename(from, to)

	return b
}

// Remove queues a flat field removal.
func (b *Builder) Remove(name string) *Builder {
	b.batch.Remove(name)

	return b
}

// Add queues a flat field addition with a lazily-built default.
func (b *Builder) Add(ops dyn.Ops, name string, def func(ops dyn.Ops) dyn.Dynamic) *Builder {
	b.batch.Add(ops, name, def)

	return b
}

// Transform queues a flat field transformation.
func (b *Builder) Transform(name string, fn func(dyn.Dynamic) dyn.Dynamic) *Builder {
	b.batch.Transform(name, fn)

	return b
}

// Move queues a path-to-path move.
func (b *Builder) Move(fromPath, toPath string) *Builder {
	b.batch.Move(fromPath, toPath)

	return b
}

// Group queues a field grouping.
func (b *Builder) Group(ops dyn.Ops, target string, fields ...string) *Builder {
	b.batch.Group(ops, target, fields...)

	return b
}

// Step queues an arbitrary rule.
func (b *Builder) Step(r rules.Rule) *Builder {
	b.batch.Step(r)

	return b
}

// Build seals the builder into a fix.
func (b *Builder) Build() Fix {
	return FromRule(b.name, b.from, b.to, b.batch.Rule(b.name))
}
