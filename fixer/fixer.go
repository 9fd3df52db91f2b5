package fixer

import (
	"fmt"
	"log/slog"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/fixer/diag"
	"go.jacobcolvin.com/datafix/schema"
)

// TaggedDynamic pairs a type reference with a dynamic document. It is the
// unit the migration engine operates on.
type TaggedDynamic struct {
	TypeRef string
	Value   dyn.Dynamic
}

// Bootstrap supplies the registration callbacks an embedding application
// uses to populate the fixer. The framework invokes Schemas first, then
// Fixes, then freezes both registries.
type Bootstrap struct {
	Schemas func(r *schema.Registry) error
	Fixes   func(r *FixRegistry) error
}

// Fixer is the migration façade: it resolves types through the schema
// registry, encodes and decodes documents through their type's codec, and
// runs fix chains through the update engine.
//
// A Fixer is immutable after construction and serves unbounded concurrent
// calls. Create instances with [NewFixer].
type Fixer struct {
	schemas *schema.Registry
	fixes   *FixRegistry
	current int
	logger  *slog.Logger
}

// Option configures a Fixer.
type Option func(*Fixer)

// WithCurrentVersion pins the current data version. By default the fixer
// uses the highest registered schema version.
func WithCurrentVersion(version int) Option {
	return func(f *Fixer) {
		f.current = version
	}
}

// WithLogger sets the logger for engine warnings. Defaults to
// [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fixer) {
		f.logger = logger
	}
}

// NewFixer runs the bootstrap callbacks, freezes both registries, and
// returns the ready fixer.
func NewFixer(b Bootstrap, opts ...Option) (*Fixer, error) {
	f := &Fixer{
		schemas: schema.NewRegistry(),
		fixes:   NewFixRegistry(),
		current: -1,
	}

	if b.Schemas != nil {
		err := b.Schemas(f.schemas)
		if err != nil {
			return nil, fmt.Errorf("registering schemas: %w", err)
		}
	}

	f.schemas.Freeze()

	if b.Fixes != nil {
		err := b.Fixes(f.fixes)
		if err != nil {
			return nil, fmt.Errorf("registering fixes: %w", err)
		}
	}

	err := f.fixes.Freeze()
	if err != nil {
		return nil, fmt.Errorf("validating fixes: %w", err)
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.current < 0 {
		latest, ok := f.schemas.Latest()
		if !ok {
			return nil, fmt.Errorf("no schemas registered and no current version set")
		}

		f.current = latest.Version()
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f, nil
}

// CurrentVersion returns the version documents are migrated up to.
func (f *Fixer) CurrentVersion() int {
	return f.current
}

// Schemas returns the frozen schema registry.
func (f *Fixer) Schemas() *schema.Registry {
	return f.schemas
}

// Fixes returns the frozen fix registry.
func (f *Fixer) Fixes() *FixRegistry {
	return f.fixes
}

// Encode validates and encodes a payload as the given type at the given
// version, producing a tagged document.
func (f *Fixer) Encode(version int, typeRef string, payload dyn.Dynamic, ops dyn.Ops) (TaggedDynamic, error) {
	s, err := f.schemas.Require(version)
	if err != nil {
		return TaggedDynamic{}, err
	}

	t, err := s.Require(typeRef)
	if err != nil {
		return TaggedDynamic{}, err
	}

	encoded, err := t.Codec().EncodeStart(ops, payload).Unwrap()
	if err != nil {
		return TaggedDynamic{}, fmt.Errorf("encoding %s at version %d: %w", typeRef, version, err)
	}

	return TaggedDynamic{TypeRef: typeRef, Value: dyn.New(ops, encoded)}, nil
}

// Decode validates a tagged document against its type at the given
// version and returns the validated payload.
func (f *Fixer) Decode(version int, td TaggedDynamic) (dyn.Dynamic, error) {
	s, err := f.schemas.Require(version)
	if err != nil {
		return dyn.Dynamic{}, err
	}

	t, err := s.Require(td.TypeRef)
	if err != nil {
		return dyn.Dynamic{}, err
	}

	decoded := t.Codec().Parse(td.Value.Ops(), td.Value.Value())

	out, err := decoded.Unwrap()
	if err != nil {
		return dyn.Dynamic{}, fmt.Errorf("decoding %s at version %d: %w", td.TypeRef, version, err)
	}

	if decoded.IsPartial() {
		f.logger.Warn("decode used defaults",
			slog.String("type", td.TypeRef),
			slog.Int("version", version))
	}

	return out, nil
}

// Update migrates a tagged document across a version range. See
// [Fixer.UpdateDynamic].
func (f *Fixer) Update(td TaggedDynamic, fromVersion, toVersion int, ctx *diag.Context) (TaggedDynamic, error) {
	out, err := f.UpdateDynamic(td.TypeRef, td.Value, fromVersion, toVersion, ctx)
	if err != nil {
		return td, err
	}

	return TaggedDynamic{TypeRef: td.TypeRef, Value: out}, nil
}

// UpdateDynamic applies the fix chain selected by (typeRef, fromVersion,
// toVersion) to the document, in registration order. Fixes whose range
// extends outside the requested one are skipped. The chain aborts at the
// first failing fix with a [FixError]; there are no retries and no
// partial-application recovery.
//
// When fromVersion equals toVersion the input is returned as-is with no
// context recording. The ctx may be nil; when present it captures the
// migration report.
func (f *Fixer) UpdateDynamic(typeRef string, d dyn.Dynamic, fromVersion, toVersion int, ctx *diag.Context) (dyn.Dynamic, error) {
	if fromVersion > toVersion {
		return d, fmt.Errorf("%w: from %d > to %d", ErrBadVersionRange, fromVersion, toVersion)
	}

	if toVersion > f.current {
		return d, fmt.Errorf("%w: to %d > current %d", ErrBadVersionRange, toVersion, f.current)
	}

	if fromVersion == toVersion {
		return d, nil
	}

	if ctx != nil {
		ctx.Begin(typeRef, fromVersion, toVersion, d)
	}

	current := d

	for _, fix := range f.fixes.GetFixes(typeRef, fromVersion, toVersion) {
		if fix.FromVersion() < fromVersion || fix.ToVersion() > toVersion {
			continue
		}

		if ctx != nil {
			ctx.BeginFix(fix.Name(), fix.FromVersion(), fix.ToVersion(), current)
		}

		next, err := fix.Apply(typeRef, current, ctx)
		if err != nil {
			return d, wrapFixError(fix, typeRef, err)
		}

		if next.Ops() == nil {
			return d, fmt.Errorf("%w: fix %s", ErrNilFixResult, fix.Name())
		}

		current = next

		if ctx != nil {
			ctx.EndFix(current)
		}
	}

	if ctx != nil {
		ctx.End(current)
	}

	return current, nil
}
