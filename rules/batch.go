package rules

import (
	"go.jacobcolvin.com/datafix/dyn"
)

// Batch collects a sequence of map operations into one rule that applies
// them in order. Each queued operation runs as its own step on the root
// map, reading and rebuilding it as it would on its own; the batch does
// not merge the steps into a single rebuild.
//
// The builder is fluent and not safe for concurrent use; the rule built
// by [Batch.Rule] is immutable and safe to share.
type Batch struct {
	steps []Rule
}

// NewBatch creates an empty batch builder.
func NewBatch() *Batch {
	return &Batch{}
}

// Rename queues a flat field rename.
func (b *Batch) Rename(from, to string) *Batch {
	return b.add(RenameField(from, to))
}

// Remove queues a flat field removal.
func (b *Batch) Remove(name string) *Batch {
	return b.add(RemoveField(name))
}

// Add queues a flat field addition with a lazily-built default.
func (b *Batch) Add(ops dyn.Ops, name string, def func(ops dyn.Ops) dyn.Dynamic) *Batch {
	return b.add(AddField(ops, name, def))
}

// Transform queues a flat field transformation.
func (b *Batch) Transform(name string, fn func(dyn.Dynamic) dyn.Dynamic) *Batch {
	return b.add(TransformField(name, fn))
}

// Move queues a path-to-path move.
func (b *Batch) Move(fromPath, toPath string) *Batch {
	return b.add(MoveField(fromPath, toPath))
}

// Copy queues a path-to-path copy.
func (b *Batch) Copy(fromPath, toPath string) *Batch {
	return b.add(CopyField(fromPath, toPath))
}

// Group queues a field grouping.
func (b *Batch) Group(ops dyn.Ops, target string, fields ...string) *Batch {
	return b.add(GroupFields(ops, target, fields...))
}

// Flatten queues a sub-map flattening.
func (b *Batch) Flatten(name string) *Batch {
	return b.add(FlattenField(name))
}

// Step queues an arbitrary rule.
func (b *Batch) Step(r Rule) *Batch {
	return b.add(r)
}

func (b *Batch) add(r Rule) *Batch {
	b.steps = append(b.steps, r)

	return b
}

// Rule seals the batch into a single rule that applies every queued
// operation in order. Operations that do not apply are skipped; the rule
// always matches.
func (b *Batch) Rule(name string) Rule {
	steps := make([]Rule, len(b.steps))
	copy(steps, b.steps)

	return SeqAll(steps...).Named(name)
}
