package diag

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go.jacobcolvin.com/datafix/dyn"
)

// Context captures diagnostics for one migration. It is single-writer:
// each migration call creates or is handed a fresh Context, and only that
// migration writes to it. The finished [MigrationReport] is immutable and
// safe to share across goroutines.
//
// Create instances with [NewContext].
type Context struct {
	id          string
	logger      *slog.Logger
	snapshot    func(d dyn.Dynamic) string
	ruleDetails bool

	typeRef     string
	fromVersion int
	toVersion   int
	start       time.Time
	end         time.Time

	executions []FixExecution
	current    *FixExecution
	touched    map[string]struct{}
	warnings   []string

	inputSnapshot  string
	outputSnapshot string
}

// Option configures a Context.
type Option func(*Context)

// WithRuleDetails enables per-rule-application capture. Without it, fixes
// are recorded but individual rule rewrites are not.
func WithRuleDetails() Option {
	return func(c *Context) {
		c.ruleDetails = true
	}
}

// WithSnapshots enables before/after snapshots, rendered by fn. Snapshot
// serialization is the caller's business; the engine records the returned
// string as-is.
func WithSnapshots(fn func(d dyn.Dynamic) string) Option {
	return func(c *Context) {
		c.snapshot = fn
	}
}

// WithLogger streams migration events to logger as they happen, in
// addition to the final report.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// NewContext creates a fresh diagnostic context with a unique migration ID.
func NewContext(opts ...Option) *Context {
	c := &Context{
		id:      uuid.NewString(),
		touched: map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ID returns the migration's unique identifier.
func (c *Context) ID() string {
	return c.id
}

// RuleDetails reports whether per-rule capture is enabled.
func (c *Context) RuleDetails() bool {
	return c.ruleDetails
}

// Begin records the start of a migration.
func (c *Context) Begin(typeRef string, fromVersion, toVersion int, input dyn.Dynamic) {
	c.typeRef = typeRef
	c.fromVersion = fromVersion
	c.toVersion = toVersion
	c.start = time.Now()
	c.touched[typeRef] = struct{}{}

	if c.snapshot != nil {
		c.inputSnapshot = c.snapshot(input)
	}

	c.log("migration started",
		slog.String("type", typeRef),
		slog.Int("from", fromVersion),
		slog.Int("to", toVersion))
}

// End records the end of a migration.
func (c *Context) End(output dyn.Dynamic) {
	c.end = time.Now()

	if c.snapshot != nil {
		c.outputSnapshot = c.snapshot(output)
	}

	c.log("migration finished",
		slog.String("type", c.typeRef),
		slog.Duration("duration", c.end.Sub(c.start)))
}

// Warn records a non-fatal anomaly. Warnings never stop execution.
func (c *Context) Warn(msg string) {
	c.warnings = append(c.warnings, msg)
	c.log("migration warning", slog.String("warning", msg))
}

// BeginFix records the start of one fix in the chain.
func (c *Context) BeginFix(name string, fromVersion, toVersion int, before dyn.Dynamic) {
	exec := FixExecution{
		FixName:     name,
		FromVersion: fromVersion,
		ToVersion:   toVersion,
		StartTime:   time.Now(),
	}

	if c.snapshot != nil {
		exec.BeforeSnapshot = c.snapshot(before)
	}

	c.current = &exec

	c.log("fix started", slog.String("fix", name))
}

// EndFix records the end of the fix begun by the last BeginFix.
func (c *Context) EndFix(after dyn.Dynamic) {
	if c.current == nil {
		return
	}

	c.current.Duration = time.Since(c.current.StartTime)

	if c.snapshot != nil {
		c.current.AfterSnapshot = c.snapshot(after)
	}

	c.log("fix finished",
		slog.String("fix", c.current.FixName),
		slog.Duration("duration", c.current.Duration))

	c.executions = append(c.executions, *c.current)
	c.current = nil
}

// RecordRule records one rule application within the current fix.
func (c *Context) RecordRule(app RuleApplication) {
	if c.current == nil {
		return
	}

	c.current.RuleApplications = append(c.current.RuleApplications, app)
}

// Report seals the captured diagnostics into an immutable report.
func (c *Context) Report() *MigrationReport {
	executions := make([]FixExecution, len(c.executions))
	copy(executions, c.executions)

	for i := range executions {
		apps := make([]RuleApplication, len(executions[i].RuleApplications))
		copy(apps, executions[i].RuleApplications)
		executions[i].RuleApplications = apps
	}

	touched := make([]string, 0, len(c.touched))

	for ref := range c.touched {
		touched = append(touched, ref)
	}

	warnings := make([]string, len(c.warnings))
	copy(warnings, c.warnings)

	return &MigrationReport{
		ID:             c.id,
		Type:           c.typeRef,
		FromVersion:    c.fromVersion,
		ToVersion:      c.toVersion,
		StartTime:      c.start,
		EndTime:        c.end,
		TotalDuration:  c.end.Sub(c.start),
		FixExecutions:  executions,
		TouchedTypes:   touched,
		Warnings:       warnings,
		InputSnapshot:  c.inputSnapshot,
		OutputSnapshot: c.outputSnapshot,
	}
}

func (c *Context) log(msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}

	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("migration", c.id))

	for _, a := range attrs {
		args = append(args, a)
	}

	c.logger.Info(msg, args...)
}
