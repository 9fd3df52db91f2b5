// Package cli provides the cobra front-end for migrating documents with a
// [fixer.Fixer].
//
// The framework has no schemas of its own; an embedding application wires
// its [fixer.Bootstrap] into a main of a few lines:
//
//	func main() {
//	    cmd, err := cli.NewCommand("gamesave-fix", myBootstrap)
//	    if err != nil {
//	        fmt.Fprintln(os.Stderr, err)
//	        os.Exit(1)
//	    }
//
//	    os.Exit(cli.ExitCode(cmd.Execute()))
//	}
//
// The command reads a document (JSON, YAML, or TOML; from a file or
// stdin), resolves the source version from the document's version marker
// or the --from flag, migrates to the --to version (default: current),
// and writes the result. With --dry-run it only reports whether migration
// is needed, which [ExitCode] maps to exit code 2. Per-fix progress
// streams through a [log.Publisher]: --verbose attaches a terminal
// subscriber, --progress-log a file subscriber.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/datafix/dyn"
	"go.jacobcolvin.com/datafix/dyn/jsonops"
	"go.jacobcolvin.com/datafix/dyn/tomlops"
	"go.jacobcolvin.com/datafix/dyn/yamlops"
	"go.jacobcolvin.com/datafix/fixer"
	"go.jacobcolvin.com/datafix/fixer/diag"
	"go.jacobcolvin.com/datafix/log"
	"go.jacobcolvin.com/datafix/profile"
	"go.jacobcolvin.com/datafix/version"
)

// Sentinel errors returned by the command.
var (
	// ErrMigrationNeeded reports a dry run that found work to do.
	ErrMigrationNeeded = errors.New("migration needed")
	ErrReadInput       = errors.New("read input")
	ErrWriteOutput     = errors.New("write output")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrNoVersion       = errors.New("no source version")
)

// ExitCode maps a command error to the documented process exit codes:
// 0 for success, 2 for a dry run that found migration needed, 1 for
// everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrMigrationNeeded):
		return 2
	}

	return 1
}

// NewCommand builds the migration command around the application's
// bootstrap. The returned command owns flag registration for migration,
// logging, and profiling.
func NewCommand(name string, b fixer.Bootstrap, opts ...fixer.Option) (*cobra.Command, error) {
	f, err := fixer.NewFixer(b, opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping fixer: %w", err)
	}

	migCfg := fixer.NewConfig()
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	var (
		format      string
		output      string
		verbose     bool
		progressLog string
	)

	cmd := &cobra.Command{
		Use:   name + " [flags] <file|->",
		Short: "Migrate a versioned document to a newer schema version",
		Long: name + ` reads a serialized document, applies the registered data fixes to
bring it from its source schema version to the target version, and writes
the migrated document back out.`,
		Version:       version.Print(name),
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, handlerErr := logCfg.NewHandler(cmd.ErrOrStderr())
			if handlerErr != nil {
				return handlerErr
			}

			logger := slog.New(handler)

			prof := profCfg.NewProfiler()

			if startErr := prof.Start(); startErr != nil {
				return startErr
			}
			defer func() {
				if stopErr := prof.Stop(); stopErr != nil {
					logger.Warn("stopping profiler", slog.String("error", stopErr.Error()))
				}
			}()

			return run(cmd, f, migCfg, runOptions{
				input:       args[0],
				format:      format,
				output:      output,
				verbose:     verbose,
				progressLog: progressLog,
				logger:      logger,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "",
		"document format: json, yaml, or toml (default: from file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "-",
		"output file path (- for stdout)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"stream per-fix progress to stderr")
	cmd.Flags().StringVar(&progressLog, "progress-log", "",
		"also write per-fix progress to this file")

	migCfg.RegisterFlags(cmd.Flags())
	logCfg.RegisterFlags(cmd.PersistentFlags())
	profCfg.RegisterFlags(cmd.PersistentFlags())

	if err := migCfg.RegisterCompletions(cmd, f); err != nil {
		return nil, err
	}

	if err := logCfg.RegisterCompletions(cmd); err != nil {
		return nil, err
	}

	err = cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions([]string{"json", "yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return nil, fmt.Errorf("registering format completion: %w", err)
	}

	return cmd, nil
}

type runOptions struct {
	input       string
	format      string
	output      string
	verbose     bool
	progressLog string
	logger      *slog.Logger
}

func run(cmd *cobra.Command, f *fixer.Fixer, cfg *fixer.Config, opts runOptions) error {
	data, name, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.format, name)
	if err != nil {
		return err
	}

	doc, err := format.parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	d := dyn.New(format.ops, doc)

	from, err := sourceVersion(d, cfg)
	if err != nil {
		return err
	}

	to := cfg.To
	if to < 0 {
		to = f.CurrentVersion()
	}

	if cfg.DryRun {
		if from < to {
			opts.logger.Info("dry run: migration needed",
				slog.Int("from", from), slog.Int("to", to))

			return fmt.Errorf("%w: version %d -> %d", ErrMigrationNeeded, from, to)
		}

		opts.logger.Info("dry run: document is current", slog.Int("version", from))

		return nil
	}

	ctx, flush, err := progressContext(cmd, opts)
	if err != nil {
		return err
	}

	if flush != nil {
		defer flush()
	}

	migrated, err := f.UpdateDynamic(cfg.Type, d, from, to, ctx)
	if err != nil {
		return err
	}

	// Stamp the new version at the marker path before writing.
	out := migrated
	if cfg.VersionPath != "" {
		out = setVersion(out, cfg.VersionPath, to)
	}

	encoded, err := format.marshal(out.Value())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return writeOutput(cmd.OutOrStdout(), opts.output, encoded)
}

// progressContext builds the optional diagnostic context for progress
// streaming. Diagnostic events flow through a [log.Publisher]; each enabled
// consumer (the terminal for --verbose, a file for --progress-log) drains
// its own subscription, so one slow consumer never stalls the migration.
// The returned flush closes the publisher and waits for the consumers to
// drain; callers must invoke it before returning when it is non-nil.
func progressContext(cmd *cobra.Command, opts runOptions) (*diag.Context, func(), error) {
	if !opts.verbose && opts.progressLog == "" {
		return nil, nil, nil
	}

	pub := log.NewPublisher()

	var (
		done    []chan struct{}
		cleanup []func()
	)

	consume := func(w io.Writer) {
		sub := pub.Subscribe()
		ch := make(chan struct{})
		done = append(done, ch)

		go func() {
			defer close(ch)

			for entry := range sub.C() {
				_, _ = w.Write(entry)
			}
		}()
	}

	if opts.verbose {
		consume(cmd.ErrOrStderr())
	}

	if opts.progressLog != "" {
		file, err := os.Create(opts.progressLog)
		if err != nil {
			_ = pub.Close()

			return nil, nil, fmt.Errorf("%w: progress log: %w", ErrWriteOutput, err)
		}

		cleanup = append(cleanup, func() { _ = file.Close() })
		consume(file)
	}

	progress := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatText))
	ctx := diag.NewContext(diag.WithLogger(progress))

	flush := func() {
		_ = pub.Close()

		for _, ch := range done {
			<-ch
		}

		for _, fn := range cleanup {
			fn()
		}
	}

	return ctx, flush, nil
}

// format bundles one backend binding.
type format struct {
	ops     dyn.Ops
	parse   func(data []byte) (any, error)
	marshal func(v any) ([]byte, error)
}

var formats = map[string]format{
	"json": {
		ops:   jsonops.Default,
		parse: jsonops.Parse,
		marshal: func(v any) ([]byte, error) {
			return jsonops.Marshal(v, 2)
		},
	},
	"yaml": {
		ops:     yamlops.Default,
		parse:   yamlops.Parse,
		marshal: yamlops.Marshal,
	},
	"toml": {
		ops:     tomlops.Default,
		parse:   tomlops.Parse,
		marshal: tomlops.Marshal,
	},
}

func resolveFormat(flag, filename string) (format, error) {
	name := strings.ToLower(flag)

	if name == "" {
		switch {
		case strings.HasSuffix(filename, ".json"):
			name = "json"
		case strings.HasSuffix(filename, ".yaml"), strings.HasSuffix(filename, ".yml"):
			name = "yaml"
		case strings.HasSuffix(filename, ".toml"):
			name = "toml"
		default:
			name = "json"
		}
	}

	f, ok := formats[name]
	if !ok {
		return format{}, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}

	return f, nil
}

func readInput(stdin io.Reader, arg string) ([]byte, string, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}

		return data, "", nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return data, arg, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		return nil
	}

	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// sourceVersion resolves the migration's source version from the --from
// flag, falling back to the document's version marker.
func sourceVersion(d dyn.Dynamic, cfg *fixer.Config) (int, error) {
	if cfg.From >= 0 {
		return cfg.From, nil
	}

	if cfg.VersionPath == "" {
		return 0, fmt.Errorf("%w: no --from flag and no version path", ErrNoVersion)
	}

	current := d

	for _, segment := range strings.Split(cfg.VersionPath, ".") {
		next, ok := current.Get(segment)
		if !ok {
			return 0, fmt.Errorf("%w: no marker at %q", ErrNoVersion, cfg.VersionPath)
		}

		current = next
	}

	v, err := current.AsInt().Unwrap()
	if err != nil {
		return 0, fmt.Errorf("%w: marker at %q: %w", ErrNoVersion, cfg.VersionPath, err)
	}

	return int(v), nil
}

// setVersion writes the version marker at a dotted path, creating missing
// parents.
func setVersion(d dyn.Dynamic, path string, v int) dyn.Dynamic {
	segments := strings.Split(path, ".")

	return setAt(d, segments, v)
}

func setAt(d dyn.Dynamic, segments []string, v int) dyn.Dynamic {
	if len(segments) == 1 {
		return d.SetValue(segments[0], d.Ops().CreateInt(int32(v)))
	}

	child, ok := d.Get(segments[0])
	if !ok {
		child = dyn.New(d.Ops(), d.Ops().EmptyMap())
	}

	return d.Set(segments[0], setAt(child, segments[1:], v))
}
