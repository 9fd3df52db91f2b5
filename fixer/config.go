package fixer

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for migration configuration, allowing
// callers to customize flag names while keeping sensible defaults.
type Flags struct {
	Type        string
	From        string
	To          string
	VersionPath string
	DryRun      string
}

// Config holds CLI flag values for a migration run.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags Flags

	// Type is the type reference of the document.
	Type string
	// From is the source version. Negative means "read it from the
	// document at VersionPath".
	From int
	// To is the target version. Negative means "the fixer's current
	// version".
	To int
	// VersionPath is the dotted path of the version marker within the
	// document.
	VersionPath string
	// DryRun reports whether migration is needed without applying it.
	DryRun bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Type:        "type",
			From:        "from",
			To:          "to",
			VersionPath: "version-path",
			DryRun:      "dry-run",
		},
		From: -1,
		To:   -1,
	}
}

// RegisterFlags adds migration flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Type, c.Flags.Type, "t", "",
		"type reference of the document")
	flags.IntVar(&c.From, c.Flags.From, -1,
		"source version (default: read from the document)")
	flags.IntVar(&c.To, c.Flags.To, -1,
		"target version (default: current)")
	flags.StringVar(&c.VersionPath, c.Flags.VersionPath, "dataVersion",
		"dotted path of the version marker in the document")
	flags.BoolVar(&c.DryRun, c.Flags.DryRun, false,
		"report whether migration is needed without applying it")
}

// RegisterCompletions registers shell completions for migration flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command, f *Fixer) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Type,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			if f == nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return f.Fixes().Types(), cobra.ShellCompDirectiveNoFileComp
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Type, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.From, c.Flags.To, c.Flags.VersionPath} {
		regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}
